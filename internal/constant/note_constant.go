package constant

const (
	PermissionRead  = "read"
	PermissionWrite = "write"

	NoteTitleMaxLength = 255
	NoteBodyMaxLength  = 280
)

func IsValidPermission(level string) bool {
	return level == PermissionRead || level == PermissionWrite
}
