package service

import (
	"context"
	"notabene-be/internal/entity"
)

type IAccessService interface {
	CanRead(ctx context.Context, note *entity.Note, actor string) (bool, error)
	CanWrite(ctx context.Context, note *entity.Note, actor string) (bool, error)
	CanManageSharing(actor, owner string) bool
	// CanDelete is owner-only; a write grant never authorizes deletion.
	CanDelete(actor, owner string) bool
}

type accessService struct {
	shareService IShareService
}

func NewAccessService(shareService IShareService) IAccessService {
	return &accessService{shareService: shareService}
}

func (c *accessService) CanRead(ctx context.Context, note *entity.Note, actor string) (bool, error) {
	return c.shareService.HasRead(ctx, note.Id, actor, note.Owner)
}

func (c *accessService) CanWrite(ctx context.Context, note *entity.Note, actor string) (bool, error) {
	return c.shareService.HasWrite(ctx, note.Id, actor, note.Owner)
}

func (c *accessService) CanManageSharing(actor, owner string) bool {
	return isSameIdentity(actor, owner)
}

func (c *accessService) CanDelete(actor, owner string) bool {
	return isSameIdentity(actor, owner)
}
