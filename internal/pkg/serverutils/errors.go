package serverutils

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("the requested resource was not found")
	ErrUnauthorized = errors.New("you are not authorized to access this resource")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrInternal     = errors.New("something went wrong on our end, please try again later")
	ErrBadRequest   = errors.New("the request could not be processed due to invalid input")
	ErrConflict     = errors.New("the resource already exists")

	ErrInvalidTag  = errors.New("invalid tag")
	ErrSelfShare   = errors.New("a note cannot be shared with its owner")
	ErrUnknownUser = errors.New("unknown user")
	ErrStorage     = errors.New("storage failure")
)

func InvalidTagError(name string) error {
	return fmt.Errorf("%w: %s", ErrInvalidTag, name)
}

func UnknownUserError(identity string) error {
	return fmt.Errorf("%w: %s", ErrUnknownUser, identity)
}

func SelfShareError(identity string) error {
	return fmt.Errorf("%w: %s", ErrSelfShare, identity)
}

func StorageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
