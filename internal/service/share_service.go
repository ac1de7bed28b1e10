package service

import (
	"context"
	"errors"
	"fmt"
	"notabene-be/internal/constant"
	"notabene-be/internal/dto"
	"notabene-be/internal/entity"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/internal/repository"
	"notabene-be/pkg/database"
	"strings"

	"github.com/google/uuid"
)

// IShareService is the share ledger. It does not check who is calling:
// only the note owner may grant, revoke or replace, and that is enforced
// by the note service.
type IShareService interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) IShareService
	Grant(ctx context.Context, noteId uuid.UUID, owner, grantee, level string) (*entity.ShareGrant, error)
	Revoke(ctx context.Context, noteId uuid.UUID, grantee string) error
	RevokeAll(ctx context.Context, noteId uuid.UUID) error
	// ReplaceAll validates the whole batch before touching anything; it
	// must run inside a transaction to be all-or-nothing.
	ReplaceAll(ctx context.Context, noteId uuid.UUID, owner string, grants []*dto.ShareRequest) ([]*entity.ShareGrant, error)
	HasRead(ctx context.Context, noteId uuid.UUID, actor, owner string) (bool, error)
	HasWrite(ctx context.Context, noteId uuid.UUID, actor, owner string) (bool, error)
	AccessibleNoteIds(ctx context.Context, actor string) ([]uuid.UUID, error)
	ListGrants(ctx context.Context, noteId uuid.UUID) ([]*entity.ShareGrant, error)
}

type shareService struct {
	shareGrantRepository repository.IShareGrantRepository
	userRepository       repository.IUserRepository
	clock                Clock
}

func NewShareService(
	shareGrantRepository repository.IShareGrantRepository,
	userRepository repository.IUserRepository,
	clock Clock,
) IShareService {
	return &shareService{
		shareGrantRepository: shareGrantRepository,
		userRepository:       userRepository,
		clock:                clock,
	}
}

func (c *shareService) UsingTx(ctx context.Context, tx database.DatabaseQueryer) IShareService {
	return &shareService{
		shareGrantRepository: c.shareGrantRepository.UsingTx(ctx, tx),
		userRepository:       c.userRepository.UsingTx(ctx, tx),
		clock:                c.clock,
	}
}

func (c *shareService) Grant(ctx context.Context, noteId uuid.UUID, owner, grantee, level string) (*entity.ShareGrant, error) {
	grantee = serverutils.NormalizeIdentity(grantee)
	level = strings.ToLower(strings.TrimSpace(level))

	if isSameIdentity(grantee, owner) {
		return nil, serverutils.SelfShareError(grantee)
	}
	if !constant.IsValidPermission(level) {
		return nil, fmt.Errorf("%w: unknown permission %q", serverutils.ErrBadRequest, level)
	}
	if err := c.ensureKnown(ctx, grantee); err != nil {
		return nil, err
	}

	return c.shareGrantRepository.Upsert(ctx, c.newGrant(noteId, grantee, level))
}

func (c *shareService) Revoke(ctx context.Context, noteId uuid.UUID, grantee string) error {
	return c.shareGrantRepository.DeleteByNoteIdAndGrantee(ctx, noteId, serverutils.NormalizeIdentity(grantee))
}

func (c *shareService) RevokeAll(ctx context.Context, noteId uuid.UUID) error {
	return c.shareGrantRepository.DeleteByNoteId(ctx, noteId)
}

func (c *shareService) ReplaceAll(ctx context.Context, noteId uuid.UUID, owner string, grants []*dto.ShareRequest) ([]*entity.ShareGrant, error) {
	batch, err := normalizeBatch(grants)
	if err != nil {
		return nil, err
	}

	for _, g := range batch {
		if isSameIdentity(g.Email, owner) {
			return nil, serverutils.SelfShareError(g.Email)
		}
	}
	for _, g := range batch {
		if err := c.ensureKnown(ctx, g.Email); err != nil {
			return nil, err
		}
	}

	if err := c.shareGrantRepository.DeleteByNoteId(ctx, noteId); err != nil {
		return nil, err
	}

	res := make([]*entity.ShareGrant, 0, len(batch))
	for _, g := range batch {
		stored, err := c.shareGrantRepository.Upsert(ctx, c.newGrant(noteId, g.Email, g.Permission))
		if err != nil {
			return nil, err
		}
		res = append(res, stored)
	}
	return res, nil
}

func (c *shareService) HasRead(ctx context.Context, noteId uuid.UUID, actor, owner string) (bool, error) {
	if isSameIdentity(actor, owner) {
		return true, nil
	}

	grant, err := c.findGrant(ctx, noteId, actor)
	if err != nil {
		return false, err
	}
	return grant != nil, nil
}

func (c *shareService) HasWrite(ctx context.Context, noteId uuid.UUID, actor, owner string) (bool, error) {
	if isSameIdentity(actor, owner) {
		return true, nil
	}

	grant, err := c.findGrant(ctx, noteId, actor)
	if err != nil {
		return false, err
	}
	return grant != nil && grant.Permission == constant.PermissionWrite, nil
}

func (c *shareService) AccessibleNoteIds(ctx context.Context, actor string) ([]uuid.UUID, error) {
	return c.shareGrantRepository.GetNoteIdsByGrantee(ctx, serverutils.NormalizeIdentity(actor))
}

func (c *shareService) ListGrants(ctx context.Context, noteId uuid.UUID) ([]*entity.ShareGrant, error) {
	return c.shareGrantRepository.GetByNoteId(ctx, noteId)
}

func (c *shareService) findGrant(ctx context.Context, noteId uuid.UUID, actor string) (*entity.ShareGrant, error) {
	grant, err := c.shareGrantRepository.GetByNoteIdAndGrantee(ctx, noteId, serverutils.NormalizeIdentity(actor))
	if errors.Is(err, serverutils.ErrNotFound) {
		return nil, nil
	}
	return grant, err
}

func (c *shareService) ensureKnown(ctx context.Context, identity string) error {
	exists, err := c.userRepository.ExistsByEmail(ctx, identity)
	if err != nil {
		return err
	}
	if !exists {
		return serverutils.UnknownUserError(identity)
	}
	return nil
}

func (c *shareService) newGrant(noteId uuid.UUID, grantee, level string) *entity.ShareGrant {
	return &entity.ShareGrant{
		Id:         uuid.New(),
		NoteId:     noteId,
		Grantee:    grantee,
		Permission: level,
		CreatedAt:  stamp(c.clock),
	}
}

// normalizeBatch lowercases identities and levels and collapses duplicate
// grantees, keeping the position of the first and the level of the last.
func normalizeBatch(grants []*dto.ShareRequest) ([]*dto.ShareRequest, error) {
	res := make([]*dto.ShareRequest, 0, len(grants))
	index := make(map[string]int, len(grants))

	for _, g := range grants {
		if g == nil {
			continue
		}
		email := serverutils.NormalizeIdentity(g.Email)
		level := strings.ToLower(strings.TrimSpace(g.Permission))
		if email == "" {
			return nil, fmt.Errorf("%w: share without email", serverutils.ErrBadRequest)
		}
		if !constant.IsValidPermission(level) {
			return nil, fmt.Errorf("%w: unknown permission %q", serverutils.ErrBadRequest, g.Permission)
		}

		if i, ok := index[email]; ok {
			res[i].Permission = level
			continue
		}
		index[email] = len(res)
		res = append(res, &dto.ShareRequest{Email: email, Permission: level})
	}
	return res, nil
}

func isSameIdentity(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
