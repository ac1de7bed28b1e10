package service

import (
	"context"
	"notabene-be/internal/dto"
	"notabene-be/internal/entity"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/internal/repository"
	"notabene-be/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type INoteService interface {
	Create(ctx context.Context, actor string, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Show(ctx context.Context, actor string, id uuid.UUID) (*dto.NoteResponse, error)
	Update(ctx context.Context, actor string, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, actor string, id uuid.UUID) error
	Copy(ctx context.Context, actor string, id uuid.UUID) (*dto.NoteResponse, error)
	GetAll(ctx context.Context, actor string) ([]*dto.NoteSummaryResponse, error)
	Search(ctx context.Context, actor string, req *dto.SearchNoteRequest) ([]*dto.NoteSummaryResponse, error)
	ListVersions(ctx context.Context, actor string, id uuid.UUID) ([]*dto.VersionResponse, error)
	RestoreVersion(ctx context.Context, actor string, req *dto.RestoreVersionRequest) (*dto.NoteResponse, error)
	ListShares(ctx context.Context, actor string, id uuid.UUID) ([]*dto.ShareResponse, error)
	Share(ctx context.Context, actor string, req *dto.ShareNoteRequest) (*dto.ShareResponse, error)
	Unshare(ctx context.Context, actor string, id uuid.UUID, grantee string) error
	ReplaceShares(ctx context.Context, actor string, req *dto.ReplaceSharesRequest) ([]*dto.ShareResponse, error)
}

type noteService struct {
	noteRepository repository.INoteRepository
	tagService     ITagService
	shareService   IShareService
	accessService  IAccessService
	searchService  ISearchService
	versionService IVersionService
	db             database.TxBeginner
	clock          Clock
	logger         *zap.Logger
}

func NewNoteService(
	noteRepository repository.INoteRepository,
	tagService ITagService,
	shareService IShareService,
	accessService IAccessService,
	searchService ISearchService,
	versionService IVersionService,
	db database.TxBeginner,
	clock Clock,
	logger *zap.Logger,
) INoteService {
	return &noteService{
		noteRepository: noteRepository,
		tagService:     tagService,
		shareService:   shareService,
		accessService:  accessService,
		searchService:  searchService,
		versionService: versionService,
		db:             db,
		clock:          clock,
		logger:         logger.Named("note"),
	}
}

func (c *noteService) Create(ctx context.Context, actor string, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	tag, err := c.tagService.Resolve(ctx, req.Tag)
	if err != nil {
		return nil, err
	}

	now := stamp(c.clock)
	note := entity.Note{
		Id:        uuid.New(),
		Title:     req.Title,
		Body:      req.Body,
		Owner:     actor,
		Tag:       tag,
		FolderId:  req.FolderId,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, serverutils.StorageError(err)
	}
	defer tx.Rollback(ctx)

	err = c.noteRepository.UsingTx(ctx, tx).Create(ctx, &note)
	if err != nil {
		return nil, err
	}

	grants := make([]*entity.ShareGrant, 0)
	if len(req.Shares) > 0 {
		grants, err = c.shareService.UsingTx(ctx, tx).ReplaceAll(ctx, note.Id, actor, req.Shares)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, serverutils.StorageError(err)
	}

	c.logger.Debug("note created", zap.Stringer("note_id", note.Id), zap.String("owner", actor))
	return toNoteResponse(&note, grants), nil
}

func (c *noteService) Show(ctx context.Context, actor string, id uuid.UUID) (*dto.NoteResponse, error) {
	note, err := c.readable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	grants, err := c.shareService.ListGrants(ctx, note.Id)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note, grants), nil
}

func (c *noteService) Update(ctx context.Context, actor string, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	note, err := c.writable(ctx, actor, req.Id)
	if err != nil {
		return nil, err
	}

	tag, err := c.tagService.Resolve(ctx, req.Tag)
	if err != nil {
		return nil, err
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, serverutils.StorageError(err)
	}
	defer tx.Rollback(ctx)

	_, err = c.versionService.UsingTx(ctx, tx).SnapshotBeforeChange(ctx, note, actor)
	if err != nil {
		return nil, err
	}

	note.Title = req.Title
	note.Body = req.Body
	note.Tag = tag
	note.FolderId = req.FolderId
	note.UpdatedAt = stampAfter(c.clock, note.CreatedAt)

	err = c.noteRepository.UsingTx(ctx, tx).Update(ctx, note)
	if err != nil {
		return nil, err
	}

	if req.Shares != nil {
		if c.accessService.CanManageSharing(actor, note.Owner) {
			_, err = c.shareService.UsingTx(ctx, tx).ReplaceAll(ctx, note.Id, note.Owner, req.Shares)
			if err != nil {
				return nil, err
			}
		} else {
			c.logger.Debug("ignoring share list from non-owner",
				zap.Stringer("note_id", note.Id),
				zap.String("actor", actor))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, serverutils.StorageError(err)
	}

	grants, err := c.shareService.ListGrants(ctx, note.Id)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note, grants), nil
}

func (c *noteService) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	note, err := c.noteRepository.GetById(ctx, id)
	if err != nil {
		return err
	}
	if !c.accessService.CanDelete(actor, note.Owner) {
		return serverutils.ErrForbidden
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return serverutils.StorageError(err)
	}
	defer tx.Rollback(ctx)

	err = c.shareService.UsingTx(ctx, tx).RevokeAll(ctx, note.Id)
	if err != nil {
		return err
	}

	err = c.versionService.UsingTx(ctx, tx).DeleteHistory(ctx, note.Id)
	if err != nil {
		return err
	}

	err = c.noteRepository.UsingTx(ctx, tx).Delete(ctx, note.Id)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return serverutils.StorageError(err)
	}

	c.logger.Info("note deleted", zap.Stringer("note_id", note.Id), zap.String("owner", actor))
	return nil
}

func (c *noteService) Copy(ctx context.Context, actor string, id uuid.UUID) (*dto.NoteResponse, error) {
	source, err := c.readable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := stamp(c.clock)
	note := entity.Note{
		Id:        uuid.New(),
		Title:     source.Title,
		Body:      source.Body,
		Owner:     actor,
		Tag:       source.Tag,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = c.noteRepository.Create(ctx, &note)
	if err != nil {
		return nil, err
	}

	return toNoteResponse(&note, nil), nil
}

func (c *noteService) GetAll(ctx context.Context, actor string) ([]*dto.NoteSummaryResponse, error) {
	notes, err := c.searchService.ListForUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	return toNoteSummaries(notes, actor), nil
}

func (c *noteService) Search(ctx context.Context, actor string, req *dto.SearchNoteRequest) ([]*dto.NoteSummaryResponse, error) {
	notes, err := c.searchService.Search(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	return toNoteSummaries(notes, actor), nil
}

func (c *noteService) ListVersions(ctx context.Context, actor string, id uuid.UUID) ([]*dto.VersionResponse, error) {
	note, err := c.readable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	versions, err := c.versionService.ListVersions(ctx, note.Id)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.VersionResponse, 0, len(versions))
	for _, v := range versions {
		res = append(res, toVersionResponse(v))
	}
	return res, nil
}

func (c *noteService) RestoreVersion(ctx context.Context, actor string, req *dto.RestoreVersionRequest) (*dto.NoteResponse, error) {
	note, err := c.writable(ctx, actor, req.NoteId)
	if err != nil {
		return nil, err
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, serverutils.StorageError(err)
	}
	defer tx.Rollback(ctx)

	restored, err := c.versionService.UsingTx(ctx, tx).Restore(ctx, note, req.VersionId, actor)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, serverutils.StorageError(err)
	}

	c.logger.Info("note restored",
		zap.Stringer("note_id", note.Id),
		zap.Stringer("version_id", req.VersionId),
		zap.String("actor", actor))

	grants, err := c.shareService.ListGrants(ctx, restored.Id)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(restored, grants), nil
}

func (c *noteService) ListShares(ctx context.Context, actor string, id uuid.UUID) ([]*dto.ShareResponse, error) {
	note, err := c.readable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	grants, err := c.shareService.ListGrants(ctx, note.Id)
	if err != nil {
		return nil, err
	}
	return toShareResponses(grants), nil
}

func (c *noteService) Share(ctx context.Context, actor string, req *dto.ShareNoteRequest) (*dto.ShareResponse, error) {
	note, err := c.manageable(ctx, actor, req.NoteId)
	if err != nil {
		return nil, err
	}

	grant, err := c.shareService.Grant(ctx, note.Id, note.Owner, req.Email, req.Permission)
	if err != nil {
		return nil, err
	}
	return toShareResponse(grant), nil
}

func (c *noteService) Unshare(ctx context.Context, actor string, id uuid.UUID, grantee string) error {
	note, err := c.manageable(ctx, actor, id)
	if err != nil {
		return err
	}
	return c.shareService.Revoke(ctx, note.Id, grantee)
}

func (c *noteService) ReplaceShares(ctx context.Context, actor string, req *dto.ReplaceSharesRequest) ([]*dto.ShareResponse, error) {
	note, err := c.manageable(ctx, actor, req.NoteId)
	if err != nil {
		return nil, err
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, serverutils.StorageError(err)
	}
	defer tx.Rollback(ctx)

	grants, err := c.shareService.UsingTx(ctx, tx).ReplaceAll(ctx, note.Id, note.Owner, req.Shares)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, serverutils.StorageError(err)
	}
	return toShareResponses(grants), nil
}

func (c *noteService) readable(ctx context.Context, actor string, id uuid.UUID) (*entity.Note, error) {
	note, err := c.noteRepository.GetById(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := c.accessService.CanRead(ctx, note, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, serverutils.ErrForbidden
	}
	return note, nil
}

func (c *noteService) writable(ctx context.Context, actor string, id uuid.UUID) (*entity.Note, error) {
	note, err := c.noteRepository.GetById(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := c.accessService.CanWrite(ctx, note, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, serverutils.ErrForbidden
	}
	return note, nil
}

func (c *noteService) manageable(ctx context.Context, actor string, id uuid.UUID) (*entity.Note, error) {
	note, err := c.noteRepository.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.accessService.CanManageSharing(actor, note.Owner) {
		return nil, serverutils.ErrForbidden
	}
	return note, nil
}

func toNoteResponse(note *entity.Note, grants []*entity.ShareGrant) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:        note.Id,
		Title:     note.Title,
		Body:      note.Body,
		Owner:     note.Owner,
		Tag:       note.Tag,
		FolderId:  note.FolderId,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
		Shares:    toShareResponses(grants),
	}
}

func toNoteSummaries(notes []*entity.Note, actor string) []*dto.NoteSummaryResponse {
	res := make([]*dto.NoteSummaryResponse, 0, len(notes))
	for _, n := range notes {
		res = append(res, &dto.NoteSummaryResponse{
			Id:        n.Id,
			Title:     n.Title,
			Body:      n.Body,
			Owner:     n.Owner,
			Tag:       n.Tag,
			FolderId:  n.FolderId,
			Shared:    !isSameIdentity(n.Owner, actor),
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		})
	}
	return res
}

func toShareResponse(grant *entity.ShareGrant) *dto.ShareResponse {
	return &dto.ShareResponse{
		Email:      grant.Grantee,
		Permission: grant.Permission,
		CreatedAt:  grant.CreatedAt,
	}
}

func toShareResponses(grants []*entity.ShareGrant) []*dto.ShareResponse {
	res := make([]*dto.ShareResponse, 0, len(grants))
	for _, g := range grants {
		res = append(res, toShareResponse(g))
	}
	return res
}

func toVersionResponse(v *entity.NoteVersion) *dto.VersionResponse {
	return &dto.VersionResponse{
		Id:        v.Id,
		NoteId:    v.NoteId,
		Title:     v.Title,
		Body:      v.Body,
		Actor:     v.Actor,
		CreatedAt: v.CreatedAt,
	}
}
