package service

import (
	"context"
	"fmt"
	"notabene-be/internal/entity"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/internal/repository"
	"notabene-be/pkg/database"

	"github.com/google/uuid"
)

type IVersionService interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) IVersionService
	// SnapshotBeforeChange records the note's current title and body. Call
	// it before mutating the note, never on create or delete.
	SnapshotBeforeChange(ctx context.Context, note *entity.Note, actor string) (*entity.NoteVersion, error)
	ListVersions(ctx context.Context, noteId uuid.UUID) ([]*entity.NoteVersion, error)
	DeleteHistory(ctx context.Context, noteId uuid.UUID) error
	// Restore snapshots the current state, then overwrites title and body
	// with the chosen version. Owner, tag and folder are left alone.
	Restore(ctx context.Context, note *entity.Note, versionId uuid.UUID, actor string) (*entity.Note, error)
}

type versionService struct {
	noteVersionRepository repository.INoteVersionRepository
	noteRepository        repository.INoteRepository
	clock                 Clock
}

func NewVersionService(
	noteVersionRepository repository.INoteVersionRepository,
	noteRepository repository.INoteRepository,
	clock Clock,
) IVersionService {
	return &versionService{
		noteVersionRepository: noteVersionRepository,
		noteRepository:        noteRepository,
		clock:                 clock,
	}
}

func (c *versionService) UsingTx(ctx context.Context, tx database.DatabaseQueryer) IVersionService {
	return &versionService{
		noteVersionRepository: c.noteVersionRepository.UsingTx(ctx, tx),
		noteRepository:        c.noteRepository.UsingTx(ctx, tx),
		clock:                 c.clock,
	}
}

func (c *versionService) SnapshotBeforeChange(ctx context.Context, note *entity.Note, actor string) (*entity.NoteVersion, error) {
	version := entity.NoteVersion{
		Id:        uuid.New(),
		NoteId:    note.Id,
		Title:     note.Title,
		Body:      note.Body,
		Actor:     actor,
		CreatedAt: stamp(c.clock),
	}

	if err := c.noteVersionRepository.Create(ctx, &version); err != nil {
		return nil, err
	}
	return &version, nil
}

func (c *versionService) ListVersions(ctx context.Context, noteId uuid.UUID) ([]*entity.NoteVersion, error) {
	return c.noteVersionRepository.GetByNoteId(ctx, noteId)
}

func (c *versionService) DeleteHistory(ctx context.Context, noteId uuid.UUID) error {
	return c.noteVersionRepository.DeleteByNoteId(ctx, noteId)
}

func (c *versionService) Restore(ctx context.Context, note *entity.Note, versionId uuid.UUID, actor string) (*entity.Note, error) {
	version, err := c.noteVersionRepository.GetById(ctx, versionId)
	if err != nil {
		return nil, err
	}
	if version.NoteId != note.Id {
		return nil, fmt.Errorf("%w: version %s does not belong to note %s", serverutils.ErrNotFound, versionId, note.Id)
	}

	if _, err := c.SnapshotBeforeChange(ctx, note, actor); err != nil {
		return nil, err
	}

	restored := *note
	restored.Title = version.Title
	restored.Body = version.Body
	restored.UpdatedAt = stampAfter(c.clock, note.CreatedAt)

	if err := c.noteRepository.Update(ctx, &restored); err != nil {
		return nil, err
	}
	return &restored, nil
}
