package repository

import (
	"context"
	"notabene-be/internal/entity"
	"notabene-be/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type INoteVersionRepository interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) INoteVersionRepository
	Create(ctx context.Context, version *entity.NoteVersion) error
	GetById(ctx context.Context, id uuid.UUID) (*entity.NoteVersion, error)
	// GetByNoteId returns the history newest first.
	GetByNoteId(ctx context.Context, noteId uuid.UUID) ([]*entity.NoteVersion, error)
	DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error
}

type noteVersionRepository struct {
	db database.DatabaseQueryer
}

func NewNoteVersionRepository(db *pgxpool.Pool) INoteVersionRepository {
	return &noteVersionRepository{db: db}
}

func (r *noteVersionRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) INoteVersionRepository {
	return &noteVersionRepository{db: tx}
}

func (r *noteVersionRepository) Create(ctx context.Context, version *entity.NoteVersion) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO note_version (id, note_id, title, body, actor, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		version.Id,
		version.NoteId,
		version.Title,
		version.Body,
		version.Actor,
		version.CreatedAt,
	)
	return translateError(err)
}

func (r *noteVersionRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.NoteVersion, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, note_id, title, body, actor, created_at FROM note_version WHERE id = $1`,
		id,
	)

	version, err := scanNoteVersion(row)
	if err != nil {
		return nil, translateError(err)
	}
	return version, nil
}

func (r *noteVersionRepository) GetByNoteId(ctx context.Context, noteId uuid.UUID) ([]*entity.NoteVersion, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, note_id, title, body, actor, created_at
		 FROM note_version
		 WHERE note_id = $1
		 ORDER BY created_at DESC, id`,
		noteId,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	res := make([]*entity.NoteVersion, 0)
	for rows.Next() {
		version, err := scanNoteVersion(rows)
		if err != nil {
			return nil, translateError(err)
		}
		res = append(res, version)
	}
	return res, translateError(rows.Err())
}

func (r *noteVersionRepository) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM note_version WHERE note_id = $1`, noteId)
	return translateError(err)
}

func scanNoteVersion(row pgx.Row) (*entity.NoteVersion, error) {
	var v entity.NoteVersion
	if err := row.Scan(&v.Id, &v.NoteId, &v.Title, &v.Body, &v.Actor, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.CreatedAt = v.CreatedAt.UTC()
	return &v, nil
}
