package repository

import (
	"context"
	"fmt"
	"notabene-be/internal/entity"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type INoteRepository interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) INoteRepository
	Create(ctx context.Context, note *entity.Note) error
	GetById(ctx context.Context, id uuid.UUID) (*entity.Note, error)
	GetByOwner(ctx context.Context, owner string) ([]*entity.Note, error)
	GetByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.Note, error)
	Search(ctx context.Context, filter NoteFilter) ([]*entity.Note, error)
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	DetachFolder(ctx context.Context, owner string, folderId uuid.UUID) error
}

type noteRepository struct {
	db database.DatabaseQueryer
}

func NewNoteRepository(db *pgxpool.Pool) INoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) INoteRepository {
	return &noteRepository{db: tx}
}

const noteColumns = `id, title, body, owner, tag, folder_id, created_at, updated_at`

func (r *noteRepository) Create(ctx context.Context, note *entity.Note) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO note (`+noteColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		note.Id,
		note.Title,
		note.Body,
		note.Owner,
		note.Tag,
		note.FolderId,
		note.CreatedAt,
		note.UpdatedAt,
	)
	return translateError(err)
}

func (r *noteRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+noteColumns+` FROM note WHERE id = $1`,
		id,
	)

	note, err := scanNote(row)
	if err != nil {
		return nil, translateError(err)
	}
	return note, nil
}

func (r *noteRepository) GetByOwner(ctx context.Context, owner string) ([]*entity.Note, error) {
	return r.query(
		ctx,
		`SELECT `+noteColumns+` FROM note WHERE owner = $1 ORDER BY updated_at DESC, id`,
		owner,
	)
}

func (r *noteRepository) GetByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.Note, error) {
	if len(ids) == 0 {
		return []*entity.Note{}, nil
	}
	return r.query(
		ctx,
		`SELECT `+noteColumns+` FROM note WHERE id = ANY($1::uuid[]) ORDER BY updated_at DESC, id`,
		ids,
	)
}

func (r *noteRepository) Search(ctx context.Context, filter NoteFilter) ([]*entity.Note, error) {
	where, args := filter.Where()
	return r.query(
		ctx,
		fmt.Sprintf(`SELECT %s FROM note WHERE %s ORDER BY updated_at DESC, id`, noteColumns, where),
		args...,
	)
}

func (r *noteRepository) Update(ctx context.Context, note *entity.Note) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE note
		 SET title = $1, body = $2, tag = $3, folder_id = $4, updated_at = $5
		 WHERE id = $6`,
		note.Title,
		note.Body,
		note.Tag,
		note.FolderId,
		note.UpdatedAt,
		note.Id,
	)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return serverutils.ErrNotFound
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM note WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return serverutils.ErrNotFound
	}
	return nil
}

func (r *noteRepository) DetachFolder(ctx context.Context, owner string, folderId uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE note SET folder_id = NULL WHERE owner = $1 AND folder_id = $2`,
		owner,
		folderId,
	)
	return translateError(err)
}

func (r *noteRepository) query(ctx context.Context, sql string, args ...any) ([]*entity.Note, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	res := make([]*entity.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, translateError(err)
		}
		res = append(res, note)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return res, nil
}

func scanNote(row pgx.Row) (*entity.Note, error) {
	var n entity.Note
	err := row.Scan(
		&n.Id,
		&n.Title,
		&n.Body,
		&n.Owner,
		&n.Tag,
		&n.FolderId,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	return &n, nil
}
