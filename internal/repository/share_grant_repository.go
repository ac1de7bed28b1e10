package repository

import (
	"context"
	"notabene-be/internal/entity"
	"notabene-be/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IShareGrantRepository interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) IShareGrantRepository
	// Upsert inserts the grant or, when (note, grantee) already exists,
	// updates its level in place. The stored row is returned.
	Upsert(ctx context.Context, grant *entity.ShareGrant) (*entity.ShareGrant, error)
	GetByNoteId(ctx context.Context, noteId uuid.UUID) ([]*entity.ShareGrant, error)
	GetByNoteIdAndGrantee(ctx context.Context, noteId uuid.UUID, grantee string) (*entity.ShareGrant, error)
	GetNoteIdsByGrantee(ctx context.Context, grantee string) ([]uuid.UUID, error)
	DeleteByNoteIdAndGrantee(ctx context.Context, noteId uuid.UUID, grantee string) error
	DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error
}

type shareGrantRepository struct {
	db database.DatabaseQueryer
}

func NewShareGrantRepository(db *pgxpool.Pool) IShareGrantRepository {
	return &shareGrantRepository{db: db}
}

func (r *shareGrantRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) IShareGrantRepository {
	return &shareGrantRepository{db: tx}
}

func (r *shareGrantRepository) Upsert(ctx context.Context, grant *entity.ShareGrant) (*entity.ShareGrant, error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO share_grant (id, note_id, grantee, permission, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (note_id, grantee) DO UPDATE SET permission = EXCLUDED.permission
		 RETURNING id, note_id, grantee, permission, created_at`,
		grant.Id,
		grant.NoteId,
		grant.Grantee,
		grant.Permission,
		grant.CreatedAt,
	)

	stored, err := scanShareGrant(row)
	if err != nil {
		return nil, translateError(err)
	}
	return stored, nil
}

func (r *shareGrantRepository) GetByNoteId(ctx context.Context, noteId uuid.UUID) ([]*entity.ShareGrant, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, note_id, grantee, permission, created_at
		 FROM share_grant
		 WHERE note_id = $1
		 ORDER BY created_at, grantee`,
		noteId,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	res := make([]*entity.ShareGrant, 0)
	for rows.Next() {
		grant, err := scanShareGrant(rows)
		if err != nil {
			return nil, translateError(err)
		}
		res = append(res, grant)
	}
	return res, translateError(rows.Err())
}

func (r *shareGrantRepository) GetByNoteIdAndGrantee(ctx context.Context, noteId uuid.UUID, grantee string) (*entity.ShareGrant, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, note_id, grantee, permission, created_at
		 FROM share_grant
		 WHERE note_id = $1 AND grantee = $2`,
		noteId,
		grantee,
	)

	grant, err := scanShareGrant(row)
	if err != nil {
		return nil, translateError(err)
	}
	return grant, nil
}

func (r *shareGrantRepository) GetNoteIdsByGrantee(ctx context.Context, grantee string) ([]uuid.UUID, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT note_id FROM share_grant WHERE grantee = $1`,
		grantee,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, translateError(err)
		}
		ids = append(ids, id)
	}
	return ids, translateError(rows.Err())
}

func (r *shareGrantRepository) DeleteByNoteIdAndGrantee(ctx context.Context, noteId uuid.UUID, grantee string) error {
	_, err := r.db.Exec(
		ctx,
		`DELETE FROM share_grant WHERE note_id = $1 AND grantee = $2`,
		noteId,
		grantee,
	)
	return translateError(err)
}

func (r *shareGrantRepository) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM share_grant WHERE note_id = $1`, noteId)
	return translateError(err)
}

func scanShareGrant(row pgx.Row) (*entity.ShareGrant, error) {
	var g entity.ShareGrant
	if err := row.Scan(&g.Id, &g.NoteId, &g.Grantee, &g.Permission, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.CreatedAt = g.CreatedAt.UTC()
	return &g, nil
}
