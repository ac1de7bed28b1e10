package repository

import (
	"context"
	"notabene-be/internal/entity"
	"notabene-be/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ITagRepository interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) ITagRepository
	// Create reports false when the tag was already registered.
	Create(ctx context.Context, tag *entity.Tag) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	GetAll(ctx context.Context) ([]*entity.Tag, error)
}

type tagRepository struct {
	db database.DatabaseQueryer
}

func NewTagRepository(db *pgxpool.Pool) ITagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) ITagRepository {
	return &tagRepository{db: tx}
}

func (r *tagRepository) Create(ctx context.Context, tag *entity.Tag) (bool, error) {
	res, err := r.db.Exec(
		ctx,
		`INSERT INTO tag (name, created_at) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		tag.Name,
		tag.CreatedAt,
	)
	if err != nil {
		return false, translateError(err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *tagRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM tag WHERE name = $1)`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, translateError(err)
	}
	return exists, nil
}

func (r *tagRepository) GetAll(ctx context.Context) ([]*entity.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT name, created_at FROM tag ORDER BY name`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	res := make([]*entity.Tag, 0)
	for rows.Next() {
		var tag entity.Tag
		if err := rows.Scan(&tag.Name, &tag.CreatedAt); err != nil {
			return nil, translateError(err)
		}
		res = append(res, &tag)
	}
	return res, translateError(rows.Err())
}
