package repository

import (
	"context"
	"notabene-be/internal/entity"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IFolderRepository interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) IFolderRepository
	Create(ctx context.Context, folder *entity.Folder) error
	GetById(ctx context.Context, id uuid.UUID) (*entity.Folder, error)
	GetByOwner(ctx context.Context, owner string) ([]*entity.Folder, error)
	Update(ctx context.Context, folder *entity.Folder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type folderRepository struct {
	db database.DatabaseQueryer
}

func NewFolderRepository(db *pgxpool.Pool) IFolderRepository {
	return &folderRepository{db: db}
}

func (r *folderRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) IFolderRepository {
	return &folderRepository{db: tx}
}

func (r *folderRepository) Create(ctx context.Context, folder *entity.Folder) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO folder (id, name, owner, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		folder.Id,
		folder.Name,
		folder.Owner,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	return translateError(err)
}

func (r *folderRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.Folder, error) {
	var f entity.Folder
	err := r.db.QueryRow(
		ctx,
		`SELECT id, name, owner, created_at, updated_at FROM folder WHERE id = $1`,
		id,
	).Scan(&f.Id, &f.Name, &f.Owner, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &f, nil
}

func (r *folderRepository) GetByOwner(ctx context.Context, owner string) ([]*entity.Folder, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, owner, created_at, updated_at FROM folder WHERE owner = $1 ORDER BY name, id`,
		owner,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	res := make([]*entity.Folder, 0)
	for rows.Next() {
		var f entity.Folder
		if err := rows.Scan(&f.Id, &f.Name, &f.Owner, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, translateError(err)
		}
		res = append(res, &f)
	}
	return res, translateError(rows.Err())
}

func (r *folderRepository) Update(ctx context.Context, folder *entity.Folder) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE folder SET name = $1, updated_at = $2 WHERE id = $3`,
		folder.Name,
		folder.UpdatedAt,
		folder.Id,
	)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return serverutils.ErrNotFound
	}
	return nil
}

func (r *folderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM folder WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return serverutils.ErrNotFound
	}
	return nil
}
