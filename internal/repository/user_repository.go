package repository

import (
	"context"
	"notabene-be/internal/entity"
	"notabene-be/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IUserRepository interface {
	UsingTx(ctx context.Context, tx database.DatabaseQueryer) IUserRepository
	Create(ctx context.Context, user *entity.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	GetByNickname(ctx context.Context, nickname string) (*entity.User, error)
}

type userRepository struct {
	db database.DatabaseQueryer
}

func NewUserRepository(db *pgxpool.Pool) IUserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) IUserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO app_user (id, email, nickname, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.Id,
		user.Email,
		user.Nickname,
		user.PasswordHash,
		user.CreatedAt,
	)
	return translateError(err)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM app_user WHERE email = $1)`, email)
}

func (r *userRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM app_user WHERE nickname = $1)`, nickname)
}

func (r *userRepository) GetByNickname(ctx context.Context, nickname string) (*entity.User, error) {
	var u entity.User
	err := r.db.QueryRow(
		ctx,
		`SELECT id, email, nickname, password_hash, created_at FROM app_user WHERE nickname = $1`,
		nickname,
	).Scan(&u.Id, &u.Email, &u.Nickname, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (r *userRepository) exists(ctx context.Context, sql string, arg any) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, sql, arg).Scan(&exists); err != nil {
		return false, translateError(err)
	}
	return exists, nil
}
