package service

import (
	"context"
	"errors"
	"fmt"
	"notabene-be/internal/dto"
	"notabene-be/internal/entity"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/internal/repository"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// IAuthService keeps the user directory. Share grants may only target an
// email registered here.
type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	userRepository repository.IUserRepository
	bcryptCost     int
	clock          Clock
	logger         *zap.Logger
}

func NewAuthService(userRepository repository.IUserRepository, bcryptCost int, clock Clock, logger *zap.Logger) IAuthService {
	return &authService{
		userRepository: userRepository,
		bcryptCost:     bcryptCost,
		clock:          clock,
		logger:         logger.Named("auth"),
	}
}

func (c *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := serverutils.NormalizeIdentity(req.Email)
	nickname := strings.TrimSpace(req.Nickname)

	exists, err := c.userRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email %s is already registered", serverutils.ErrConflict, email)
	}

	exists, err = c.userRepository.ExistsByNickname(ctx, nickname)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: nickname %s is taken", serverutils.ErrConflict, nickname)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), c.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := entity.User{
		Id:           uuid.New(),
		Email:        email,
		Nickname:     nickname,
		PasswordHash: string(hash),
		CreatedAt:    stamp(c.clock),
	}

	err = c.userRepository.Create(ctx, &user)
	if err != nil {
		return nil, err
	}

	c.logger.Info("user registered", zap.String("email", email))

	return &dto.RegisterResponse{
		Id:       user.Id,
		Email:    user.Email,
		Nickname: user.Nickname,
	}, nil
}

func (c *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := c.userRepository.GetByNickname(ctx, strings.TrimSpace(req.Nickname))
	if errors.Is(err, serverutils.ErrNotFound) {
		return nil, serverutils.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, serverutils.ErrUnauthorized
	}

	return &dto.LoginResponse{
		Id:       user.Id,
		Email:    user.Email,
		Nickname: user.Nickname,
	}, nil
}
