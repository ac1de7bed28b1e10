package service

import (
	"context"
	"fmt"
	"notabene-be/internal/dto"
	"notabene-be/internal/entity"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/internal/repository"
	"strings"

	"go.uber.org/zap"
)

type ITagService interface {
	GetAll(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, name string) (bool, error)
	// Resolve trims name and checks it against the registry. A nil or blank
	// name resolves to nil, meaning "no tag".
	Resolve(ctx context.Context, name *string) (*string, error)
	Create(ctx context.Context, req *dto.CreateTagRequest) (*dto.CreateTagResponse, error)
	Seed(ctx context.Context, names []string) error
}

type tagService struct {
	tagRepository repository.ITagRepository
	clock         Clock
	logger        *zap.Logger
}

func NewTagService(tagRepository repository.ITagRepository, clock Clock, logger *zap.Logger) ITagService {
	return &tagService{
		tagRepository: tagRepository,
		clock:         clock,
		logger:        logger.Named("tag"),
	}
}

func (c *tagService) GetAll(ctx context.Context) ([]string, error) {
	tags, err := c.tagRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names, nil
}

func (c *tagService) Exists(ctx context.Context, name string) (bool, error) {
	return c.tagRepository.ExistsByName(ctx, strings.TrimSpace(name))
}

func (c *tagService) Resolve(ctx context.Context, name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil, nil
	}

	exists, err := c.tagRepository.ExistsByName(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, serverutils.InvalidTagError(trimmed)
	}
	return &trimmed, nil
}

func (c *tagService) Create(ctx context.Context, req *dto.CreateTagRequest) (*dto.CreateTagResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is blank", serverutils.ErrBadRequest)
	}

	created, err := c.tagRepository.Create(ctx, &entity.Tag{
		Name:      name,
		CreatedAt: stamp(c.clock),
	})
	if err != nil {
		return nil, err
	}

	if created {
		c.logger.Info("tag registered", zap.String("tag", name))
	}

	return &dto.CreateTagResponse{
		Name:    name,
		Created: created,
	}, nil
}

func (c *tagService) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, err := c.Create(ctx, &dto.CreateTagRequest{Name: name}); err != nil {
			return fmt.Errorf("seed tag %q: %w", name, err)
		}
	}
	return nil
}
