package service

import (
	"context"
	"notabene-be/internal/dto"
	"notabene-be/internal/entity"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/internal/repository"
	"notabene-be/pkg/database"
	"strings"

	"github.com/google/uuid"
)

type IFolderService interface {
	GetAll(ctx context.Context, actor string) ([]*dto.ListFolderResponse, error)
	Create(ctx context.Context, actor string, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error)
	Update(ctx context.Context, actor string, req *dto.UpdateFolderRequest) (*dto.UpdateFolderResponse, error)
	// Delete removes the folder and detaches the owner's notes from it. The
	// notes themselves are kept.
	Delete(ctx context.Context, actor string, id uuid.UUID) error
}

type folderService struct {
	folderRepository repository.IFolderRepository
	noteRepository   repository.INoteRepository
	clock            Clock

	db database.TxBeginner
}

func NewFolderService(
	folderRepository repository.IFolderRepository,
	noteRepository repository.INoteRepository,
	clock Clock,
	db database.TxBeginner) IFolderService {
	return &folderService{
		folderRepository: folderRepository,
		noteRepository:   noteRepository,
		clock:            clock,
		db:               db,
	}
}

func (c *folderService) GetAll(ctx context.Context, actor string) ([]*dto.ListFolderResponse, error) {
	folders, err := c.folderRepository.GetByOwner(ctx, actor)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ListFolderResponse, 0, len(folders))
	for _, folder := range folders {
		result = append(result, &dto.ListFolderResponse{
			Id:        folder.Id,
			Name:      folder.Name,
			CreatedAt: folder.CreatedAt,
			UpdatedAt: folder.UpdatedAt,
		})
	}
	return result, nil
}

func (c *folderService) Create(ctx context.Context, actor string, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error) {
	folder := entity.Folder{
		Id:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Owner:     actor,
		CreatedAt: stamp(c.clock),
	}

	err := c.folderRepository.Create(ctx, &folder)
	if err != nil {
		return nil, err
	}

	return &dto.CreateFolderResponse{
		Id: folder.Id,
	}, nil
}

func (c *folderService) Update(ctx context.Context, actor string, req *dto.UpdateFolderRequest) (*dto.UpdateFolderResponse, error) {
	folder, err := c.owned(ctx, actor, req.Id)
	if err != nil {
		return nil, err
	}

	now := stampAfter(c.clock, folder.CreatedAt)
	folder.Name = strings.TrimSpace(req.Name)
	folder.UpdatedAt = &now

	err = c.folderRepository.Update(ctx, folder)
	if err != nil {
		return nil, err
	}

	return &dto.UpdateFolderResponse{
		Id: folder.Id,
	}, nil
}

func (c *folderService) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	folder, err := c.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return serverutils.StorageError(err)
	}

	defer tx.Rollback(ctx)

	folderRepo := c.folderRepository.UsingTx(ctx, tx)
	noteRepo := c.noteRepository.UsingTx(ctx, tx)

	err = noteRepo.DetachFolder(ctx, folder.Owner, folder.Id)
	if err != nil {
		return err
	}

	err = folderRepo.Delete(ctx, folder.Id)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return serverutils.StorageError(err)
	}

	return nil
}

func (c *folderService) owned(ctx context.Context, actor string, id uuid.UUID) (*entity.Folder, error) {
	folder, err := c.folderRepository.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isSameIdentity(folder.Owner, actor) {
		return nil, serverutils.ErrForbidden
	}
	return folder, nil
}
