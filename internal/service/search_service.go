package service

import (
	"bytes"
	"context"
	"notabene-be/internal/dto"
	"notabene-be/internal/entity"
	"notabene-be/internal/repository"
	"sort"

	"github.com/google/uuid"
)

type ISearchService interface {
	Search(ctx context.Context, actor string, req *dto.SearchNoteRequest) ([]*entity.Note, error)
	ListForUser(ctx context.Context, actor string) ([]*entity.Note, error)
}

type searchService struct {
	noteRepository repository.INoteRepository
	shareService   IShareService
}

func NewSearchService(noteRepository repository.INoteRepository, shareService IShareService) ISearchService {
	return &searchService{
		noteRepository: noteRepository,
		shareService:   shareService,
	}
}

func (c *searchService) Search(ctx context.Context, actor string, req *dto.SearchNoteRequest) ([]*entity.Note, error) {
	sharedIds, err := c.shareService.AccessibleNoteIds(ctx, actor)
	if err != nil {
		return nil, err
	}

	filter := repository.NoteFilter{
		repository.VisibleTo(actor, sharedIds),
		repository.ContainsTerm(req.Term),
		repository.TaggedWith(req.Tag),
		repository.CreatedBetween(req.CreatedFrom, req.CreatedTo),
		repository.ModifiedBetween(req.ModifiedFrom, req.ModifiedTo),
	}

	notes, err := c.noteRepository.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	// visibility must hold whatever the backing query returned
	notes = filter.Apply(notes)
	sortByLastModified(notes)
	return notes, nil
}

func (c *searchService) ListForUser(ctx context.Context, actor string) ([]*entity.Note, error) {
	owned, err := c.noteRepository.GetByOwner(ctx, actor)
	if err != nil {
		return nil, err
	}

	sharedIds, err := c.shareService.AccessibleNoteIds(ctx, actor)
	if err != nil {
		return nil, err
	}

	shared, err := c.noteRepository.GetByIds(ctx, sharedIds)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(owned))
	res := make([]*entity.Note, 0, len(owned)+len(shared))
	for _, n := range owned {
		seen[n.Id] = struct{}{}
		res = append(res, n)
	}
	for _, n := range shared {
		if _, ok := seen[n.Id]; ok {
			continue
		}
		seen[n.Id] = struct{}{}
		res = append(res, n)
	}

	sortByLastModified(res)
	return res, nil
}

// sortByLastModified orders newest first, ties by id.
func sortByLastModified(notes []*entity.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return bytes.Compare(a.Id[:], b.Id[:]) < 0
	})
}
