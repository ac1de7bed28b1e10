package service

import (
	"bytes"
	"context"
	"maps"
	"notabene-be/internal/entity"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/internal/repository"
	"notabene-be/pkg/database"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap/zaptest"
)

type grantKey struct {
	noteId  uuid.UUID
	grantee string
}

type memState struct {
	notes    map[uuid.UUID]entity.Note
	grants   map[grantKey]entity.ShareGrant
	versions map[uuid.UUID]entity.NoteVersion
	tags     map[string]entity.Tag
	users    map[string]entity.User
	folders  map[uuid.UUID]entity.Folder
}

func (s memState) clone() memState {
	return memState{
		notes:    maps.Clone(s.notes),
		grants:   maps.Clone(s.grants),
		versions: maps.Clone(s.versions),
		tags:     maps.Clone(s.tags),
		users:    maps.Clone(s.users),
		folders:  maps.Clone(s.folders),
	}
}

// memStore backs the fake repositories. Begin snapshots the whole state and
// Rollback restores it unless Commit ran first.
type memStore struct {
	mu    sync.Mutex
	state memState
	fail  map[string]error
	txs   int
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			notes:    map[uuid.UUID]entity.Note{},
			grants:   map[grantKey]entity.ShareGrant{},
			versions: map[uuid.UUID]entity.NoteVersion{},
			tags:     map[string]entity.Tag{},
			users:    map[string]entity.User{},
			folders:  map[uuid.UUID]entity.Folder{},
		},
		fail: map[string]error{},
	}
}

func (s *memStore) Begin(ctx context.Context) (pgx.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail["begin"]; err != nil {
		return nil, err
	}
	s.txs++
	return &fakeTx{store: s, snapshot: s.state.clone()}, nil
}

// failOn makes the named operation return err until cleared.
func (s *memStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

func (s *memStore) check(op string) error {
	return s.fail[op]
}

type fakeTx struct {
	pgx.Tx
	store    *memStore
	snapshot memState
	done     bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.state = t.snapshot
	return nil
}

type fakeNoteRepository struct{ s *memStore }

func (r *fakeNoteRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) repository.INoteRepository {
	return r
}

func (r *fakeNoteRepository) Create(ctx context.Context, note *entity.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.check("note.create"); err != nil {
		return err
	}
	if _, ok := r.s.state.notes[note.Id]; ok {
		return serverutils.ErrConflict
	}
	r.s.state.notes[note.Id] = *note
	return nil
}

func (r *fakeNoteRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.state.notes[id]
	if !ok {
		return nil, serverutils.ErrNotFound
	}
	return &n, nil
}

func (r *fakeNoteRepository) GetByOwner(ctx context.Context, owner string) ([]*entity.Note, error) {
	return r.collect(func(n *entity.Note) bool { return n.Owner == owner }), nil
}

func (r *fakeNoteRepository) GetByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.Note, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return r.collect(func(n *entity.Note) bool { return want[n.Id] }), nil
}

func (r *fakeNoteRepository) Search(ctx context.Context, filter repository.NoteFilter) ([]*entity.Note, error) {
	if err := r.s.check("note.search"); err != nil {
		return nil, err
	}
	return r.collect(filter.Match), nil
}

func (r *fakeNoteRepository) Update(ctx context.Context, note *entity.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.check("note.update"); err != nil {
		return err
	}
	if _, ok := r.s.state.notes[note.Id]; !ok {
		return serverutils.ErrNotFound
	}
	r.s.state.notes[note.Id] = *note
	return nil
}

func (r *fakeNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.check("note.delete"); err != nil {
		return err
	}
	if _, ok := r.s.state.notes[id]; !ok {
		return serverutils.ErrNotFound
	}
	delete(r.s.state.notes, id)
	return nil
}

func (r *fakeNoteRepository) DetachFolder(ctx context.Context, owner string, folderId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, n := range r.s.state.notes {
		if n.Owner == owner && n.FolderId != nil && *n.FolderId == folderId {
			n.FolderId = nil
			r.s.state.notes[id] = n
		}
	}
	return nil
}

func (r *fakeNoteRepository) collect(keep func(*entity.Note) bool) []*entity.Note {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := make([]*entity.Note, 0)
	for _, n := range r.s.state.notes {
		n := n
		if keep(&n) {
			res = append(res, &n)
		}
	}
	// map order is random, so the fake does not stand in for ORDER BY
	sort.Slice(res, func(i, j int) bool { return bytes.Compare(res[i].Id[:], res[j].Id[:]) > 0 })
	return res
}

type fakeShareGrantRepository struct{ s *memStore }

func (r *fakeShareGrantRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) repository.IShareGrantRepository {
	return r
}

func (r *fakeShareGrantRepository) Upsert(ctx context.Context, grant *entity.ShareGrant) (*entity.ShareGrant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.check("grant.upsert"); err != nil {
		return nil, err
	}
	key := grantKey{grant.NoteId, grant.Grantee}
	stored, ok := r.s.state.grants[key]
	if ok {
		stored.Permission = grant.Permission
	} else {
		stored = *grant
	}
	r.s.state.grants[key] = stored
	return &stored, nil
}

func (r *fakeShareGrantRepository) GetByNoteId(ctx context.Context, noteId uuid.UUID) ([]*entity.ShareGrant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := make([]*entity.ShareGrant, 0)
	for key, g := range r.s.state.grants {
		if key.noteId == noteId {
			g := g
			res = append(res, &g)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].Grantee < res[j].Grantee
	})
	return res, nil
}

func (r *fakeShareGrantRepository) GetByNoteIdAndGrantee(ctx context.Context, noteId uuid.UUID, grantee string) (*entity.ShareGrant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.check("grant.get"); err != nil {
		return nil, err
	}
	g, ok := r.s.state.grants[grantKey{noteId, grantee}]
	if !ok {
		return nil, serverutils.ErrNotFound
	}
	return &g, nil
}

func (r *fakeShareGrantRepository) GetNoteIdsByGrantee(ctx context.Context, grantee string) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := make([]uuid.UUID, 0)
	for key := range r.s.state.grants {
		if key.grantee == grantee {
			res = append(res, key.noteId)
		}
	}
	return res, nil
}

func (r *fakeShareGrantRepository) DeleteByNoteIdAndGrantee(ctx context.Context, noteId uuid.UUID, grantee string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.state.grants, grantKey{noteId, grantee})
	return nil
}

func (r *fakeShareGrantRepository) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.check("grant.delete"); err != nil {
		return err
	}
	for key := range r.s.state.grants {
		if key.noteId == noteId {
			delete(r.s.state.grants, key)
		}
	}
	return nil
}

type fakeNoteVersionRepository struct{ s *memStore }

func (r *fakeNoteVersionRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) repository.INoteVersionRepository {
	return r
}

func (r *fakeNoteVersionRepository) Create(ctx context.Context, version *entity.NoteVersion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.check("version.create"); err != nil {
		return err
	}
	r.s.state.versions[version.Id] = *version
	return nil
}

func (r *fakeNoteVersionRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.NoteVersion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.state.versions[id]
	if !ok {
		return nil, serverutils.ErrNotFound
	}
	return &v, nil
}

func (r *fakeNoteVersionRepository) GetByNoteId(ctx context.Context, noteId uuid.UUID) ([]*entity.NoteVersion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := make([]*entity.NoteVersion, 0)
	for _, v := range r.s.state.versions {
		if v.NoteId == noteId {
			v := v
			res = append(res, &v)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return bytes.Compare(res[i].Id[:], res[j].Id[:]) < 0
	})
	return res, nil
}

func (r *fakeNoteVersionRepository) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, v := range r.s.state.versions {
		if v.NoteId == noteId {
			delete(r.s.state.versions, id)
		}
	}
	return nil
}

type fakeTagRepository struct{ s *memStore }

func (r *fakeTagRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) repository.ITagRepository {
	return r
}

func (r *fakeTagRepository) Create(ctx context.Context, tag *entity.Tag) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.state.tags[tag.Name]; ok {
		return false, nil
	}
	r.s.state.tags[tag.Name] = *tag
	return true, nil
}

func (r *fakeTagRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.check("tag.exists"); err != nil {
		return false, err
	}
	_, ok := r.s.state.tags[name]
	return ok, nil
}

func (r *fakeTagRepository) GetAll(ctx context.Context) ([]*entity.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := make([]*entity.Tag, 0, len(r.s.state.tags))
	for _, t := range r.s.state.tags {
		t := t
		res = append(res, &t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

type fakeUserRepository struct{ s *memStore }

func (r *fakeUserRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) repository.IUserRepository {
	return r
}

func (r *fakeUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.state.users[user.Email]; ok {
		return serverutils.ErrConflict
	}
	r.s.state.users[user.Email] = *user
	return nil
}

func (r *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.state.users[email]
	return ok, nil
}

func (r *fakeUserRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	_, err := r.GetByNickname(ctx, nickname)
	if err == serverutils.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepository) GetByNickname(ctx context.Context, nickname string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.state.users {
		if u.Nickname == nickname {
			u := u
			return &u, nil
		}
	}
	return nil, serverutils.ErrNotFound
}

type fakeFolderRepository struct{ s *memStore }

func (r *fakeFolderRepository) UsingTx(ctx context.Context, tx database.DatabaseQueryer) repository.IFolderRepository {
	return r
}

func (r *fakeFolderRepository) Create(ctx context.Context, folder *entity.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.state.folders[folder.Id] = *folder
	return nil
}

func (r *fakeFolderRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.state.folders[id]
	if !ok {
		return nil, serverutils.ErrNotFound
	}
	return &f, nil
}

func (r *fakeFolderRepository) GetByOwner(ctx context.Context, owner string) ([]*entity.Folder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := make([]*entity.Folder, 0)
	for _, f := range r.s.state.folders {
		if f.Owner == owner {
			f := f
			res = append(res, &f)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (r *fakeFolderRepository) Update(ctx context.Context, folder *entity.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.state.folders[folder.Id]; !ok {
		return serverutils.ErrNotFound
	}
	r.s.state.folders[folder.Id] = *folder
	return nil
}

func (r *fakeFolderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.check("folder.delete"); err != nil {
		return err
	}
	if _, ok := r.s.state.folders[id]; !ok {
		return serverutils.ErrNotFound
	}
	delete(r.s.state.folders, id)
	return nil
}

// stepClock advances by step on every reading.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{
		now:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		step: time.Second,
	}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

func (c *stepClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// fixture wires every service over one memStore.
type fixture struct {
	store   *memStore
	clock   *stepClock
	notes   INoteService
	shares  IShareService
	access  IAccessService
	search  ISearchService
	version IVersionService
	tags    ITagService
	folders IFolderService
	auth    IAuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	clock := newStepClock()
	logger := zaptest.NewLogger(t)

	noteRepo := &fakeNoteRepository{store}
	grantRepo := &fakeShareGrantRepository{store}
	versionRepo := &fakeNoteVersionRepository{store}
	tagRepo := &fakeTagRepository{store}
	userRepo := &fakeUserRepository{store}
	folderRepo := &fakeFolderRepository{store}

	tags := NewTagService(tagRepo, clock, logger)
	shares := NewShareService(grantRepo, userRepo, clock)
	access := NewAccessService(shares)
	search := NewSearchService(noteRepo, shares)
	version := NewVersionService(versionRepo, noteRepo, clock)

	f := &fixture{
		store:   store,
		clock:   clock,
		shares:  shares,
		access:  access,
		search:  search,
		version: version,
		tags:    tags,
		notes:   NewNoteService(noteRepo, tags, shares, access, search, version, store, clock, logger),
		folders: NewFolderService(folderRepo, noteRepo, clock, store),
		auth:    NewAuthService(userRepo, 4, clock, logger),
	}

	if err := tags.Seed(context.Background(), []string{"home", "work", "personal", "study"}); err != nil {
		t.Fatalf("seed tags: %v", err)
	}
	for _, email := range []string{"alice@example.com", "bob@example.com", "carol@example.com"} {
		f.addUser(t, email)
	}
	return f
}

func (f *fixture) addUser(t *testing.T, email string) {
	t.Helper()

	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.state.users[email] = entity.User{
		Id:        uuid.New(),
		Email:     email,
		Nickname:  email,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func strPtr(s string) *string { return &s }
