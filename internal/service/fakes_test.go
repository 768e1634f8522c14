package service

import (
	"context"
	"regexp"
	"strconv"
	"sync"

	"document_manager/internal/model"
	"document_manager/internal/repository"

	"github.com/jackc/pgx/v5"
)

// fakeUserRepo is an in-memory UserRepository enforcing email uniqueness the
// way the database constraint does
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = f.nextID
	f.nextID++
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateName(_ context.Context, email, name string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u.Name = name
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, email, passwordHash string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdatePermissions(_ context.Context, email string, permissions int) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u.Permissions = permissions
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

// fakeDocRepo is an in-memory DocumentRepository. Slug uniqueness is enforced
// on insert, mirroring the database constraint, and an optional afterScan hook
// lets tests interleave a competing insert between scan and insert.
type fakeDocRepo struct {
	mu        sync.Mutex
	nextID    int
	docs      map[int]*model.Document
	types     map[int]*model.DocumentType
	afterScan func(base string)
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{nextID: 1, docs: map[int]*model.Document{}, types: map[int]*model.DocumentType{}}
}

func (f *fakeDocRepo) seedType(id int, title string) {
	f.types[id] = &model.DocumentType{ID: id, Title: title}
}

func (f *fakeDocRepo) insertLocked(d *model.Document) error {
	for _, existing := range f.docs {
		if existing.Slug == d.Slug {
			return repository.ErrDuplicateSlug
		}
	}
	d.ID = f.nextID
	f.nextID++
	cp := *d
	f.docs[d.ID] = &cp
	return nil
}

func (f *fakeDocRepo) Create(_ context.Context, d *model.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(d)
}

func (f *fakeDocRepo) FindByID(_ context.Context, id int) (*model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.docs[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeDocRepo) FindAll(_ context.Context) ([]model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Document
	for _, d := range f.docs {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeDocRepo) FindByOwner(_ context.Context, ownerID int) ([]model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Document
	for _, d := range f.docs {
		if d.OwnerID == ownerID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDocRepo) Update(_ context.Context, d *model.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.docs[d.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Title = d.Title
	existing.TypeID = d.TypeID
	existing.Description = d.Description
	return nil
}

func (f *fakeDocRepo) Delete(_ context.Context, id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return false, nil
	}
	delete(f.docs, id)
	return true, nil
}

func (f *fakeDocRepo) MaxSlugSuffix(_ context.Context, base string) (int, error) {
	f.mu.Lock()
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `-([0-9]+)$`)
	max := -1
	for _, d := range f.docs {
		if d.Slug == base {
			if max < 0 {
				max = 0
			}
			continue
		}
		if m := re.FindStringSubmatch(d.Slug); m != nil {
			n, _ := strconv.Atoi(m[1])
			if n > max {
				max = n
			}
		}
	}
	hook := f.afterScan
	f.mu.Unlock()

	if hook != nil {
		hook(base)
	}
	return max, nil
}

func (f *fakeDocRepo) CreateType(_ context.Context, t *model.DocumentType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = len(f.types) + 1
	cp := *t
	f.types[t.ID] = &cp
	return nil
}

func (f *fakeDocRepo) FindAllTypes(_ context.Context) ([]model.DocumentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.DocumentType
	for _, t := range f.types {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeDocRepo) FindTypeByID(_ context.Context, id int) (*model.DocumentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.types[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}
