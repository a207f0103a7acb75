package usecase

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	identityEntity "github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/authz"
	"github.com/shandysiswandi/quickcart/internal/pkg/clock"
	"github.com/shandysiswandi/quickcart/internal/pkg/config"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/idempotency"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/jwt"
	"github.com/shandysiswandi/quickcart/internal/pkg/storage"
	"github.com/shandysiswandi/quickcart/internal/pkg/validator"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

const testConfig = `
modules:
  product:
    idempotency_ttl_hours: 24
    image_bucket: products
    image_base_url: https://cdn.example.com
    image_max_size_bytes: 16
`

// memoryRepo scopes every lookup by owner like the products table queries.
type memoryRepo struct {
	mu   sync.Mutex
	rows map[int64]entity.Product
	err  error

	lastFilter entity.ProductListFilter
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]entity.Product{}}
}

func (m *memoryRepo) CreateProduct(_ context.Context, p entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.rows[p.ID] = p
	return nil
}

func (m *memoryRepo) GetProduct(_ context.Context, ownerID, id int64) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.rows[id]
	if !ok || p.OwnerID != ownerID {
		return nil, goerror.ErrNotFound
	}
	return &p, nil
}

func (m *memoryRepo) ListProducts(_ context.Context, f entity.ProductListFilter) ([]entity.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastFilter = f
	if m.err != nil {
		return nil, 0, m.err
	}

	var owned []entity.Product
	for _, p := range m.rows {
		if p.OwnerID == f.OwnerID {
			owned = append(owned, p)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID > owned[j].ID })

	total := int64(len(owned))
	start := int(min(f.Offset, int64(len(owned))))
	end := min(start+int(f.Limit), len(owned))
	return owned[start:end], total, nil
}

func (m *memoryRepo) UpdateProduct(_ context.Context, ownerID, id int64, patch entity.ProductPatch) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.rows[id]
	if !ok || p.OwnerID != ownerID {
		return nil, goerror.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	m.rows[id] = p
	return &p, nil
}

func (m *memoryRepo) DeleteProduct(_ context.Context, ownerID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	p, ok := m.rows[id]
	if !ok || p.OwnerID != ownerID {
		return goerror.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// accountsStub resolves any subject listed in ids.
type accountsStub struct {
	ids map[int64]bool
}

func (a *accountsStub) ResolveAccount(_ context.Context, clm jwt.Claims) (*identityEntity.Account, error) {
	id, ok := clm.AccountID()
	if !ok {
		return nil, goerror.NewBusiness("Invalid token", goerror.CodeUnauthorized)
	}
	if !a.ids[id] {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return &identityEntity.Account{ID: id, IsVerified: true}, nil
}

type storageSpy struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	err     error
}

func (s *storageSpy) PutObject(_ context.Context, bucket, key string, r io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error) {
	if s.err != nil {
		return storage.ObjectInfo{}, s.err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return storage.ObjectInfo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[bucket+"/"+key] = buf.Bytes()
	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(buf.Len()), ContentType: opts.ContentType}, nil
}

func (s *storageSpy) DeleteObject(_ context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, bucket+"/"+key)
	return nil
}

func (s *storageSpy) Close() error { return nil }

type seqNumberID struct{ n int64 }

func (s *seqNumberID) Generate() int64 {
	s.n++
	return 9000 + s.n
}

type seqStringID struct{ n int }

func (s *seqStringID) Generate() string {
	s.n++
	return "obj" + strconv.Itoa(s.n)
}

type fixture struct {
	uc      *Usecase
	repo    *memoryRepo
	storage *storageSpy
	redis   *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	enforcer, err := authz.NewEnforcer([]string{
		"customer, product, read",
		"customer, product, write",
		"auditor, product, read",
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &fixture{
		repo:    newMemoryRepo(),
		storage: &storageSpy{},
		redis:   mr,
	}
	f.uc = New(Dependency{
		RepoDB:      f.repo,
		Accounts:    &accountsStub{ids: map[int64]bool{1: true, 2: true}},
		Enforcer:    enforcer,
		Idempotency: idempotency.New(rdb, ""),
		Storage:     f.storage,
		Validator:   v,
		Config:      cfg,
		UID:         &seqNumberID{},
		UUID:        &seqStringID{},
		Clock:       clock.NewFixed(testNow),
		Instrument:  instrument.NewNoop(),
	})

	return f
}

// as returns a context authenticated as the account with the given role.
func as(accountID int64, role string) context.Context {
	clm := jwt.Claims{Role: role}
	clm.Subject = strconv.FormatInt(accountID, 10)
	return jwt.SetAuth(context.Background(), clm)
}

func ptr[T any](v T) *T {
	return &v
}
