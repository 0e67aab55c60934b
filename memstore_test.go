package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is the in-memory Store double used by the endpoint tests. It
// mirrors PgxStore semantics: assigned ids, monotonic created_at stamps,
// newest-first pages, cascade delete, optional coordinate uniqueness.
type memStore struct {
	mu                sync.Mutex
	users             map[int64]*User
	queries           []*QueryHistory
	nextUserID        int64
	nextQueryID       int64
	clock             time.Time
	uniqueCoordinates bool
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[int64]*User),
		clock: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) CreateUser(ctx context.Context, email, hashedPassword string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return nil, ErrDuplicateEmail
		}
	}

	m.nextUserID++
	u := &User{
		ID:             m.nextUserID,
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       true,
		RegisteredAt:   m.tick(),
	}
	m.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (m *memStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) UserByID(ctx context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memStore) Users(ctx context.Context) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := []*User{}
	for _, u := range m.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *memStore) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)

	kept := m.queries[:0]
	for _, q := range m.queries {
		if q.UserID != id {
			kept = append(kept, q)
		}
	}
	m.queries = kept
	return nil
}

func (m *memStore) AddQuery(ctx context.Context, q *QueryHistory) (*QueryHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.uniqueCoordinates {
		for _, existing := range m.queries {
			if sameCoordinate(existing.Latitude, q.Latitude) && sameCoordinate(existing.Longitude, q.Longitude) {
				return nil, ErrDuplicateCoordinates
			}
		}
	}

	m.nextQueryID++
	stored := *q
	stored.ID = m.nextQueryID
	stored.CreatedAt = m.tick()
	m.queries = append(m.queries, &stored)

	copied := stored
	return &copied, nil
}

func sameCoordinate(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *memStore) HistoryPage(ctx context.Context, f HistoryFilter) ([]*QueryHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []*QueryHistory{}
	// queries is in insertion (created_at) order; walk backwards for
	// newest first.
	for i := len(m.queries) - 1; i >= 0; i-- {
		q := m.queries[i]
		if q.UserID != f.UserID {
			continue
		}
		if f.CadastralNumber != "" && q.CadastralNumber != f.CadastralNumber {
			continue
		}
		copied := *q
		matched = append(matched, &copied)
	}

	offset := (f.Page - 1) * f.Size
	if offset >= len(matched) {
		return []*QueryHistory{}, nil
	}
	end := offset + f.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// fakeResolver answers deterministically and records what it was asked.
type fakeResolver struct {
	result     bool
	lastNumber string
	lastAuth   string
}

func (f *fakeResolver) Resolve(ctx context.Context, cadastralNumber, authHeader string) bool {
	f.lastNumber = cadastralNumber
	f.lastAuth = authHeader
	return f.result
}

func testConfig() *Config {
	return &Config{
		DBString:        "postgres://unused",
		ListenAddr:      ":0",
		JWTSecret:       "test-secret",
		JWTLifetime:     time.Hour,
		ResolverURL:     "http://127.0.0.1:0",
		ResolverTimeout: 100 * time.Millisecond,
		StubMaxDelay:    0,
	}
}

func newTestServer(t *testing.T, store Store, resolver Resolver) *Server {
	t.Helper()
	s := &Server{
		config:   testConfig(),
		logger:   zap.NewNop(),
		store:    store,
		resolver: resolver,
	}
	s.InstallHTTP()
	return s
}

// seedUser creates an account directly in the store and returns it with
// a valid bearer token.
func seedUser(t *testing.T, s *Server, store *memStore, email, password string) (*User, string) {
	t.Helper()

	hashed, err := HashPassword(password)
	require.NoError(t, err)

	user, err := store.CreateUser(context.Background(), email, hashed)
	require.NoError(t, err)

	token, err := s.IssueToken(user)
	require.NoError(t, err)
	return user, token
}

func doRequest(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.httpHandler.ServeHTTP(rec, req)
	return rec
}
