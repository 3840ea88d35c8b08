package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/scrapdash/scrapdash-go/internal/model"
	"github.com/scrapdash/scrapdash-go/internal/repository"
)

// memStore is an in-memory stand-in for the MySQL repositories. Append is a
// single locked insert, mirroring the row-insert atomicity the real store
// relies on.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*model.User
	byEmail  map[string]int64
	docs     map[int64][]model.Document
	scrapers map[int64][]model.Scraper
}

func newMemStore() *memStore {
	return &memStore{
		nextID:   1,
		users:    make(map[int64]*model.User),
		byEmail:  make(map[string]int64),
		docs:     make(map[int64][]model.Document),
		scrapers: make(map[int64][]model.Scraper),
	}
}

func (m *memStore) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}

	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	stored := *user
	m.users[user.ID] = &stored
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u := *m.users[id]
	return &u, nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memStore) Append(ctx context.Context, userID int64, filename string, data json.RawMessage) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return nil, repository.ErrUserNotFound
	}

	doc := model.Document{
		ID:         m.nextID,
		UserID:     userID,
		Filename:   filename,
		Data:       data,
		UploadedAt: time.Now().UTC(),
	}
	m.nextID++
	m.docs[userID] = append(m.docs[userID], doc)
	return &doc, nil
}

func (m *memStore) ListByUser(ctx context.Context, userID int64) ([]model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]model.Document, len(m.docs[userID]))
	copy(docs, m.docs[userID])
	return docs, nil
}

func (m *memStore) CreateScraper(ctx context.Context, s *model.Scraper) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[s.UserID]; !ok {
		return repository.ErrUserNotFound
	}

	s.ID = m.nextID
	m.nextID++
	s.CreatedAt = time.Now().UTC()
	m.scrapers[s.UserID] = append(m.scrapers[s.UserID], *s)
	return nil
}

func (m *memStore) ListScrapersByUser(ctx context.Context, userID int64) ([]model.Scraper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	scrapers := make([]model.Scraper, len(m.scrapers[userID]))
	copy(scrapers, m.scrapers[userID])
	return scrapers, nil
}

// scraperStoreAdapter exposes memStore's scraper methods under the
// ScraperStore method names.
type scraperStoreAdapter struct {
	*memStore
}

func (a scraperStoreAdapter) Create(ctx context.Context, s *model.Scraper) error {
	return a.CreateScraper(ctx, s)
}

func (a scraperStoreAdapter) ListByUser(ctx context.Context, userID int64) ([]model.Scraper, error) {
	return a.ListScrapersByUser(ctx, userID)
}

