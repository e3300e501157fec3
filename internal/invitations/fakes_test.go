package invitations

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roemah-nenek/undangan/internal/models"
)

type memStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]models.Invitation
	now  time.Time
	// afterSlugRead runs once a slug lookup has copied its row, outside the lock.
	afterSlugRead func()
}

func newMemStore() *memStore {
	return &memStore{byID: map[uuid.UUID]models.Invitation{}, now: time.Now()}
}

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memStore) slugTaken(slug string, except uuid.UUID) bool {
	for id, inv := range m.byID {
		if inv.Slug == slug && id != except {
			return true
		}
	}
	return false
}

func (m *memStore) Create(_ context.Context, inv *models.Invitation) (*models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(inv.Slug, uuid.Nil) {
		return nil, ErrSlugConflict
	}
	out := *inv
	out.ID = uuid.New()
	out.CreatedAt = m.tick()
	out.UpdatedAt = out.CreatedAt
	m.byID[out.ID] = out
	return &out, nil
}

func (m *memStore) Update(_ context.Context, ownerID, id uuid.UUID, patch *models.InvitationPatch) (*models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok || inv.OwnerAccountID != ownerID {
		return nil, ErrNotFound
	}
	if patch.Slug != nil && m.slugTaken(*patch.Slug, id) {
		return nil, ErrSlugConflict
	}
	patch.Apply(&inv)
	inv.UpdatedAt = m.tick()
	m.byID[id] = inv
	return &inv, nil
}

func (m *memStore) Delete(_ context.Context, ownerID, id uuid.UUID) (*models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok || inv.OwnerAccountID != ownerID {
		return nil, ErrNotFound
	}
	delete(m.byID, id)
	return &inv, nil
}

func (m *memStore) GetByID(_ context.Context, ownerID, id uuid.UUID) (*models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok || inv.OwnerAccountID != ownerID {
		return nil, ErrNotFound
	}
	return &inv, nil
}

func (m *memStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := []models.Invitation{}
	for _, inv := range m.byID {
		if inv.OwnerAccountID == ownerID {
			list = append(list, inv)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (m *memStore) GetBySlug(_ context.Context, slug string) (*models.Invitation, error) {
	inv, err := m.lookupSlug(slug)
	if m.afterSlugRead != nil {
		m.afterSlugRead()
	}
	return inv, err
}

func (m *memStore) lookupSlug(slug string) (*models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.byID {
		if inv.Slug == slug {
			inv := inv
			return &inv, nil
		}
	}
	return nil, ErrNotFound
}

type memCache struct {
	mu       sync.Mutex
	entries  map[string]models.Invitation
	versions map[string]int64
	hits     int
	fail     bool
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]models.Invitation{}, versions: map[string]int64{}}
}

func (c *memCache) Get(_ context.Context, slug string) (*models.Invitation, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, false, errors.New("cache down")
	}
	inv, ok := c.entries[slug]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return &inv, true, nil
}

func (c *memCache) Version(_ context.Context, slug string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return 0, errors.New("cache down")
	}
	return c.versions[slug], nil
}

func (c *memCache) Set(_ context.Context, inv *models.Invitation, version int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("cache down")
	}
	if c.versions[inv.Slug] != version {
		return nil
	}
	c.entries[inv.Slug] = *inv
	return nil
}

func (c *memCache) Invalidate(_ context.Context, slugs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range slugs {
		if s == "" {
			continue
		}
		c.versions[s]++
		delete(c.entries, s)
	}
	return nil
}

type recordingCleanup struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *recordingCleanup) EnqueueMediaCleanup(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
	return nil
}
