package paper

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements Store using in-memory maps.
// It is safe for concurrent use and returns copies so callers cannot mutate stored records.
type MemoryStore struct {
	mu            sync.RWMutex
	identities    map[uuid.UUID]*Identity
	papers        map[uuid.UUID]*Paper
	businesses    map[uuid.UUID]*BusinessRegistration
	papersByOwner map[uuid.UUID][]uuid.UUID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		identities:    make(map[uuid.UUID]*Identity),
		papers:        make(map[uuid.UUID]*Paper),
		businesses:    make(map[uuid.UUID]*BusinessRegistration),
		papersByOwner: make(map[uuid.UUID][]uuid.UUID),
	}
}

// GetIdentity returns a copy of the identity.
func (m *MemoryStore) GetIdentity(ctx context.Context, identityID uuid.UUID) (*Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getIdentity(identityID)
}

// GetPapersForIdentity returns copies of the identity's papers in creation order.
func (m *MemoryStore) GetPapersForIdentity(ctx context.Context, identityID uuid.UUID) ([]Paper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getPapers(identityID)
}

// GetBusinessRegistrationsForIdentity returns copies of the identity's businesses.
func (m *MemoryStore) GetBusinessRegistrationsForIdentity(ctx context.Context, identityID uuid.UUID) ([]BusinessRegistration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getBusinesses(identityID)
}

// InsertIdentity stores a new identity.
func (m *MemoryStore) InsertIdentity(ctx context.Context, identity *Identity) error {
	if identity == nil || identity.ID == uuid.Nil {
		return ErrInvalidIdentity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.identities[identity.ID]; exists {
		return ErrDuplicate
	}
	identityCopy := *identity
	m.identities[identity.ID] = &identityCopy
	return nil
}

// InsertPaper stores a new paper for an existing identity.
func (m *MemoryStore) InsertPaper(ctx context.Context, paper *Paper) error {
	if paper == nil || paper.ID == uuid.Nil {
		return ErrInvalidPaper
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.identities[paper.IdentityID]; !exists {
		return ErrIdentityNotFound
	}
	if _, exists := m.papers[paper.ID]; exists {
		return ErrDuplicate
	}
	m.putPaper(paper)
	return nil
}

// InsertBusinessRegistration stores the business and its registration paper atomically.
func (m *MemoryStore) InsertBusinessRegistration(ctx context.Context, reg *BusinessRegistration, paper *Paper) error {
	if reg == nil || reg.ID == uuid.Nil {
		return ErrInvalidBusiness
	}
	if paper == nil || paper.ID == uuid.Nil {
		return ErrInvalidPaper
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.identities[reg.OwnerID]; !exists {
		return ErrIdentityNotFound
	}
	if _, exists := m.businesses[reg.ID]; exists {
		return ErrDuplicate
	}
	if _, exists := m.papers[paper.ID]; exists {
		return ErrDuplicate
	}

	regCopy := *reg
	m.businesses[reg.ID] = &regCopy
	m.putPaper(paper)
	return nil
}

// DeactivatePaper clears the active flag of a paper owned by the identity.
func (m *MemoryStore) DeactivatePaper(ctx context.Context, identityID, paperID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.papers[paperID]
	if !exists || p.IdentityID != identityID {
		return ErrPaperNotFound
	}
	p.Active = false
	return nil
}

// DeactivateIdentity clears the active flag of an identity.
func (m *MemoryStore) DeactivateIdentity(ctx context.Context, identityID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	identity, exists := m.identities[identityID]
	if !exists {
		return ErrIdentityNotFound
	}
	identity.Active = false
	return nil
}

// ReadSnapshot holds the read lock for the duration of fn, so writers wait
// until the snapshot is released.
func (m *MemoryStore) ReadSnapshot(ctx context.Context, fn func(ctx context.Context, r Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(ctx, memorySnapshot{store: m})
}

// Must be called with lock held.
func (m *MemoryStore) putPaper(paper *Paper) {
	paperCopy := copyPaper(paper)
	m.papers[paper.ID] = &paperCopy
	m.papersByOwner[paper.IdentityID] = append(m.papersByOwner[paper.IdentityID], paper.ID)
}

// Must be called with lock held.
func (m *MemoryStore) getIdentity(identityID uuid.UUID) (*Identity, error) {
	identity, exists := m.identities[identityID]
	if !exists {
		return nil, ErrIdentityNotFound
	}
	identityCopy := *identity
	return &identityCopy, nil
}

// Must be called with lock held.
func (m *MemoryStore) getPapers(identityID uuid.UUID) ([]Paper, error) {
	if _, exists := m.identities[identityID]; !exists {
		return nil, ErrIdentityNotFound
	}

	ids := m.papersByOwner[identityID]
	result := make([]Paper, 0, len(ids))
	for _, id := range ids {
		result = append(result, copyPaper(m.papers[id]))
	}
	slices.SortStableFunc(result, func(a, b Paper) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result, nil
}

// Must be called with lock held.
func (m *MemoryStore) getBusinesses(identityID uuid.UUID) ([]BusinessRegistration, error) {
	if _, exists := m.identities[identityID]; !exists {
		return nil, ErrIdentityNotFound
	}

	var result []BusinessRegistration
	for _, reg := range m.businesses {
		if reg.OwnerID == identityID {
			result = append(result, *reg)
		}
	}
	slices.SortFunc(result, func(a, b BusinessRegistration) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	return result, nil
}

func copyPaper(p *Paper) Paper {
	paperCopy := *p
	if p.Payload != nil {
		paperCopy.Payload = make(map[string]any, len(p.Payload))
		maps.Copy(paperCopy.Payload, p.Payload)
	}
	return paperCopy
}

func compareIDs(a, b uuid.UUID) int {
	return slices.Compare(a[:], b[:])
}

// memorySnapshot reads the store without taking locks; ReadSnapshot already holds one.
type memorySnapshot struct {
	store *MemoryStore
}

func (s memorySnapshot) GetIdentity(ctx context.Context, identityID uuid.UUID) (*Identity, error) {
	return s.store.getIdentity(identityID)
}

func (s memorySnapshot) GetPapersForIdentity(ctx context.Context, identityID uuid.UUID) ([]Paper, error) {
	return s.store.getPapers(identityID)
}

func (s memorySnapshot) GetBusinessRegistrationsForIdentity(ctx context.Context, identityID uuid.UUID) ([]BusinessRegistration, error) {
	return s.store.getBusinesses(identityID)
}
