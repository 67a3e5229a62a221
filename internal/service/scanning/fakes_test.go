package scanning

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/inventory"
)

// memSessions stores sessions behind a sessionRepoMock with the same
// contract as the postgres repository.
type memSessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.ScanningSession
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[uuid.UUID]*domain.ScanningSession)}
}

func cloneSession(s *domain.ScanningSession) *domain.ScanningSession {
	c := *s
	c.ExpectedItems = slices.Clone(s.ExpectedItems)
	c.ScannedItems = slices.Clone(s.ScannedItems)
	if c.ScannedItems == nil {
		c.ScannedItems = []domain.ScannedItem{}
	}
	return &c
}

func (m *memSessions) get(id uuid.UUID) (*domain.ScanningSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return cloneSession(s), nil
}

func (m *memSessions) mock() *sessionRepoMock {
	return &sessionRepoMock{
		CreateFunc: func(ctx context.Context, s *domain.ScanningSession) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.sessions[s.ID] = cloneSession(s)
			return nil
		},
		GetFunc: func(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
			return m.get(id)
		},
		GetForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
			return m.get(id)
		},
		AppendScanFunc: func(ctx context.Context, sessionID uuid.UUID, seq int, it domain.ScannedItem) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			s := m.sessions[sessionID]
			for _, existing := range s.ScannedItems {
				if existing.QRID == it.QRID {
					return domain.ErrDuplicateScan
				}
			}
			if seq != len(s.ScannedItems)+1 {
				return fmt.Errorf("seq %d out of order", seq)
			}
			s.ScannedItems = append(s.ScannedItems, it)
			return nil
		},
		SaveFunc: func(ctx context.Context, s *domain.ScanningSession) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			stored := m.sessions[s.ID]
			if stored.Status != domain.SessionStatusActive {
				return domain.ErrConflict
			}
			saved := cloneSession(s)
			saved.ScannedItems = stored.ScannedItems
			m.sessions[s.ID] = saved
			return nil
		},
		ListFunc: func(ctx context.Context, filter domain.SessionFilter) ([]domain.ScanningSession, int, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			out := []domain.ScanningSession{}
			for _, s := range m.sessions {
				if filter.OperatorID != nil && s.Operator.ID != *filter.OperatorID {
					continue
				}
				if filter.Status != nil && s.Status != *filter.Status {
					continue
				}
				out = append(out, *cloneSession(s))
			}
			return out, len(out), nil
		},
	}
}

// memInventory applies the item state machine in memory behind an
// inventoryServiceMock.
type memInventory struct {
	mu    sync.Mutex
	items map[string]domain.InventoryItem
}

func newMemInventory(seed ...domain.InventoryItem) *memInventory {
	m := &memInventory{items: make(map[string]domain.InventoryItem)}
	for _, it := range seed {
		m.items[it.ID] = it
	}
	return m
}

func (m *memInventory) status(id string) domain.ItemStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].Status
}

func (m *memInventory) mock() *inventoryServiceMock {
	return &inventoryServiceMock{
		GetFunc: func(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			it, ok := m.items[itemID]
			if !ok {
				return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
			}
			return &it, nil
		},
		RegisterFunc: func(ctx context.Context, input inventory.RegisterInput) (*domain.InventoryItem, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			if it, ok := m.items[input.ItemID]; ok {
				return nil, &domain.StatusConflictError{ItemID: it.ID, Current: it.Status}
			}
			it := domain.InventoryItem{ID: input.ItemID, PartID: input.PartID, Status: input.Status}
			m.items[it.ID] = it
			return &it, nil
		},
		TransitionFunc: func(ctx context.Context, input inventory.TransitionInput) (*inventory.TransitionResult, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			it, ok := m.items[input.ItemID]
			if !ok || it.PartID != input.PartID {
				return nil, fmt.Errorf("item %s: %w", input.ItemID, domain.ErrNotFound)
			}
			if !domain.CanTransition(it.Status, input.Target) {
				return nil, &domain.StatusConflictError{ItemID: it.ID, Current: it.Status, Target: input.Target}
			}
			prev := it.Status
			it.Status = input.Target
			m.items[it.ID] = it
			return &inventory.TransitionResult{Item: &it, Previous: prev}, nil
		},
	}
}
