// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/sec"
)

// MemoryRepository is a process-local [Repository] for tests and local tooling.
type MemoryRepository struct {
	mu        sync.RWMutex
	byID      map[string]*Account
	bySubject map[string]string
	now       func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:      make(map[string]*Account),
		bySubject: make(map[string]string),
		now:       time.Now,
	}
}

// FindBySubject implements [Finder].
func (repository *MemoryRepository) FindBySubject(_ context.Context, subject string) (*Account, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, ok := repository.bySubject[sec.NormalizeSubject(subject)]
	if !ok {
		return nil, ErrNotFound
	}
	return repository.copyOf(id), nil
}

// FindByID implements [Repository].
func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Account, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if _, ok := repository.byID[id]; !ok {
		return nil, ErrNotFound
	}
	return repository.copyOf(id), nil
}

// Create implements [Repository].
func (repository *MemoryRepository) Create(_ context.Context, account *Account) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	email := sec.NormalizeSubject(account.Email)
	if _, taken := repository.bySubject[email]; taken {
		return apperr.Conflict("Account already exists")
	}

	now := repository.now().UTC()
	account.Email = email
	account.CreatedAt = now
	account.UpdatedAt = now

	stored := *account
	repository.byID[account.ID] = &stored
	repository.bySubject[email] = account.ID
	return nil
}

// UpdateStatus implements [Repository].
func (repository *MemoryRepository) UpdateStatus(_ context.Context, id string, status sec.Status) (*Account, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	stored.Status = status
	stored.UpdatedAt = repository.now().UTC()
	return repository.copyOf(id), nil
}

// copyOf must be called with the lock held.
func (repository *MemoryRepository) copyOf(id string) *Account {
	clone := *repository.byID[id]
	return &clone
}
