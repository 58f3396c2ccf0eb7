package testutil

import (
	"context"
	"sync"

	"github.com/licx/authgate/internal/model"
	appErr "github.com/licx/authgate/internal/pkg/errors"
)

// MemAccountStore is an in-memory service.AccountStore so tests can run
// without postgres.
type MemAccountStore struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*model.Account
}

func NewMemAccountStore() *MemAccountStore {
	return &MemAccountStore{nextID: 1, accounts: make(map[int64]*model.Account)}
}

func (m *MemAccountStore) Create(ctx context.Context, account *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Username == account.Username || existing.Email == account.Email {
			return appErr.ErrConflict
		}
	}
	account.ID = m.nextID
	m.nextID++
	clone := *account
	m.accounts[account.ID] = &clone
	return nil
}

func (m *MemAccountStore) FindByUsernameOrEmail(ctx context.Context, text string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.Username == text || account.Email == text {
			clone := *account
			return &clone, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (m *MemAccountStore) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	clone := *account
	return &clone, nil
}

func (m *MemAccountStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemAccountStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemAccountStore) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.Email == email {
			account.Password = passwordHash
			return nil
		}
	}
	return appErr.ErrNotFound
}
