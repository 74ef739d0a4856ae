// Package memory holds process-local repositories used by the memory
// storage driver and by tests.
package memory

import (
	"context"
	"sync"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/google/uuid"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	byEmail  map[string]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*domain.Account),
		byEmail:  make(map[string]string),
	}
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[account.Email]; taken {
		return domain.ErrDuplicateEmail
	}
	account.ID = uuid.NewString()
	stored := cloneAccount(account)
	r.accounts[stored.ID] = stored
	r.byEmail[stored.Email] = stored.ID
	return nil
}

func (r *AccountRepository) SetAvatar(_ context.Context, accountID string, avatar domain.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Avatar = &avatar
	return nil
}

func (r *AccountRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *AccountRepository) FindByToken(_ context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, domain.ErrAccountNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Token == token {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *AccountRepository) FindProfiles(_ context.Context, ids []string) (map[string]domain.PublicProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make(map[string]domain.PublicProfile, len(ids))
	for _, id := range ids {
		if a, ok := r.accounts[id]; ok {
			profiles[id] = cloneAccount(a).Profile()
		}
	}
	return profiles, nil
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	if a.Avatar != nil {
		avatar := *a.Avatar
		c.Avatar = &avatar
	}
	return &c
}
