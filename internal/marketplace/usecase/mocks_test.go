package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/stretchr/testify/mock"
)

type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepository) SetAvatar(ctx context.Context, accountID string, avatar domain.Image) error {
	args := m.Called(ctx, accountID, avatar)
	return args.Error(0)
}
func (m *MockAccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepository) FindByToken(ctx context.Context, token string) (*domain.Account, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepository) FindProfiles(ctx context.Context, ids []string) (map[string]domain.PublicProfile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.PublicProfile), args.Error(1)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}
func (m *MockOfferRepository) Save(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}
func (m *MockOfferRepository) FindByID(ctx context.Context, id string) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferRepository) FindOwned(ctx context.Context, id, ownerID string) (*domain.Offer, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOfferRepository) Search(ctx context.Context, q domain.OfferQuery) ([]*domain.Offer, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Offer), args.Get(1).(int64), args.Error(2)
}

type MockImageStore struct{ mock.Mock }

func (m *MockImageStore) Upload(ctx context.Context, folder string, file domain.ImageFile) (domain.Image, error) {
	args := m.Called(ctx, folder, file)
	return args.Get(0).(domain.Image), args.Error(1)
}
func (m *MockImageStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}
func (m *MockImageStore) DeleteByIDs(ctx context.Context, remoteIDs []string) error {
	args := m.Called(ctx, remoteIDs)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, payload any) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendWelcome(ctx context.Context, email, username string) error {
	args := m.Called(ctx, email, username)
	return args.Error(0)
}

type MockViewCache struct{ mock.Mock }

func (m *MockViewCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockViewCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
func (m *MockViewCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type stubCredentials struct {
	deriveErr error
	tokenErr  error
}

func (s stubCredentials) Derive(password string) (string, string, error) {
	if s.deriveErr != nil {
		return "", "", s.deriveErr
	}
	return "hash:" + password, "salt", nil
}

func (s stubCredentials) Verify(password, salt, expectedHash string) bool {
	return "hash:"+password == expectedHash
}

func (s stubCredentials) IssueToken() (string, error) {
	if s.tokenErr != nil {
		return "", s.tokenErr
	}
	return "token-1", nil
}
