package domain

import (
	"context"
	"time"
)

type AccountRepository interface {
	// Create assigns the account ID.
	Create(ctx context.Context, account *Account) error
	SetAvatar(ctx context.Context, accountID string, avatar Image) error
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByToken(ctx context.Context, token string) (*Account, error)
	FindProfiles(ctx context.Context, ids []string) (map[string]PublicProfile, error)
}

type OfferRepository interface {
	// Create assigns the offer ID.
	Create(ctx context.Context, offer *Offer) error
	Save(ctx context.Context, offer *Offer) error
	FindByID(ctx context.Context, id string) (*Offer, error)
	// FindOwned returns ErrOfferNotFound when the offer exists but belongs to someone else.
	FindOwned(ctx context.Context, id, ownerID string) (*Offer, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q OfferQuery) ([]*Offer, int64, error)
}

// ImageStore is the remote image service.
type ImageStore interface {
	Upload(ctx context.Context, folder string, file ImageFile) (Image, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
	DeleteByIDs(ctx context.Context, remoteIDs []string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// Mailer sends the newsletter welcome message.
type Mailer interface {
	SendWelcome(ctx context.Context, email, username string) error
}

// ViewCache stores serialized offer views. Get returns ErrCacheMiss for
// absent keys.
type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
