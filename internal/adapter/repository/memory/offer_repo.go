package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/google/uuid"
)

type storedOffer struct {
	seq   uint64
	offer *domain.Offer
}

// OfferRepository orders unsorted results by insertion and breaks price ties
// the same way.
type OfferRepository struct {
	mu     sync.RWMutex
	seq    uint64
	offers map[string]*storedOffer
}

func NewOfferRepository() *OfferRepository {
	return &OfferRepository{offers: make(map[string]*storedOffer)}
}

func (r *OfferRepository) Create(_ context.Context, offer *domain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	offer.ID = uuid.NewString()
	r.offers[offer.ID] = &storedOffer{seq: r.seq, offer: cloneOffer(offer)}
	return nil
}

func (r *OfferRepository) Save(_ context.Context, offer *domain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.offers[offer.ID]
	if !ok {
		return domain.ErrOfferNotFound
	}
	s.offer = cloneOffer(offer)
	return nil
}

func (r *OfferRepository) FindByID(_ context.Context, id string) (*domain.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.offers[id]
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	return cloneOffer(s.offer), nil
}

func (r *OfferRepository) FindOwned(ctx context.Context, id, ownerID string) (*domain.Offer, error) {
	o, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OwnerID != ownerID {
		return nil, domain.ErrOfferNotFound
	}
	return o, nil
}

func (r *OfferRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.offers[id]; !ok {
		return domain.ErrOfferNotFound
	}
	delete(r.offers, id)
	return nil
}

func (r *OfferRepository) Search(_ context.Context, q domain.OfferQuery) ([]*domain.Offer, int64, error) {
	r.mu.RLock()
	matches := make([]*storedOffer, 0, len(r.offers))
	needle := strings.ToLower(q.TitleContains)
	for _, s := range r.offers {
		if s.offer.Price < q.PriceMin || s.offer.Price > q.PriceMax {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(s.offer.Title), needle) {
			continue
		}
		matches = append(matches, &storedOffer{seq: s.seq, offer: cloneOffer(s.offer)})
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		switch q.Sort {
		case domain.SortPriceAsc:
			if a.offer.Price != b.offer.Price {
				return a.offer.Price < b.offer.Price
			}
		case domain.SortPriceDesc:
			if a.offer.Price != b.offer.Price {
				return a.offer.Price > b.offer.Price
			}
		}
		return a.seq < b.seq
	})

	total := int64(len(matches))
	start := min(max(q.Skip, 0), total)
	end := total
	if q.Limit > 0 && q.Limit < total-start {
		end = start + q.Limit
	}

	page := make([]*domain.Offer, 0, end-start)
	for _, s := range matches[start:end] {
		page = append(page, s.offer)
	}
	return page, total, nil
}

func cloneOffer(o *domain.Offer) *domain.Offer {
	c := *o
	c.Attributes = append([]domain.Attribute(nil), o.Attributes...)
	c.Images = append([]domain.Image(nil), o.Images...)
	return &c
}
