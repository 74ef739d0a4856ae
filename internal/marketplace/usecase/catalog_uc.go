package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const DefaultPageSize = 2

// SearchParams is a catalog query as received. Nil bounds take the defaults
// 0 and MaxPrice; pages below 1 are treated as page 1.
type SearchParams struct {
	Title    string
	PriceMin *int
	PriceMax *int
	Sort     string
	Page     int
}

type SearchResult struct {
	Count  int64               `json:"count"`
	Offers []*domain.OfferView `json:"offers"`
}

type CatalogUsecase struct {
	offers   domain.OfferRepository
	accounts domain.AccountRepository
	cache    domain.ViewCache
	cacheTTL time.Duration
	pageSize int
	logger   *logger.Logger
}

// NewCatalogUsecase accepts a nil cache. A pageSize below 1 means DefaultPageSize.
func NewCatalogUsecase(
	offers domain.OfferRepository,
	accounts domain.AccountRepository,
	cache domain.ViewCache,
	cacheTTL time.Duration,
	pageSize int,
	log *logger.Logger,
) *CatalogUsecase {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultOfferCacheTTL
	}
	return &CatalogUsecase{
		offers:   offers,
		accounts: accounts,
		cache:    cache,
		cacheTTL: cacheTTL,
		pageSize: pageSize,
		logger:   log.Named("CatalogUsecase"),
	}
}

// buildQuery rejects pages whose offset does not fit in an int64.
func (uc *CatalogUsecase) buildQuery(p SearchParams) (domain.OfferQuery, error) {
	q := domain.OfferQuery{
		TitleContains: p.Title,
		PriceMin:      0,
		PriceMax:      domain.MaxPrice,
		Sort:          domain.ParseSortOrder(p.Sort),
		Limit:         int64(uc.pageSize),
	}
	if p.PriceMin != nil {
		q.PriceMin = *p.PriceMin
	}
	if p.PriceMax != nil {
		q.PriceMax = *p.PriceMax
	}
	page := int64(p.Page)
	if page < 1 {
		page = 1
	}
	if page-1 > math.MaxInt64/int64(uc.pageSize) {
		return q, fmt.Errorf("%w: page %d is out of range", domain.ErrInvalidQuery, p.Page)
	}
	q.Skip = int64(uc.pageSize) * (page - 1)
	return q, nil
}

// Search returns one page of matching offers and the total match count.
func (uc *CatalogUsecase) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.Search")
	defer span.End()

	q, err := uc.buildQuery(p)
	if err != nil {
		uc.logger.Warn("Catalog search rejected", zap.Int("page", p.Page))
		return nil, err
	}
	span.SetAttributes(
		attribute.Int64("query.skip", q.Skip),
		attribute.String("query.sort", string(q.Sort)),
	)

	offers, count, err := uc.offers.Search(ctx, q)
	if err != nil {
		uc.logger.Error("Catalog search failed", zap.Error(err))
		span.RecordError(err)
		return nil, domain.Dependency("offers.search", err)
	}

	views, err := uc.withOwners(ctx, offers)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.logger.Debug("Catalog search",
		zap.String("title", q.TitleContains),
		zap.Int("price_min", q.PriceMin),
		zap.Int("price_max", q.PriceMax),
		zap.Int64("skip", q.Skip),
		zap.Int64("count", count),
	)
	return &SearchResult{Count: count, Offers: views}, nil
}

// GetByID serves from the view cache when possible.
func (uc *CatalogUsecase) GetByID(ctx context.Context, offerID string) (*domain.OfferView, error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.GetByID")
	defer span.End()
	span.SetAttributes(attribute.String("offer.id", offerID))

	key := offerCacheKey(offerID)
	if view, ok := uc.cached(ctx, key); ok {
		return view, nil
	}

	offer, err := uc.offers.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, domain.ErrOfferNotFound) {
			return nil, err
		}
		uc.logger.Error("Failed to load offer", zap.String("offer_id", offerID), zap.Error(err))
		span.RecordError(err)
		return nil, domain.Dependency("offers.find_by_id", err)
	}

	views, err := uc.withOwners(ctx, []*domain.Offer{offer})
	if err != nil {
		return nil, err
	}
	view := views[0]

	if uc.cache != nil {
		uc.store(ctx, key, view)
	}
	return view, nil
}

// store caches view unless the offer changed or disappeared since it was
// loaded, so a concurrent Update or Remove cannot be shadowed for cacheTTL.
func (uc *CatalogUsecase) store(ctx context.Context, key string, view *domain.OfferView) {
	current, err := uc.offers.FindByID(ctx, view.ID)
	if err != nil || !current.UpdatedAt.Equal(view.UpdatedAt) {
		uc.logger.Debug("Offer changed while loading, view not cached", zap.String("key", key))
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache offer view", zap.String("key", key), zap.Error(err))
	}
}

func (uc *CatalogUsecase) cached(ctx context.Context, key string) (*domain.OfferView, bool) {
	if uc.cache == nil {
		return nil, false
	}
	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			uc.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var view domain.OfferView
	if err := json.Unmarshal(data, &view); err != nil {
		uc.logger.Error("Corrupted cached offer view", zap.String("key", key), zap.Error(err))
		if delErr := uc.cache.Delete(ctx, key); delErr != nil {
			uc.logger.Warn("Failed to drop corrupted cache entry", zap.String("key", key), zap.Error(delErr))
		}
		return nil, false
	}
	return &view, true
}

// withOwners joins each offer with its owner's public profile. Credential
// fields never reach the view because only PublicProfile is loaded.
func (uc *CatalogUsecase) withOwners(ctx context.Context, offers []*domain.Offer) ([]*domain.OfferView, error) {
	seen := make(map[string]struct{}, len(offers))
	ids := make([]string, 0, len(offers))
	for _, o := range offers {
		if _, ok := seen[o.OwnerID]; !ok {
			seen[o.OwnerID] = struct{}{}
			ids = append(ids, o.OwnerID)
		}
	}

	profiles := map[string]domain.PublicProfile{}
	if len(ids) > 0 {
		var err error
		profiles, err = uc.accounts.FindProfiles(ctx, ids)
		if err != nil {
			uc.logger.Error("Failed to load owner profiles", zap.Error(err))
			return nil, domain.Dependency("accounts.find_profiles", err)
		}
	}

	views := make([]*domain.OfferView, len(offers))
	for i, o := range offers {
		var owner *domain.PublicProfile
		if p, ok := profiles[o.OwnerID]; ok {
			owner = &p
		}
		views[i] = domain.NewOfferView(o, owner)
	}
	return views, nil
}
