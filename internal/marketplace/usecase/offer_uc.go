package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type OfferUsecase struct {
	offers    domain.OfferRepository
	gallery   *Gallery
	cache     domain.ViewCache
	publisher domain.EventPublisher
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
}

// NewOfferUsecase accepts nil for cache, publisher and m.
func NewOfferUsecase(
	offers domain.OfferRepository,
	gallery *Gallery,
	cache domain.ViewCache,
	publisher domain.EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *OfferUsecase {
	return &OfferUsecase{
		offers:    offers,
		gallery:   gallery,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		logger:    log.Named("OfferUsecase"),
	}
}

// Publish stores the offer first so its id can name the image folder, then
// uploads the images and saves them as a second write. If an upload fails the
// offer and whatever reached the folder are removed again.
func (uc *OfferUsecase) Publish(ctx context.Context, ownerID string, in domain.OfferInput, files []domain.ImageFile) (*domain.Offer, error) {
	ctx, span := tracer.Start(ctx, "OfferUsecase.Publish")
	defer span.End()

	price, attrs, err := in.Validate()
	if err != nil {
		uc.logger.Warn("Offer rejected", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.MissingField("picture")
	}

	now := time.Now().UTC()
	offer := &domain.Offer{
		Title:       in.Title,
		Description: in.Description,
		Price:       price,
		Attributes:  attrs,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.offers.Create(ctx, offer); err != nil {
		uc.logger.Error("Failed to create offer", zap.String("owner_id", ownerID), zap.Error(err))
		span.RecordError(err)
		return nil, domain.Dependency("offers.create", err)
	}
	span.SetAttributes(attribute.String("offer.id", offer.ID))
	log := uc.logger.With(zap.String("offer_id", offer.ID))

	// Not transactional: a crash before the rollback below leaves the record
	// and a partial offers/{id} folder behind.
	if err := uc.gallery.Attach(ctx, offer, files); err != nil {
		span.RecordError(err)
		uc.gallery.Purge(ctx, offer)
		if delErr := uc.offers.Delete(ctx, offer.ID); delErr != nil {
			log.Error("Failed to roll back offer after upload failure", zap.Error(delErr))
		}
		return nil, err
	}

	if err := uc.offers.Save(ctx, offer); err != nil {
		log.Error("Failed to save offer images", zap.Int("images", len(offer.Images)), zap.Error(err))
		span.RecordError(err)
		return nil, domain.Dependency("offers.save", err)
	}

	log.Info("Offer published", zap.Int("images", len(offer.Images)))
	publishEvent(ctx, uc.publisher, log, domain.SubjectOfferPublished, domain.OfferEvent{
		OfferID: offer.ID,
		OwnerID: offer.OwnerID,
		Title:   offer.Title,
		Price:   offer.Price,
		Images:  len(offer.Images),
	})
	if uc.metrics != nil {
		uc.metrics.OffersPublishedTotal.Inc()
	}
	return offer, nil
}

// Update replaces every editable field and the whole image set. Offers not
// owned by requesterID are reported as not found.
func (uc *OfferUsecase) Update(ctx context.Context, offerID, requesterID string, in domain.OfferInput, files []domain.ImageFile) (*domain.Offer, error) {
	ctx, span := tracer.Start(ctx, "OfferUsecase.Update")
	defer span.End()
	span.SetAttributes(attribute.String("offer.id", offerID))
	log := uc.logger.With(zap.String("offer_id", offerID), zap.String("requester_id", requesterID))

	offer, err := uc.findOwned(ctx, offerID, requesterID, log)
	if err != nil {
		return nil, err
	}

	price, attrs, err := in.Validate()
	if err != nil {
		log.Warn("Offer update rejected", zap.Error(err))
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.MissingField("picture")
	}

	offer.Title = in.Title
	offer.Description = in.Description
	offer.Price = price
	offer.Attributes = attrs
	offer.UpdatedAt = time.Now().UTC()

	// Invalidated again after Save; a reader that loaded the old record in
	// between is stopped by the UpdatedAt check in CatalogUsecase.GetByID.
	uc.invalidate(ctx, offerID, log)
	if err := uc.gallery.ReplaceImages(ctx, offer, files); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := uc.offers.Save(ctx, offer); err != nil {
		if errors.Is(err, domain.ErrOfferNotFound) {
			return nil, err
		}
		log.Error("Failed to save updated offer", zap.Error(err))
		span.RecordError(err)
		return nil, domain.Dependency("offers.save", err)
	}

	uc.invalidate(ctx, offerID, log)
	log.Info("Offer updated", zap.Int("images", len(offer.Images)))
	publishEvent(ctx, uc.publisher, log, domain.SubjectOfferUpdated, domain.OfferEvent{
		OfferID: offer.ID,
		OwnerID: offer.OwnerID,
		Title:   offer.Title,
		Price:   offer.Price,
		Images:  len(offer.Images),
	})
	if uc.metrics != nil {
		uc.metrics.OffersUpdatedTotal.Inc()
	}
	return offer, nil
}

// Remove deletes the images, the folder and then the record. Image cleanup
// failures do not keep the record alive.
func (uc *OfferUsecase) Remove(ctx context.Context, offerID, requesterID string) error {
	ctx, span := tracer.Start(ctx, "OfferUsecase.Remove")
	defer span.End()
	span.SetAttributes(attribute.String("offer.id", offerID))
	log := uc.logger.With(zap.String("offer_id", offerID), zap.String("requester_id", requesterID))

	offer, err := uc.findOwned(ctx, offerID, requesterID, log)
	if err != nil {
		return err
	}

	if errs := uc.gallery.Purge(ctx, offer); len(errs) > 0 {
		log.Warn("Offer images partially left behind", zap.Int("failed_steps", len(errs)))
	}

	if err := uc.offers.Delete(ctx, offer.ID); err != nil {
		if errors.Is(err, domain.ErrOfferNotFound) {
			return err
		}
		log.Error("Failed to delete offer", zap.Error(err))
		span.RecordError(err)
		return domain.Dependency("offers.delete", err)
	}

	uc.invalidate(ctx, offerID, log)
	log.Info("Offer removed")
	publishEvent(ctx, uc.publisher, log, domain.SubjectOfferRemoved, domain.OfferEvent{
		OfferID: offer.ID,
		OwnerID: offer.OwnerID,
	})
	if uc.metrics != nil {
		uc.metrics.OffersRemovedTotal.Inc()
	}
	return nil
}

func (uc *OfferUsecase) findOwned(ctx context.Context, offerID, requesterID string, log *logger.Logger) (*domain.Offer, error) {
	offer, err := uc.offers.FindOwned(ctx, offerID, requesterID)
	if err != nil {
		if errors.Is(err, domain.ErrOfferNotFound) {
			log.Warn("Offer not found for requester")
			return nil, err
		}
		log.Error("Failed to load offer", zap.Error(err))
		return nil, domain.Dependency("offers.find_owned", err)
	}
	return offer, nil
}

func (uc *OfferUsecase) invalidate(ctx context.Context, offerID string, log *logger.Logger) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, offerCacheKey(offerID)); err != nil {
		log.Warn("Failed to invalidate cached offer", zap.Error(err))
	}
}
