package usecase

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"go.uber.org/zap"
)

// Gallery keeps an offer's Images field and its remote folder in step.
// Every mutation replaces the whole set.
type Gallery struct {
	images  domain.ImageStore
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

func NewGallery(images domain.ImageStore, m *metrics.MetricsManager, log *logger.Logger) *Gallery {
	return &Gallery{images: images, metrics: m, logger: log.Named("Gallery")}
}

// Attach uploads files in order to the offer's folder and appends each result
// to offer.Images. On failure, images uploaded so far stay in offer.Images.
func (g *Gallery) Attach(ctx context.Context, offer *domain.Offer, files []domain.ImageFile) error {
	folder := domain.OfferFolder(offer.ID)
	for i, f := range files {
		img, err := g.images.Upload(ctx, folder, f)
		if err != nil {
			g.logger.Error("Image upload failed",
				zap.String("offer_id", offer.ID),
				zap.Int("index", i),
				zap.Error(err),
			)
			return domain.Dependency("images.upload", err)
		}
		offer.Images = append(offer.Images, img)
	}
	return nil
}

// ReplaceImages empties the offer's folder, then uploads files from scratch.
func (g *Gallery) ReplaceImages(ctx context.Context, offer *domain.Offer, files []domain.ImageFile) error {
	folder := domain.OfferFolder(offer.ID)
	if err := g.images.DeleteByPrefix(ctx, folder); err != nil {
		g.logger.Error("Failed to clear image folder", zap.String("folder", folder), zap.Error(err))
		return domain.Dependency("images.delete_by_prefix", err)
	}
	offer.Images = nil
	return g.Attach(ctx, offer, files)
}

// Purge removes each image by id and then the folder. Failures are logged
// and counted; the caller carries on regardless.
func (g *Gallery) Purge(ctx context.Context, offer *domain.Offer) []error {
	ids := make([]string, len(offer.Images))
	for i, img := range offer.Images {
		ids[i] = img.RemoteID
	}
	folder := domain.OfferFolder(offer.ID)

	return g.cleanupSequence(ctx, offer.ID,
		cleanupStep{"delete_images", func(ctx context.Context) error {
			if len(ids) == 0 {
				return nil
			}
			return g.images.DeleteByIDs(ctx, ids)
		}},
		cleanupStep{"delete_folder", func(ctx context.Context) error {
			return g.images.DeleteByPrefix(ctx, folder)
		}},
	)
}

type cleanupStep struct {
	name string
	run  func(ctx context.Context) error
}

// cleanupSequence runs every step in order even when earlier ones fail.
func (g *Gallery) cleanupSequence(ctx context.Context, offerID string, steps ...cleanupStep) []error {
	var errs []error
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			g.logger.Warn("Cleanup step failed",
				zap.String("offer_id", offerID),
				zap.String("step", step.name),
				zap.Error(err),
			)
			if g.metrics != nil {
				g.metrics.ImageCleanupFailureTotal.Inc()
			}
			errs = append(errs, domain.Dependency("cleanup."+step.name, err))
		}
	}
	return errs
}
