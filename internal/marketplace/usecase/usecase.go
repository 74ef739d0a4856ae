// Package usecase implements the account directory, the listing repository
// and the catalog query engine on top of the domain ports.
package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("marketplace-service/usecase")

const defaultOfferCacheTTL = 5 * time.Minute

func offerCacheKey(offerID string) string {
	return "offer:" + offerID
}

// CredentialEngine derives and checks password digests and issues tokens.
type CredentialEngine interface {
	Derive(password string) (hash, salt string, err error)
	Verify(password, salt, expectedHash string) bool
	IssueToken() (string, error)
}

// publishEvent is fire-and-forget: a lost event never fails the request.
func publishEvent(ctx context.Context, pub domain.EventPublisher, log *logger.Logger, subject string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, subject, payload); err != nil {
		log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
