package app

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/email"
	natsadapter "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/repository/cache"
	repomemory "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/repository/memory"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/repository/mongodb"
	storagememory "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/storage/memory"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"

	ImagesMinIO = "minio"
	ImagesAWS   = "aws"
)

// backends are the collaborators behind the usecases. cache, publisher and
// mailer may be nil.
type backends struct {
	accounts  domain.AccountRepository
	offers    domain.OfferRepository
	images    domain.ImageStore
	cache     domain.ViewCache
	publisher domain.EventPublisher
	mailer    domain.Mailer
	closers   []closer
}

type closer struct {
	name  string
	close func(ctx context.Context) error
}

func newBackends(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backends, error) {
	var (
		b   *backends
		err error
	)
	switch cfg.Storage.Driver {
	case DriverMemory:
		b = newMemoryBackends(log)
	case DriverMongo, "":
		b, err = newRemoteBackends(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	if m := email.NewWelcomeMailer(cfg.SMTP, log); m != nil {
		b.mailer = m
	}
	return b, nil
}

func newMemoryBackends(log *logger.Logger) *backends {
	log.Warn("Using in-memory storage; data is lost on restart")
	return &backends{
		accounts: repomemory.NewAccountRepository(),
		offers:   repomemory.NewOfferRepository(),
		images:   storagememory.NewImageStore("memory://images"),
	}
}

// newRemoteBackends connects Mongo and MinIO, which are required, and Redis
// and NATS, which are optional: when they are unreachable the service runs
// without view cache or events.
func newRemoteBackends(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backends, error) {
	b := &backends{}

	mongoClient, err := mongodb.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	b.closers = append(b.closers, closer{name: "mongodb", close: mongoClient.Disconnect})
	log.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	db := mongoClient.Database(cfg.Mongo.Database)
	b.accounts = mongodb.NewAccountRepository(db, log)
	b.offers = mongodb.NewOfferRepository(db, log)

	images, err := newImageStore(ctx, cfg, log)
	if err != nil {
		b.close(context.Background(), log)
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}
	b.images = images

	redisClient, err := cache.NewRedisClient(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, offer cache disabled", zap.Error(err))
	} else {
		b.cache = cache.NewRedisViewCache(redisClient, log)
		b.closers = append(b.closers, closer{name: "redis", close: func(context.Context) error {
			return redisClient.Close()
		}})
	}

	publisher, err := natsadapter.NewNATSPublisher(&cfg.NATS, cfg.Tracing.ServiceName, log)
	if err != nil {
		log.Warn("NATS unavailable, events disabled", zap.Error(err))
	} else {
		b.publisher = publisher
		b.closers = append(b.closers, closer{name: "nats", close: func(context.Context) error {
			publisher.Close()
			return nil
		}})
	}

	return b, nil
}

func newImageStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (domain.ImageStore, error) {
	switch cfg.Storage.Images {
	case ImagesMinIO, "":
		return s3.NewMinioImageStore(ctx, &cfg.MinIO, log)
	case ImagesAWS:
		return s3.NewAWSImageStore(ctx, &cfg.MinIO, log)
	default:
		return nil, fmt.Errorf("unknown image store %q", cfg.Storage.Images)
	}
}

// close releases connections in reverse order of opening.
func (b *backends) close(ctx context.Context, log *logger.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		c := b.closers[i]
		if err := c.close(ctx); err != nil {
			log.Error("Error closing connection", zap.String("backend", c.name), zap.Error(err))
			continue
		}
		log.Info("Connection closed", zap.String("backend", c.name))
	}
}
