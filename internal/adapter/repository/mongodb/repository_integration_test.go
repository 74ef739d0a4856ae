//go:build integration

package mongodb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testDB *mongo.Database

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	_ = resource.Expire(120)

	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))
	var client *mongo.Client
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return client.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}
	testDB = client.Database("marketplace_test")

	code := m.Run()

	_ = client.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func freshDB(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, testDB.Collection(accountCollectionName).Drop(ctx))
	require.NoError(t, testDB.Collection(offerCollectionName).Drop(ctx))
	return testDB
}

func TestAccountRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(freshDB(t), logger.NewNop())

	acc := &domain.Account{Email: "ann@example.com", Username: "ann", PasswordHash: "h", PasswordSalt: "s", Token: "tok", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, acc))
	require.NotEmpty(t, acc.ID)

	dup := &domain.Account{Email: "ann@example.com", Username: "other", Token: "tok2"}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicateEmail)

	require.NoError(t, repo.SetAvatar(ctx, acc.ID, domain.Image{RemoteID: "users/1/a.png", URL: "http://x/a.png"}))

	byToken, err := repo.FindByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byToken.ID)
	require.NotNil(t, byToken.Avatar)
	assert.Equal(t, "users/1/a.png", byToken.Avatar.RemoteID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	profiles, err := repo.FindProfiles(ctx, []string{acc.ID, "bogus"})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "ann", profiles[acc.ID].Username)
}

func TestOfferRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewOfferRepository(freshDB(t), logger.NewNop())
	owner := primitive.NewObjectID().Hex()
	stranger := primitive.NewObjectID().Hex()

	for i, p := range []int{30, 10, 20, 10, 50} {
		o := &domain.Offer{Title: fmt.Sprintf("Blue shirt %d", i), Price: p, OwnerID: owner}
		require.NoError(t, repo.Create(ctx, o))
	}
	other := &domain.Offer{Title: "Red (cap)", Price: 15, OwnerID: owner}
	require.NoError(t, repo.Create(ctx, other))

	q := domain.OfferQuery{TitleContains: "SHIRT", PriceMin: 10, PriceMax: 30, Sort: domain.SortPriceAsc, Limit: 2}
	page1, count, err := repo.Search(ctx, q)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)
	require.Len(t, page1, 2)

	q.Skip = 2
	page2, _, err := repo.Search(ctx, q)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.NotEqual(t, page1[1].ID, page2[0].ID)
	assert.LessOrEqual(t, page1[1].Price, page2[0].Price)

	literal, count, err := repo.Search(ctx, domain.OfferQuery{TitleContains: "(cap", PriceMax: domain.MaxPrice, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, other.ID, literal[0].ID)

	_, err = repo.FindOwned(ctx, other.ID, stranger)
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)

	require.NoError(t, repo.Delete(ctx, other.ID))
	_, err = repo.FindByID(ctx, other.ID)
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)
}
