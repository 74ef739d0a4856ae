package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const accountCollectionName = "users"

type AccountRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewAccountRepository ensures the unique email index and the token lookup
// index. Index creation failures are logged, not fatal.
func NewAccountRepository(db *mongo.Database, log *logger.Logger) *AccountRepository {
	collection := db.Collection(accountCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "token", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for users collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for users collection")
	}

	return &AccountRepository{
		collection: collection,
		logger:     log.Named("AccountRepository"),
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	doc, err := fromDomainAccount(account)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate email on account creation")
			return domain.ErrDuplicateEmail
		}
		r.logger.Error("Failed to insert account", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	account.ID = doc.ID.Hex()
	r.logger.Debug("Account created", zap.String("account_id", account.ID))
	return nil
}

func (r *AccountRepository) SetAvatar(ctx context.Context, accountID string, avatar domain.Image) error {
	id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	update := bson.M{"$set": bson.M{"account.avatar": toImageDocument(&avatar)}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.logger.Error("Failed to set avatar", zap.String("account_id", accountID), zap.Error(err))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindByToken(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		r.logger.Error("Failed to find account", zap.Error(err))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// FindProfiles loads only the public part of each account. Unknown or
// malformed ids are absent from the result.
func (r *AccountRepository) FindProfiles(ctx context.Context, ids []string) (map[string]domain.PublicProfile, error) {
	profiles := make(map[string]domain.PublicProfile, len(ids))
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if objID, err := primitive.ObjectIDFromHex(id); err == nil {
			objIDs = append(objIDs, objID)
		}
	}
	if len(objIDs) == 0 {
		return profiles, nil
	}

	opts := options.Find().SetProjection(bson.M{"account": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}}, opts)
	if err != nil {
		r.logger.Error("Failed to load owner profiles", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []accountDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode owner profiles: %w", err)
	}
	for _, d := range docs {
		profiles[d.ID.Hex()] = domain.PublicProfile{
			ID:       d.ID.Hex(),
			Username: d.Account.Username,
			Avatar:   d.Account.Avatar.toDomain(),
		}
	}
	return profiles, nil
}
