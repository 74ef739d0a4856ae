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
	"go.uber.org/zap"
)

const offerCollectionName = "offers"

type OfferRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewOfferRepository(db *mongo.Database, log *logger.Logger) *OfferRepository {
	collection := db.Collection(offerCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for offers collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for offers collection")
	}

	return &OfferRepository{
		collection: collection,
		logger:     log.Named("OfferRepository"),
	}
}

func (r *OfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	doc, err := fromDomainOffer(offer)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert offer", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	offer.ID = doc.ID.Hex()
	r.logger.Debug("Offer created", zap.String("offer_id", offer.ID))
	return nil
}

func (r *OfferRepository) Save(ctx context.Context, offer *domain.Offer) error {
	doc, err := fromDomainOffer(offer)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return errors.New("cannot save offer without ID")
	}

	update := bson.M{"$set": bson.M{
		"title":       doc.Title,
		"description": doc.Description,
		"price":       doc.Price,
		"attributes":  doc.Attributes,
		"images":      doc.Images,
		"updated_at":  doc.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update offer", zap.String("offer_id", offer.ID), zap.Error(err))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id string) (*domain.Offer, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOfferNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *OfferRepository) FindOwned(ctx context.Context, id, ownerID string) (*domain.Offer, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOfferNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrOfferNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objID, "owner_id": owner})
}

func (r *OfferRepository) findOne(ctx context.Context, filter bson.M) (*domain.Offer, error) {
	var doc offerDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOfferNotFound
		}
		r.logger.Error("Failed to find offer", zap.Error(err))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOfferNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		r.logger.Error("Failed to delete offer", zap.String("offer_id", id), zap.Error(err))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}

// Search returns one page of matches and the total number of matches.
func (r *OfferRepository) Search(ctx context.Context, q domain.OfferQuery) ([]*domain.Offer, int64, error) {
	filter := buildSearchFilter(q)

	cursor, err := r.collection.Find(ctx, filter, buildFindOptions(q))
	if err != nil {
		r.logger.Error("Failed to search offers", zap.Error(err))
		return nil, 0, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []offerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode offers: %w", err)
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count offers", zap.Error(err))
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}

	offers := make([]*domain.Offer, len(docs))
	for i := range docs {
		offers[i] = docs[i].toDomain()
	}
	return offers, count, nil
}
