package mongodb

import (
	"regexp"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// buildSearchFilter matches the title as a literal, case-insensitive
// substring and the price inclusively on both ends.
func buildSearchFilter(q domain.OfferQuery) bson.M {
	filter := bson.M{
		"price": bson.M{"$gte": q.PriceMin, "$lte": q.PriceMax},
	}
	if q.TitleContains != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.TitleContains), Options: "i"}
	}
	return filter
}

// buildFindOptions always ends the sort on _id so that pages are disjoint
// when prices tie.
func buildFindOptions(q domain.OfferQuery) *options.FindOptions {
	var sort bson.D
	switch q.Sort {
	case domain.SortPriceAsc:
		sort = bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortPriceDesc:
		sort = bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	default:
		sort = bson.D{{Key: "_id", Value: 1}}
	}
	return options.Find().
		SetSort(sort).
		SetSkip(q.Skip).
		SetLimit(q.Limit)
}
