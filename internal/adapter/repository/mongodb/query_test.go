package mongodb

import (
	"regexp"
	"testing"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildSearchFilter(t *testing.T) {
	f := buildSearchFilter(domain.OfferQuery{TitleContains: "a.b(c", PriceMin: 10, PriceMax: 20})

	assert.Equal(t, bson.M{"$gte": 10, "$lte": 20}, f["price"])

	re, ok := f["title"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "i", re.Options)
	assert.Equal(t, regexp.QuoteMeta("a.b(c"), re.Pattern)

	compiled := regexp.MustCompile("(?i)" + re.Pattern)
	assert.True(t, compiled.MatchString("XA.B(Cx"))
	assert.False(t, compiled.MatchString("axb(c"))
}

func TestBuildSearchFilter_NoTitle(t *testing.T) {
	f := buildSearchFilter(domain.OfferQuery{PriceMin: 0, PriceMax: domain.MaxPrice})
	_, hasTitle := f["title"]
	assert.False(t, hasTitle)
}

func TestBuildFindOptions(t *testing.T) {
	cases := []struct {
		sort domain.SortOrder
		want bson.D
	}{
		{domain.SortNone, bson.D{{Key: "_id", Value: 1}}},
		{domain.SortPriceAsc, bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}},
		{domain.SortPriceDesc, bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}},
	}
	for _, tc := range cases {
		t.Run(string(tc.sort), func(t *testing.T) {
			opts := buildFindOptions(domain.OfferQuery{Sort: tc.sort, Skip: 4, Limit: 2})
			assert.Equal(t, tc.want, opts.Sort)
			require.NotNil(t, opts.Skip)
			require.NotNil(t, opts.Limit)
			assert.EqualValues(t, 4, *opts.Skip)
			assert.EqualValues(t, 2, *opts.Limit)
		})
	}
}

func TestOfferDocumentConversion(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	o := &domain.Offer{
		Title:      "Jacket",
		Price:      50,
		Attributes: []domain.Attribute{{Label: domain.AttrCondition, Value: "Good"}, {Label: domain.AttrColor, Value: "Blue"}},
		Images:     []domain.Image{{RemoteID: "offers/x/1.jpg", URL: "http://img/1.jpg"}},
		OwnerID:    owner,
	}
	doc, err := fromDomainOffer(o)
	require.NoError(t, err)
	assert.True(t, doc.ID.IsZero())
	assert.Equal(t, "condition", doc.Attributes[0].Label)

	back := doc.toDomain()
	assert.Equal(t, o.Attributes, back.Attributes)
	assert.Equal(t, o.Images, back.Images)
	assert.Equal(t, owner, back.OwnerID)

	o.OwnerID = "not-an-id"
	_, err = fromDomainOffer(o)
	assert.Error(t, err)
}

func TestAccountDocument_KeepsCredentialsOutOfProfile(t *testing.T) {
	a := &domain.Account{Email: "a@b.c", Username: "ann", PasswordHash: "h", PasswordSalt: "s", Token: "t"}
	doc, err := fromDomainAccount(a)
	require.NoError(t, err)
	assert.Equal(t, "ann", doc.Account.Username)
	assert.Nil(t, doc.Account.Avatar)

	raw, err := bson.Marshal(doc.Account)
	require.NoError(t, err)
	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.NotContains(t, m, "hash")
	assert.NotContains(t, m, "token")
}
