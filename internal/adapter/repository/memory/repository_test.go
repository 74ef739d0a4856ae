package memory

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	a := &domain.Account{Email: "ann@example.com", Username: "ann", Token: "t1"}
	require.NoError(t, repo.Create(ctx, a))
	assert.NotEmpty(t, a.ID)

	err := repo.Create(ctx, &domain.Account{Email: "ann@example.com", Username: "bob"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	found, err := repo.FindByToken(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	_, err = repo.FindByToken(ctx, "")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	a := &domain.Account{Email: "a@b.c", Username: "ann"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.SetAvatar(ctx, a.ID, domain.Image{RemoteID: "r", URL: "u"}))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	got.Avatar.URL = "changed"

	again, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "u", again.Avatar.URL)
}

func TestOfferRepository_SearchPagesAreDisjoint(t *testing.T) {
	ctx := context.Background()
	repo := NewOfferRepository()
	for i, p := range []int{40, 10, 30, 10, 20, 10, 90} {
		require.NoError(t, repo.Create(ctx, &domain.Offer{Title: fmt.Sprintf("Item %d", i), Price: p, OwnerID: "o"}))
	}

	q := domain.OfferQuery{PriceMin: 0, PriceMax: 50, Sort: domain.SortPriceAsc, Limit: 2}
	seen := map[string]bool{}
	var prices []int
	var total int64
	for page := int64(0); ; page++ {
		q.Skip = page * q.Limit
		offers, count, err := repo.Search(ctx, q)
		require.NoError(t, err)
		total = count
		if len(offers) == 0 {
			break
		}
		for _, o := range offers {
			assert.False(t, seen[o.ID], "offer %s on two pages", o.ID)
			seen[o.ID] = true
			prices = append(prices, o.Price)
		}
	}
	assert.EqualValues(t, 6, total)
	assert.Len(t, seen, 6)
	assert.IsNonDecreasing(t, prices)
}

func TestOfferRepository_SearchOutOfRangeWindow(t *testing.T) {
	ctx := context.Background()
	repo := NewOfferRepository()
	for _, p := range []int{10, 20, 30} {
		require.NoError(t, repo.Create(ctx, &domain.Offer{Title: "Item", Price: p, OwnerID: "o"}))
	}

	cases := []struct {
		name string
		skip int64
		lim  int64
		want int
	}{
		{"negative skip", math.MinInt64 + 2, 2, 2},
		{"skip past the end", math.MaxInt64 - 1, 2, 0},
		{"huge limit", 1, math.MaxInt64, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offers, count, err := repo.Search(ctx, domain.OfferQuery{PriceMax: 100, Skip: tc.skip, Limit: tc.lim})
			require.NoError(t, err)
			assert.EqualValues(t, 3, count)
			assert.Len(t, offers, tc.want)
		})
	}
}

func TestOfferRepository_SearchTitleAndBounds(t *testing.T) {
	ctx := context.Background()
	repo := NewOfferRepository()
	require.NoError(t, repo.Create(ctx, &domain.Offer{Title: "Blue Jacket", Price: 1, OwnerID: "o"}))
	require.NoError(t, repo.Create(ctx, &domain.Offer{Title: "jacket.v2", Price: 100000, OwnerID: "o"}))
	require.NoError(t, repo.Create(ctx, &domain.Offer{Title: "Shoes", Price: 50, OwnerID: "o"}))

	offers, count, err := repo.Search(ctx, domain.OfferQuery{TitleContains: "JACKET", PriceMin: 1, PriceMax: 100000, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, offers, 2)

	_, count, err = repo.Search(ctx, domain.OfferQuery{TitleContains: ".", PriceMin: 0, PriceMax: 100000, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	offers, count, err = repo.Search(ctx, domain.OfferQuery{TitleContains: " ", PriceMin: 0, PriceMax: 100000, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "a blank title is a substring, not an absent filter")
	require.Len(t, offers, 1)
	assert.Equal(t, "Blue Jacket", offers[0].Title)

	offers, _, err = repo.Search(ctx, domain.OfferQuery{PriceMin: 2, PriceMax: 99999, Sort: domain.SortPriceDesc, Limit: 10})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Shoes", offers[0].Title)
}

func TestOfferRepository_FindOwned(t *testing.T) {
	ctx := context.Background()
	repo := NewOfferRepository()
	o := &domain.Offer{Title: "x", Price: 5, OwnerID: "alice"}
	require.NoError(t, repo.Create(ctx, o))

	_, err := repo.FindOwned(ctx, o.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)

	got, err := repo.FindOwned(ctx, o.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	require.NoError(t, repo.Delete(ctx, o.ID))
	assert.ErrorIs(t, repo.Delete(ctx, o.ID), domain.ErrOfferNotFound)
}
