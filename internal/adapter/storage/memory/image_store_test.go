package memory

import (
	"context"
	"testing"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageStore_FolderLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewImageStore("http://images.local/")

	a, err := store.Upload(ctx, domain.OfferFolder("1"), domain.ImageFile{Name: "a.png", Data: []byte("a")})
	require.NoError(t, err)
	_, err = store.Upload(ctx, domain.OfferFolder("1"), domain.ImageFile{Name: "b.png", Data: []byte("b")})
	require.NoError(t, err)
	_, err = store.Upload(ctx, domain.OfferFolder("10"), domain.ImageFile{Name: "c.png", Data: []byte("c")})
	require.NoError(t, err)

	assert.Equal(t, "http://images.local/"+a.RemoteID, a.URL)
	assert.Len(t, store.Keys(domain.OfferFolder("1")), 2)

	require.NoError(t, store.DeleteByIDs(ctx, []string{a.RemoteID}))
	assert.Len(t, store.Keys(domain.OfferFolder("1")), 1)

	require.NoError(t, store.DeleteByPrefix(ctx, domain.OfferFolder("1")))
	assert.Empty(t, store.Keys(domain.OfferFolder("1")))
	assert.Len(t, store.Keys(domain.OfferFolder("10")), 1, "prefix must not match sibling folders")
}
