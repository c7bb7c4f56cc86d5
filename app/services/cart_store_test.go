package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, price string) models.ProductData {
	return models.ProductData{
		ID:     id,
		Name:   "Item " + id,
		Price:  decimal.RequireFromString(price),
		Images: []string{"img/" + id + ".png"},
	}
}

func newLocalStore(t *testing.T) (*CartStore, repositories.KeyValueStore) {
	t.Helper()
	kv := repositories.NewMemoryStore()
	store := NewCartStore(repositories.NewCartRepository(kv), nil, testLogger())
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store, kv
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestCartStore_AddItemNewAndExisting(t *testing.T) {
	store, _ := newLocalStore(t)
	ctx := context.Background()

	p := product("p1", "200")
	p.Discount = decimal.NewFromInt(10)
	store.AddItem(ctx, p)

	items := store.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assertDecimal(t, "180", items[0].Price)
	assertDecimal(t, "200", items[0].OriginalPrice)
	assertDecimal(t, "10", items[0].DiscountPercent)
	assert.Equal(t, "Item p1", items[0].Name)
	assert.Equal(t, "img/p1.png", items[0].Image)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "p1", items[0].Product.ID)

	changed := product("p1", "999")
	store.AddItem(ctx, changed)

	items = store.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assertDecimal(t, "180", items[0].Price)
}

func TestCartStore_AddItemDefaults(t *testing.T) {
	store, _ := newLocalStore(t)

	store.AddItem(context.Background(), models.ProductData{ID: "bare", Price: decimal.NewFromInt(5)})

	items := store.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, models.DefaultProductName, items[0].Name)
	assert.Equal(t, models.DefaultProductImage, items[0].Image)
}

func TestCartStore_AddItemWithoutIDIsIgnored(t *testing.T) {
	store, kv := newLocalStore(t)
	items, cancel := store.SubscribeItems()
	defer cancel()
	<-items

	store.AddItem(context.Background(), models.ProductData{Name: "ghost", Price: decimal.NewFromInt(1)})

	assert.Empty(t, store.Snapshot())
	select {
	case got := <-items:
		t.Fatalf("unexpected publish: %v", got)
	default:
	}
	_, err := kv.Get(context.Background(), repositories.CartItemsKey)
	assert.ErrorIs(t, err, repositories.ErrKeyNotFound)
}

func TestCartStore_UpdateQuantity(t *testing.T) {
	store, _ := newLocalStore(t)
	ctx := context.Background()
	store.AddItem(ctx, product("p1", "10"))

	store.UpdateQuantity(ctx, "p1", 0)
	store.UpdateQuantity(ctx, "p1", -3)
	store.UpdateQuantity(ctx, "", 4)
	store.UpdateQuantity(ctx, "missing", 4)
	assert.Equal(t, 1, store.Snapshot()[0].Quantity)
	assert.False(t, store.IsInCart("missing"))

	store.UpdateQuantity(ctx, "p1", 7)
	assert.Equal(t, 7, store.Snapshot()[0].Quantity)
	assert.Equal(t, 7, store.Summary().ItemCount)
}

func TestCartStore_RemoveAndClear(t *testing.T) {
	store, _ := newLocalStore(t)
	ctx := context.Background()
	store.AddItem(ctx, product("a", "1"))
	store.AddItem(ctx, product("b", "2"))
	store.AddItem(ctx, product("c", "3"))

	store.RemoveItem(ctx, "b")
	store.RemoveItem(ctx, "nope")
	items := store.Snapshot()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ProductID)
	assert.Equal(t, "c", items[1].ProductID)
	assert.True(t, store.IsInCart("a"))
	assert.False(t, store.IsInCart("b"))

	store.Clear(ctx)
	assert.Empty(t, store.Snapshot())
	summary := store.Summary()
	assertDecimal(t, "0", summary.Total)
	assert.Equal(t, 0, summary.ItemCount)
}

func TestCartStore_SummaryExamples(t *testing.T) {
	store, _ := newLocalStore(t)
	ctx := context.Background()

	store.AddItem(ctx, product("p1", "300"))
	store.AddItem(ctx, product("p1", "300"))
	store.AddItem(ctx, product("p2", "500"))

	summary := store.Summary()
	assertDecimal(t, "1100", summary.Subtotal)
	assertDecimal(t, "110", summary.Tax)
	assertDecimal(t, "0", summary.Shipping)
	assertDecimal(t, "1210", summary.Total)
	assert.Equal(t, 3, summary.ItemCount)

	store.Clear(ctx)
	store.AddItem(ctx, product("p3", "200"))

	summary = store.Summary()
	assertDecimal(t, "200", summary.Subtotal)
	assertDecimal(t, "20", summary.Tax)
	assertDecimal(t, "49", summary.Shipping)
	assertDecimal(t, "269", summary.Total)
}

func TestCartStore_SnapshotIsACopy(t *testing.T) {
	store, _ := newLocalStore(t)
	store.AddItem(context.Background(), product("p1", "10"))

	snap := store.Snapshot()
	snap[0].Quantity = 99

	assert.Equal(t, 1, store.Snapshot()[0].Quantity)
}

func TestCartStore_SnapshotDoesNotShareEmbeddedProduct(t *testing.T) {
	store, kv := newLocalStore(t)
	ctx := context.Background()
	input := product("p1", "10")
	store.AddItem(ctx, input)

	input.Images[0] = "changed-by-caller.png"
	snap := store.Snapshot()
	snap[0].Product.Name = "Renamed"
	snap[0].Product.Images[0] = "other.png"

	items, cancel := store.SubscribeItems()
	published := <-items
	cancel()
	published[0].Product.Name = "Renamed by subscriber"

	store.AddItem(ctx, product("p2", "10"))

	current := store.Snapshot()
	assert.Equal(t, "Item p1", current[0].Product.Name)
	assert.Equal(t, []string{"img/p1.png"}, current[0].Product.Images)

	stored, err := repositories.NewCartRepository(kv).LoadItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Item p1", stored[0].Product.Name)
	assert.Equal(t, []string{"img/p1.png"}, stored[0].Product.Images)
}

func TestCartStore_SubscribersReplayLatestInOrder(t *testing.T) {
	store, _ := newLocalStore(t)
	ctx := context.Background()
	store.AddItem(ctx, product("p1", "10"))

	items, cancelItems := store.SubscribeItems()
	defer cancelItems()
	summaries, cancelSummary := store.SubscribeSummary()
	defer cancelSummary()

	first := <-items
	require.Len(t, first, 1)
	assert.Equal(t, 1, (<-summaries).ItemCount)

	store.AddItem(ctx, product("p2", "10"))
	assert.Len(t, <-items, 2)
	assert.Equal(t, 2, (<-summaries).ItemCount)

	// a reader that falls behind only sees the newest state
	store.AddItem(ctx, product("p3", "10"))
	store.AddItem(ctx, product("p4", "10"))
	assert.Len(t, <-items, 4)
	assert.Equal(t, 4, (<-summaries).ItemCount)
}

func TestCartStore_PersistsEveryMutation(t *testing.T) {
	store, kv := newLocalStore(t)
	ctx := context.Background()
	repo := repositories.NewCartRepository(kv)

	store.AddItem(ctx, product("p1", "10"))
	store.UpdateQuantity(ctx, "p1", 3)

	saved, err := repo.LoadItems(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, 3, saved[0].Quantity)

	store.Clear(ctx)
	saved, err = repo.LoadItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestCartStore_PersistenceFailureIsSwallowed(t *testing.T) {
	store := NewCartStore(repositories.NewCartRepository(failingStore{}), nil, testLogger())
	defer store.Close(context.Background())

	store.AddItem(context.Background(), product("p1", "10"))
	store.Restore(context.Background())

	assert.Empty(t, store.Snapshot(), "restore after failing load starts empty")
}

func TestCartStore_RestoreLocal(t *testing.T) {
	ctx := context.Background()
	kv := repositories.NewMemoryStore()
	writer := NewCartStore(repositories.NewCartRepository(kv), nil, testLogger())
	writer.AddItem(ctx, product("p1", "600"))
	writer.AddItem(ctx, product("p2", "500"))
	require.NoError(t, writer.Close(ctx))

	store := NewCartStore(repositories.NewCartRepository(kv), nil, testLogger())
	defer store.Close(ctx)
	store.Restore(ctx)

	assert.Len(t, store.Snapshot(), 2)
	assertDecimal(t, "1210", store.Summary().Total)
}

func TestCartStore_RestoreMalformedStartsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := repositories.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, repositories.CartItemsKey, "{not json"))

	store := NewCartStore(repositories.NewCartRepository(kv), nil, testLogger())
	defer store.Close(ctx)
	store.Restore(ctx)

	assert.Empty(t, store.Snapshot())
	assert.Equal(t, 0, store.Summary().ItemCount)
}

func TestCartStore_RestoreRemoteOverwritesLocal(t *testing.T) {
	ctx := context.Background()
	kv := repositories.NewMemoryStore()
	repo := repositories.NewCartRepository(kv)
	require.NoError(t, repo.SaveItems(ctx, []models.LineItem{{ProductID: "local", Quantity: 1, Price: decimal.NewFromInt(1)}}))

	remoteItems := []models.LineItem{{ProductID: "remote", Quantity: 2, Price: decimal.NewFromInt(100)}}
	api := &fakeCartAPI{fetchPayload: &models.CartPayload{
		Items:   remoteItems,
		Summary: &models.PricingSummary{Total: decimal.NewFromInt(12345)},
	}}

	store := NewCartStore(repo, api, testLogger())
	defer store.Close(ctx)
	store.Restore(ctx)

	items := store.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, "remote", items[0].ProductID)
	assertDecimal(t, "269", store.Summary().Total)

	saved, err := repo.LoadItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, "remote", saved[0].ProductID)
}

func TestCartStore_RestoreRemoteFailureOrEmptyKeepsLocal(t *testing.T) {
	ctx := context.Background()
	local := []models.LineItem{{ProductID: "local", Quantity: 1, Price: decimal.NewFromInt(1)}}

	cases := map[string]*fakeCartAPI{
		"error":        {fetchErr: errors.New("offline")},
		"empty":        {fetchPayload: &models.CartPayload{Items: []models.LineItem{}}},
		"nil payload":  {},
		"invalid list": {fetchPayload: &models.CartPayload{Items: []models.LineItem{{ProductID: "x", Quantity: 0}}}},
	}

	for name, api := range cases {
		t.Run(name, func(t *testing.T) {
			repo := repositories.NewCartRepository(repositories.NewMemoryStore())
			require.NoError(t, repo.SaveItems(ctx, local))

			store := NewCartStore(repo, api, testLogger())
			defer store.Close(ctx)
			store.Restore(ctx)

			items := store.Snapshot()
			require.Len(t, items, 1)
			assert.Equal(t, "local", items[0].ProductID)
		})
	}
}

func TestCartStore_MirrorsLatestStateRemotely(t *testing.T) {
	ctx := context.Background()
	api := &fakeCartAPI{pushErr: errors.New("remote rejected")}
	store := NewCartStore(repositories.NewCartRepository(repositories.NewMemoryStore()), api, testLogger())

	store.AddItem(ctx, product("p1", "10"))
	store.AddItem(ctx, product("p2", "20"))
	store.UpdateQuantity(ctx, "p2", 3)

	closeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, store.Close(closeCtx))

	pushes := api.Pushes()
	require.NotEmpty(t, pushes)
	last := pushes[len(pushes)-1]
	require.Len(t, last.Items, 2)
	assert.Equal(t, 3, last.Items[1].Quantity)
	require.NotNil(t, last.Summary)
	assertDecimal(t, "70", last.Summary.Subtotal)

	// the rejected push never touches local state
	assert.Len(t, store.Snapshot(), 2)
}
