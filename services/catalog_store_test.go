package services

import (
	"testing"

	"storefront/models"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartIsIdempotentAndFirstAddWins(t *testing.T) {
	store := NewCatalogStore("R$")

	first := models.Item{ID: 7, Title: "First", Price: price("10")}
	second := models.Item{ID: 7, Title: "Second", Price: price("99")}

	assert.True(t, store.AddToCart(first))
	assert.False(t, store.AddToCart(second))

	cart := store.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, first, cart[0])
}

func TestAddToCartPreservesFirstOccurrenceOrder(t *testing.T) {
	store := NewCatalogStore("R$")

	for _, id := range []int{3, 1, 2, 1, 3, 5} {
		store.AddToCart(models.Item{ID: id, Price: decimal.NewFromInt(int64(id))})
	}

	if diff := cmp.Diff([]int{3, 1, 2, 5}, ids(store.Cart())); diff != "" {
		t.Errorf("cart order mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectItemReplacesInsteadOfAccumulating(t *testing.T) {
	store := NewCatalogStore("R$")
	a := models.Item{ID: 1, Title: "A"}
	b := models.Item{ID: 2, Title: "B"}

	assert.Nil(t, store.Selection())

	store.SelectItem(&a)
	assert.Equal(t, &a, store.Selection())

	store.SelectItem(&b)
	assert.Equal(t, &b, store.Selection())

	store.SelectItem(nil)
	assert.Nil(t, store.Selection())
}

func TestSelectionIsCopied(t *testing.T) {
	store := NewCatalogStore("R$")
	item := models.Item{ID: 1, Title: "A"}
	store.SelectItem(&item)

	item.Title = "changed"
	got := store.Selection()
	got.Title = "also changed"

	assert.Equal(t, "A", store.Selection().Title)
}

func TestCartSummaryTotal(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		summary := NewCatalogStore("R$").CartSummary()
		assert.Equal(t, 0, summary.Count)
		assert.Equal(t, int64(0), summary.TotalCents)
		assert.Equal(t, "R$ 0.00", summary.TotalDisplay)
		assert.NotNil(t, summary.Items)
	})

	t.Run("order does not change the total", func(t *testing.T) {
		items := []models.Item{
			{ID: 1, Price: price("0.1")},
			{ID: 2, Price: price("0.2")},
			{ID: 3, Price: price("19.9")},
			{ID: 4, Price: price("4999")},
		}
		forward := NewCatalogStore("R$")
		backward := NewCatalogStore("R$")
		for i := range items {
			forward.AddToCart(items[i])
			backward.AddToCart(items[len(items)-1-i])
		}

		assert.Equal(t, forward.CartSummary().TotalCents, backward.CartSummary().TotalCents)
		assert.Equal(t, int64(501920), forward.CartSummary().TotalCents)
		assert.Equal(t, "R$ 5019.20", backward.CartSummary().TotalDisplay)
	})

	t.Run("each item is rounded to cents", func(t *testing.T) {
		summary := Summarize([]models.Item{
			{ID: 1, Price: price("1.005")},
			{ID: 2, Price: price("1.005")},
		}, "R$")
		assert.Equal(t, int64(202), summary.TotalCents)
		assert.Equal(t, "R$ 2.02", summary.TotalDisplay)
	})
}

func TestLocalAndRemoteItemsInOneCart(t *testing.T) {
	store := NewCatalogStore("R$")

	store.AddToCart(models.Item{ID: 1, Title: "Notebook Gamer X", Price: price("4999")})
	store.AddToCart(models.Item{ID: 101, Title: "Remote", Price: price("19.9")})

	summary := store.CartSummary()
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, []int{1, 101}, ids(summary.Items))
	assert.Equal(t, int64(501890), summary.TotalCents)
	assert.True(t, summary.Total.Equal(price("5018.90")), "total %s", summary.Total)
	assert.Equal(t, "R$ 5018.90", summary.TotalDisplay)
}

func TestSetName(t *testing.T) {
	store := NewCatalogStore("R$")
	store.SetName("Micael")
	assert.Equal(t, "Micael", store.Name())
	assert.Equal(t, "Micael", store.Snapshot().Name)
}

func TestSnapshotVersionCountsEffectiveMutations(t *testing.T) {
	store := NewCatalogStore("R$")
	assert.Equal(t, uint64(0), store.Snapshot().Version)

	store.AddToCart(models.Item{ID: 1})
	store.AddToCart(models.Item{ID: 1})
	store.SetName("x")

	assert.Equal(t, uint64(2), store.Snapshot().Version)
}

func TestSubscriptionSeesLatestSnapshot(t *testing.T) {
	store := NewCatalogStore("R$")
	store.SetName("before")

	sub := store.Subscribe("summary")
	defer sub.Close()
	assert.Equal(t, "before", sub.Snapshot().Name)
	assert.ElementsMatch(t, []string{"summary"}, store.Consumers())

	store.AddToCart(models.Item{ID: 1, Price: price("1")})
	store.AddToCart(models.Item{ID: 2, Price: price("2")})

	select {
	case _, ok := <-sub.Updates():
		require.True(t, ok)
	default:
		t.Fatal("expected a pending update")
	}
	// signals coalesce: two mutations leave one pending signal
	select {
	case <-sub.Updates():
		t.Fatal("expected updates to coalesce")
	default:
	}
	assert.Equal(t, []int{1, 2}, ids(sub.Snapshot().Cart))
}

func TestSubscriptionNotNotifiedForDuplicateAdd(t *testing.T) {
	store := NewCatalogStore("R$")
	store.AddToCart(models.Item{ID: 1})

	sub := store.Subscribe("cart")
	defer sub.Close()

	store.AddToCart(models.Item{ID: 1})
	select {
	case <-sub.Updates():
		t.Fatal("duplicate add must not notify")
	default:
	}
}

func TestSubscriptionClose(t *testing.T) {
	store := NewCatalogStore("R$")
	sub := store.Subscribe("grid")
	replaced := store.Subscribe("grid")

	_, ok := <-sub.Updates()
	assert.False(t, ok, "replaced subscription is closed")

	replaced.Close()
	_, ok = <-replaced.Updates()
	assert.False(t, ok)
	assert.Empty(t, store.Consumers())

	// mutations after close are fine
	store.SetName("after")
	replaced.Close()
}

func TestStoreCloseEndsSubscriptions(t *testing.T) {
	store := NewCatalogStore("R$")
	a := store.Subscribe("a")
	b := store.Subscribe("b")

	store.Close()

	_, okA := <-a.Updates()
	_, okB := <-b.Updates()
	assert.False(t, okA)
	assert.False(t, okB)
	assert.Empty(t, store.Consumers())
}
