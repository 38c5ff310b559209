package libs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `{
  "products": [
    {"id": 7, "title": "X", "description": "Y", "price": 19.9, "images": ["u1", "u2"]},
    {"id": 8, "title": "Z", "description": "W", "price": 5, "thumbnail": "t8", "images": ["i8"]},
    {"id": 9, "title": "N", "description": "", "price": 0}
  ],
  "total": 194, "skip": 0, "limit": 6
}`

func TestFetchPageMapsRecords(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	client := NewRemoteCatalogClient(srv.URL+"/products", 6, time.Second, false)
	items, err := client.FetchPage(context.Background(), "smartphone")
	require.NoError(t, err)

	assert.Equal(t, "/products", gotPath)
	assert.Equal(t, "limit=6", gotQuery, "the query is not sent unless forwarding is on")

	require.Len(t, items, 3)
	assert.Equal(t, 7, items[0].ID)
	assert.Equal(t, "X", items[0].Title)
	assert.Equal(t, "Y", items[0].Description)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("19.9")), "price %s", items[0].Price)
	assert.Equal(t, "5.00", items[1].Price.StringFixed(2))
	assert.Equal(t, "u1", items[0].Thumbnail)
	assert.Equal(t, "t8", items[1].Thumbnail)
	assert.Empty(t, items[2].Thumbnail)
}

func TestFetchPageForwardsQueryWhenEnabled(t *testing.T) {
	var gotPath, gotQ, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQ = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"products": []}`))
	}))
	defer srv.Close()

	client := NewRemoteCatalogClient(srv.URL+"/products/", 6, time.Second, true)

	items, err := client.FetchPage(context.Background(), " phone ")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.Equal(t, "/products/search", gotPath)
	assert.Equal(t, "phone", gotQ)
	assert.Equal(t, "6", gotLimit)

	_, err = client.FetchPage(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/products", gotPath, "an empty query reads the plain page")
}

func TestFetchPageMissingProductsIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": "nothing here"}`))
	}))
	defer srv.Close()

	items, err := NewRemoteCatalogClient(srv.URL, 6, time.Second, false).FetchPage(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetchPageErrorKinds(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewRemoteCatalogClient(srv.URL, 6, time.Second, false).FetchPage(context.Background(), "")
		require.Error(t, err)
		assert.Equal(t, FetchErrStatus, KindOf(err))
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("decode", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"products": [`))
		}))
		defer srv.Close()

		_, err := NewRemoteCatalogClient(srv.URL, 6, time.Second, false).FetchPage(context.Background(), "")
		assert.Equal(t, FetchErrDecode, KindOf(err))
	})

	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := NewRemoteCatalogClient(url, 6, time.Second, false).FetchPage(context.Background(), "")
		assert.Equal(t, FetchErrTransport, KindOf(err))
	})
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, FetchErrorKind(""), KindOf(context.Canceled))
	assert.Equal(t, FetchErrorKind(""), KindOf(nil))
}

func TestRequestURLAndCacheKey(t *testing.T) {
	inert := NewRemoteCatalogClient("https://dummyjson.com/products", 6, time.Second, false)
	assert.Equal(t, "https://dummyjson.com/products?limit=6", inert.RequestURL("laptop"))
	assert.Equal(t, "remote_catalog:l6", inert.CacheKey("laptop"))

	forwarding := NewRemoteCatalogClient("https://dummyjson.com/products", 6, time.Second, true)
	assert.Equal(t, "https://dummyjson.com/products/search?limit=6&q=laptop", forwarding.RequestURL("laptop"))
	assert.Equal(t, "remote_catalog:l6:qlaptop", forwarding.CacheKey("Laptop"))
}
