package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestGetItem_Product(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/item/cat-bed", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type":"Product","id":"P1","name":"Cat Bed","slug":"cat-bed","price":840,"salePrice":700}`))
	})

	item, err := c.GetItem(context.Background(), "cat-bed")
	require.NoError(t, err)
	assert.Equal(t, "Product", item.Type)
	assert.Equal(t, "P1", item.ID)
	require.NotNil(t, item.SalePrice)
	assert.Equal(t, 700.0, *item.SalePrice)
}

func TestGetItem_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetItem(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsTransient(err))
}

func TestGetItem_ServerErrorIsTransient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetItem(context.Background(), "cat-bed")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestGetItem_NetworkErrorIsTransient(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond)

	_, err := c.GetItem(context.Background(), "cat-bed")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestGetProduct(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product/P1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"P1","name":"Cat Bed","price":840,"salePrice":700}`))
	})

	p, err := c.GetProduct(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "P1", p.ID)
	assert.Equal(t, 840.0, p.Price)
	require.NotNil(t, p.SalePrice)
	assert.Equal(t, 700.0, *p.SalePrice)
}

func TestGetProduct_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsTransient(err))
}

func TestListProducts_Envelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "B1", r.URL.Query().Get("brand"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"id":"P1","name":"A","price":10},{"id":"P2","name":"B","price":20}]}`))
	})

	query := url.Values{}
	query.Set("brand", "B1")
	products, err := c.ListProducts(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "P1", products[0].ID)
}

func TestListProducts_BareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"P1","name":"A","price":10}]`))
	})

	products, err := c.ListProducts(context.Background(), url.Values{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "P1", products[0].ID)
}

func TestListProducts_UnexpectedShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"unexpected":true}`))
	})

	_, err := c.ListProducts(context.Background(), url.Values{})
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestListPriorities_Envelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/p", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"PR1","targetType":"brand","targetId":"B1","displayName":"Acme","level":8}]}`))
	})

	entries, err := c.ListPriorities(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KindBrand, entries[0].TargetType)
	assert.Equal(t, 8, entries[0].Level)
}

func TestSubcategoriesOf_Path(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/category/C1/subcategories", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"S1","name":"Sensors","slug":"sensors","categoryId":"C1"}]`))
	})

	subs, err := c.SubcategoriesOf(context.Background(), "C1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "C1", subs[0].CategoryID)
}

func TestClampedLevel(t *testing.T) {
	assert.Equal(t, 10, PriorityEntry{Level: 99}.ClampedLevel())
	assert.Equal(t, 0, PriorityEntry{Level: -3}.ClampedLevel())
	assert.Equal(t, 5, PriorityEntry{Level: 5}.ClampedLevel())
}
