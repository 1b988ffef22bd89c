package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drstein77/inventory/internal/catalog"
	"github.com/drstein77/inventory/internal/compress"
	"github.com/drstein77/inventory/internal/models"
	"github.com/drstein77/inventory/internal/storage"
)

func newServer(t *testing.T, opts ...func(*BaseController)) (*httptest.Server, *storage.MemoryStorage) {
	t.Helper()
	st, err := storage.NewMemoryStorage(context.Background(), catalog.Sample(), nil, zap.NewNop())
	require.NoError(t, err)

	h := NewBaseController(st, zap.NewNop())
	for _, opt := range opts {
		opt(h)
	}
	srv := httptest.NewServer(h.Route())
	t.Cleanup(srv.Close)
	return srv, st
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestGetItems(t *testing.T) {
	srv, _ := newServer(t)

	var items []models.Item
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v0/items", &items))
	assert.Equal(t, catalog.Sample().Items(), items)

	items = nil
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v0/items?min_price=20", &items))
	require.Len(t, items, 2)
	assert.Equal(t, "T-Shirt", items[1].Name)

	items = nil
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v0/items?category=grocery", &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Vegetables", items[0].Name)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/v0/items?min_price=lots", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/v0/items?category=toys", nil))
}

func TestPostDiscount(t *testing.T) {
	srv, st := newServer(t)

	resp := postJSON(t, srv.URL+"/api/v0/discounts", `{"category":"Electronics","percentage":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.DiscountResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, models.DiscountResponse{Category: catalog.Electronics, Percentage: 10, Discounted: 1}, out)
	assert.InDelta(t, 1080.0, st.Items()[0].Price, 1e-9)

	for _, body := range []string{
		`{"category":"Electronics","percentage":101}`,
		`{"category":"Toys","percentage":5}`,
		`{"category":`,
		``,
		`{"percentage":50}`,
		`{"category":null,"percentage":50}`,
		`{"category":"Electronics"}`,
	} {
		resp := postJSON(t, srv.URL+"/api/v0/discounts", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
	assert.InDelta(t, 1080.0, st.Items()[0].Price, 1e-9)
}

func TestPostItem(t *testing.T) {
	srv, st := newServer(t)

	resp := postJSON(t, srv.URL+"/api/v0/items", `{"name":"Jacket","price":80,"category":"Clothing"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, st.Items(), 4)

	for _, body := range []string{
		`{"name":"Debt","price":-80,"category":"Clothing"}`,
		`{"name":"Bread","price":3}`,
		`{"name":"Bread","price":3,"category":null}`,
		`{"name":"Bread","category":"Grocery"}`,
		`{"price":3,"category":"Grocery"}`,
		`{"name":"Huge","price":1e999,"category":"Grocery"}`,
	} {
		resp = postJSON(t, srv.URL+"/api/v0/items", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
	assert.Len(t, st.Items(), 4)
	assert.Equal(t, catalog.Counts{catalog.Electronics: 1, catalog.Clothing: 2, catalog.Grocery: 1}, st.Counts())
}

func TestGetCountsLinesScaled(t *testing.T) {
	srv, _ := newServer(t)

	var counts map[string]int
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v0/categories/counts", &counts))
	assert.Equal(t, map[string]int{"Electronics": 1, "Clothing": 1, "Grocery": 1}, counts)

	var scaled []models.Item
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v0/items/scaled?factor=2", &scaled))
	assert.Equal(t, 2400.0, scaled[0].Price)
	for _, factor := range []string{"", "-1", "NaN", "Inf", "-Inf", "1e308"} {
		assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/v0/items/scaled?factor="+factor, nil), factor)
	}

	resp, err := http.Get(srv.URL + "/api/v0/items/lines")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Item: Laptop, Price: 1200, Category: Electronics\nItem: T-Shirt, Price: 60, Category: Clothing\nItem: Vegetables, Price: 10, Category: Grocery\n", string(body))
}

func TestExportImport(t *testing.T) {
	srv, st := newServer(t)

	for _, kind := range []string{compress.Zip, compress.Tar} {
		resp, err := http.Get(srv.URL + "/api/v0/items/export?archiveType=" + kind)
		require.NoError(t, err)
		archive, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, compress.ContentType(kind), resp.Header.Get("Content-Type"))

		items, err := compress.ReadItems(kind, bytes.NewReader(archive), 0)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	}

	var buf bytes.Buffer
	require.NoError(t, compress.WriteItems(compress.Tar, &buf, "new.csv",
		[]models.Item{{Name: "Lamp", Price: 30, Category: catalog.Electronics}}))

	resp, err := http.Post(srv.URL+"/api/v0/items/import?archiveType=tar", "application/x-tar", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary models.ProcessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, models.ProcessResponse{TotalItems: 4, TotalCategories: 3, TotalPrice: 1300}, summary)
	assert.Equal(t, "Lamp", st.Items()[3].Name)

	bad := postJSON(t, srv.URL+"/api/v0/items/import", "not a zip")
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestImport_RejectsNonFinitePrices(t *testing.T) {
	srv, st := newServer(t)

	// WriteCSV prints NaN as-is, so the archive carries it to the server.
	var buf bytes.Buffer
	require.NoError(t, compress.WriteItems(compress.Zip, &buf, "items.csv",
		[]models.Item{{Name: "Ghost", Price: math.NaN(), Category: catalog.Grocery}}))

	resp, err := http.Post(srv.URL+"/api/v0/items/import?archiveType=zip", "application/zip", &buf)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Len(t, st.Items(), 3)

	var items []models.Item
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v0/items", &items))
	assert.Len(t, items, 3)
}

func TestImport_TooLarge(t *testing.T) {
	srv, st := newServer(t, func(h *BaseController) { h.SetMaxArchiveSize(1024) })

	resp, err := http.Post(srv.URL+"/api/v0/items/import?archiveType=tar", "application/x-tar",
		bytes.NewReader(make([]byte, 4096)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	// Small archive, large CSV once inflated.
	rows := make([]models.Item, 2000)
	for i := range rows {
		rows[i] = models.Item{Name: "Sock", Price: 1, Category: catalog.Clothing}
	}
	var buf bytes.Buffer
	require.NoError(t, compress.WriteItems(compress.Zip, &buf, "items.csv", rows))
	require.Less(t, buf.Len(), 1024)

	resp, err = http.Post(srv.URL+"/api/v0/items/import?archiveType=zip", "application/zip", &buf)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Len(t, st.Items(), 3)
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	h := NewBaseController(nil, zap.NewNop())
	rec := httptest.NewRecorder()

	h.writeJSON(rec, http.StatusOK, map[string]float64{"price": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "encode response")
}

func TestPing(t *testing.T) {
	srv, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/api/v0/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
