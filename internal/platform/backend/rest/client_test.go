package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyber924/taebaek/internal/platform/backend"
)

type spotRow struct {
	ID        int64    `json:"id,omitempty"`
	PlaceName string   `json:"place_name"`
	Type      string   `json:"type"`
	Tags      []string `json:"tags"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(srv.URL+"/", "anon-key")
	require.NoError(t, err)
	return client
}

func TestNewRequiresURLAndKey(t *testing.T) {
	t.Parallel()

	_, err := New("", "key")
	require.Error(t, err)
	_, err = New("https://example.supabase.co", "")
	require.Error(t, err)
	_, err = New("not a url", "key")
	require.Error(t, err)
}

func TestSelectSendsFiltersOrderAndAuthHeaders(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/spot", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		assert.Equal(t, "eq.cafe", r.URL.Query().Get("type"))
		assert.Equal(t, "place_name.asc", r.URL.Query().Get("order"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		_, _ = w.Write([]byte(`[{"id":1,"place_name":"바람의 언덕","type":"cafe","tags":["전망"]}]`))
	})

	var rows []spotRow
	q := backend.Where(backend.Eq("type", "cafe")).OrderBy(backend.Asc("place_name"))
	require.NoError(t, client.Select(context.Background(), "spot", q, &rows))
	require.Len(t, rows, 1)
	require.Equal(t, "바람의 언덕", rows[0].PlaceName)
	require.Equal(t, []string{"전망"}, rows[0].Tags)
}

func TestSelectOneMapsMissingRowToNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, objectContentType, r.Header.Get("Accept"))
		assert.Equal(t, "eq.42", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = w.Write([]byte(`{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned","details":"The result contains 0 rows"}`))
	})

	var row spotRow
	err := client.SelectOne(context.Background(), "spot", backend.Where(backend.Eq("id", 42)), &row)
	require.True(t, backend.IsNotFound(err))
}

func TestInsertReturnsRepresentation(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		payload, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(payload, &body))
		_, hasID := body["id"]
		assert.False(t, hasID)

		body["id"] = 7
		w.WriteHeader(http.StatusCreated)
		assert.NoError(t, json.NewEncoder(w).Encode(body))
	})

	row := spotRow{PlaceName: "구문소", Type: "attraction"}
	require.NoError(t, client.Insert(context.Background(), "spot", &row))
	require.Equal(t, int64(7), row.ID)
}

func TestInsertConflictIsClassified(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint \"visit_slug_key\""}`))
	})

	err := client.Insert(context.Background(), "visit", &map[string]any{"slug": "sample-post"})
	require.True(t, backend.IsConflict(err))
	require.Contains(t, err.Error(), "duplicate key")
}

func TestUpdateAndDelete(t *testing.T) {
	t.Parallel()

	var methods []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		assert.Equal(t, "eq.abc", r.URL.Query().Get("id"))
		switch r.Method {
		case http.MethodPatch:
			_, _ = w.Write([]byte(`{"id":1,"place_name":"수정됨","type":"cafe"}`))
		case http.MethodDelete:
			assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
			w.WriteHeader(http.StatusNoContent)
		}
	})

	var row spotRow
	filters := []backend.Filter{backend.Eq("id", "abc")}
	require.NoError(t, client.Update(context.Background(), "spot", filters, map[string]any{"place_name": "수정됨"}, &row))
	require.Equal(t, "수정됨", row.PlaceName)
	require.NoError(t, client.Delete(context.Background(), "spot", filters, nil))
	require.Equal(t, []string{http.MethodPatch, http.MethodDelete}, methods)
}

func TestServerErrorsAreUnavailable(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})

	var rows []spotRow
	err := client.Select(context.Background(), "spot", backend.Query{}, &rows)
	require.True(t, backend.IsUnavailable(err))
	require.Contains(t, err.Error(), "upstream down")
}
