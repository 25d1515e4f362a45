package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postRow struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  string `json:"user_id"`
}

func TestQueryGet(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]postRow{
			{ID: 2, Title: "newer"},
			{ID: 1, Title: "older"},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "anon-key")

	var rows []postRow
	err := client.From("posts").
		Select("*").
		Order("created_at", false).
		Get(context.Background(), &rows)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "newer", rows[0].Title)

	assert.Equal(t, "/rest/v1/posts", gotReq.URL.Path)
	q := gotReq.URL.Query()
	assert.Equal(t, "*", q.Get("select"))
	assert.Equal(t, "created_at.desc", q.Get("order"))
	assert.Equal(t, "anon-key", gotReq.Header.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", gotReq.Header.Get("Authorization"))
}

func TestQueryEqFiltersAndToken(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := New(srv.URL, "anon-key")
	ctx := WithToken(context.Background(), "user-token")

	var rows []postRow
	err := client.From("posts").Eq("user_id", "u1").Eq("id", 7).Get(ctx, &rows)
	require.NoError(t, err)
	assert.Empty(t, rows)

	q := gotReq.URL.Query()
	assert.Equal(t, "eq.u1", q.Get("user_id"))
	assert.Equal(t, "eq.7", q.Get("id"))
	// With a session the bearer is the user's token, not the anon key.
	assert.Equal(t, "Bearer user-token", gotReq.Header.Get("Authorization"))
	assert.Equal(t, "anon-key", gotReq.Header.Get("apikey"))
}

func TestQueryMaybeSingle(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantFound bool
	}{
		{name: "row present", body: `[{"id":1,"post_id":3,"user_id":"u1"}]`, wantFound: true},
		{name: "no row", body: `[]`, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, "anon-key")
			found, err := client.From("likes").
				Eq("post_id", 3).
				Eq("user_id", "u1").
				MaybeSingle(context.Background(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func TestQueryCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		w.Header().Set("Content-Range", "0-24/42")
	}))
	defer srv.Close()

	client := New(srv.URL, "anon-key")
	count, err := client.From("likes").Eq("post_id", 3).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestQueryCountEmptySet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "*/0")
	}))
	defer srv.Close()

	client := New(srv.URL, "anon-key")
	count, err := client.From("likes").Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestQueryInsert(t *testing.T) {
	var gotReq *http.Request
	var gotBody postRow
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := New(srv.URL, "anon-key")
	err := client.From("posts").Insert(context.Background(), postRow{Title: "T", Content: "C", UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, "return=minimal", gotReq.Header.Get("Prefer"))
	assert.Equal(t, "T", gotBody.Title)
}

func TestQueryUpsertIgnore(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := New(srv.URL, "anon-key")
	err := client.From("likes").UpsertIgnore(context.Background(),
		map[string]any{"post_id": 3, "user_id": "u1"}, "post_id,user_id")
	require.NoError(t, err)

	assert.Equal(t, "post_id,user_id", gotReq.URL.Query().Get("on_conflict"))
	assert.Contains(t, gotReq.Header.Get("Prefer"), "resolution=ignore-duplicates")
}

func TestQueryDeleteReportsAffectedRows(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "owner match", body: `[{"id":5}]`, want: 1},
		{name: "owner mismatch deletes nothing", body: `[]`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, "anon-key")
			n, err := client.From("posts").Eq("id", 5).Eq("user_id", "u1").Delete(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestQueryErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"duplicate key value","code":"23505"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "anon-key")
	err := client.From("likes").Insert(context.Background(), map[string]any{"post_id": 1})
	require.Error(t, err)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusConflict, svcErr.Status)
	assert.Equal(t, "23505", svcErr.Code)
	assert.Contains(t, svcErr.Error(), "duplicate key value")
}

func TestQueryContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := New(srv.URL, "anon-key")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var rows []postRow
	err := client.From("posts").Get(ctx, &rows)
	require.Error(t, err)
}
