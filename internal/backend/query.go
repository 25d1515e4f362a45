package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// QueryBuilder accumulates filters for a table-scoped request and
// terminates in one of Get, MaybeSingle, Count, Insert, UpsertIgnore or
// Delete. Builders are single-use.
type QueryBuilder struct {
	client  *Client
	table   string
	columns string
	filters []filter
	order   string
}

type filter struct {
	column string
	value  string
}

// Select sets the requested columns (default "*").
func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.columns = columns
	return q
}

// Eq adds an equality filter on column.
func (q *QueryBuilder) Eq(column string, value any) *QueryBuilder {
	q.filters = append(q.filters, filter{column: column, value: fmt.Sprint(value)})
	return q
}

// Order sets the result ordering on column.
func (q *QueryBuilder) Order(column string, ascending bool) *QueryBuilder {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = column + "." + dir
	return q
}

func (q *QueryBuilder) values() url.Values {
	v := url.Values{}
	cols := q.columns
	if cols == "" {
		cols = "*"
	}
	v.Set("select", cols)
	for _, f := range q.filters {
		v.Set(f.column, "eq."+f.value)
	}
	if q.order != "" {
		v.Set("order", q.order)
	}
	return v
}

func (q *QueryBuilder) path() string {
	return "/rest/v1/" + q.table + "?" + q.values().Encode()
}

// Get fetches all matching rows into dest, which must be a pointer to a
// slice.
func (q *QueryBuilder) Get(ctx context.Context, dest any) error {
	req, err := q.client.newRequest(ctx, http.MethodGet, q.path(), nil)
	if err != nil {
		return err
	}
	resp, err := q.client.do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return json.NewDecoder(resp.Body).Decode(dest)
}

// MaybeSingle fetches at most one matching row into dest and reports
// whether a row was found. Zero rows is not an error.
func (q *QueryBuilder) MaybeSingle(ctx context.Context, dest any) (bool, error) {
	var rows []json.RawMessage
	if err := q.Get(ctx, &rows); err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	if dest == nil {
		return true, nil
	}
	return true, json.Unmarshal(rows[0], dest)
}

// Count returns the exact number of matching rows without transferring
// them, using a HEAD request and the Content-Range header.
func (q *QueryBuilder) Count(ctx context.Context) (int, error) {
	req, err := q.client.newRequest(ctx, http.MethodHead, q.path(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")
	resp, err := q.client.do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Content-Range is "<from>-<to>/<total>" or "*/<total>" for empty sets.
	cr := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 {
		return 0, fmt.Errorf("backend: missing count in Content-Range %q", cr)
	}
	total, err := strconv.Atoi(cr[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("backend: bad count in Content-Range %q", cr)
	}
	return total, nil
}

// Insert writes row (a struct or a slice of structs) into the table.
func (q *QueryBuilder) Insert(ctx context.Context, row any) error {
	return q.write(ctx, row, "")
}

// UpsertIgnore inserts row, silently keeping the existing row when one
// already exists for the onConflict column set. Used for idempotent
// writes such as likes keyed by (post_id, user_id).
func (q *QueryBuilder) UpsertIgnore(ctx context.Context, row any, onConflict string) error {
	return q.write(ctx, row, onConflict)
}

func (q *QueryBuilder) write(ctx context.Context, row any, onConflict string) error {
	body, err := json.Marshal(row)
	if err != nil {
		return err
	}
	path := "/rest/v1/" + q.table
	if onConflict != "" {
		path += "?on_conflict=" + url.QueryEscape(onConflict)
	}
	req, err := q.client.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	prefer := "return=minimal"
	if onConflict != "" {
		prefer += ",resolution=ignore-duplicates"
	}
	req.Header.Set("Prefer", prefer)

	resp, err := q.client.do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// Delete removes all matching rows and returns how many were removed.
// An owner filter that matches nothing deletes nothing and returns zero,
// so callers can tell a no-op from a successful delete.
func (q *QueryBuilder) Delete(ctx context.Context) (int, error) {
	req, err := q.client.newRequest(ctx, http.MethodDelete, q.path(), nil)
	if err != nil {
		return 0, err
	}
	// Ask for the deleted rows back so the affected count is observable.
	req.Header.Set("Prefer", "return=representation")
	resp, err := q.client.do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	var rows []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
