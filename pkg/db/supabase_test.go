package db

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

// newCappedRESTServer serves rows from table like PostgREST with a max-rows
// setting of maxRows: each response is cut to maxRows whatever limit was asked.
func newCappedRESTServer(t *testing.T, table string, rows []map[string]any, maxRows int) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/"+table {
			http.NotFound(w, r)
			return
		}
		calls++
		q := r.URL.Query()
		if !strings.Contains(q.Get("order"), ".desc") {
			t.Errorf("expected descending order, got %q", q.Get("order"))
		}
		offset, _ := strconv.Atoi(q.Get("offset"))
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil {
			t.Errorf("expected limit param, got %q", q.Get("limit"))
		}
		if limit > maxRows {
			limit = maxRows
		}
		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		page := []map[string]any{}
		if offset < len(rows) {
			page = rows[offset:end]
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newRESTClient(t *testing.T, url string) *SupabaseClient {
	t.Helper()
	c := NewSupabaseClient(SupabaseConfig{SupabaseURL: url, SupabaseKey: "anon"})
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if c.HasDirectDB() {
		t.Fatal("expected REST-only mode")
	}
	return c
}

func journalRows(n int) []map[string]any {
	base := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, map[string]any{
			"id":         fmt.Sprintf("j%d", i),
			"title":      fmt.Sprintf("entry %d", i),
			"keywords":   "a,b",
			"created_at": base.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
		})
	}
	return rows
}

func TestSupabaseREST_ListJournalsPagesPastServerCap(t *testing.T) {
	srv, calls := newCappedRESTServer(t, "journal", journalRows(5), 2)
	c := newRESTClient(t, srv.URL)

	journals, err := c.ListJournals(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListJournals failed: %v", err)
	}
	if len(journals) != 5 {
		t.Fatalf("expected all 5 journals, got %d", len(journals))
	}
	for i, j := range journals {
		if want := fmt.Sprintf("j%d", i); j.ID != want {
			t.Errorf("journals[%d].ID = %q, want %q", i, j.ID, want)
		}
	}
	if len(journals[0].Keywords) != 2 {
		t.Errorf("keywords: got %v", journals[0].Keywords)
	}
	// 2 + 2 + 1, then an empty page.
	if *calls != 4 {
		t.Errorf("expected 4 requests, got %d", *calls)
	}
}

func TestSupabaseREST_ListJournalsHonoursLimit(t *testing.T) {
	srv, _ := newCappedRESTServer(t, "journal", journalRows(5), 2)
	c := newRESTClient(t, srv.URL)

	journals, err := c.ListJournals(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListJournals failed: %v", err)
	}
	if len(journals) != 3 {
		t.Fatalf("expected 3 journals, got %d", len(journals))
	}
	if journals[2].ID != "j2" {
		t.Errorf("last journal = %q, want j2", journals[2].ID)
	}
}

func TestSupabaseREST_ListTasksPagesPastServerCap(t *testing.T) {
	start := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	rows := make([]map[string]any, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, map[string]any{
			"id":         fmt.Sprintf("t%d", i),
			"title":      "task",
			"start_time": start.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
			"end_time":   start.Add(-time.Duration(i-1) * time.Hour).Format(time.RFC3339),
			"priority":   "high",
			"created_at": start.Format(time.RFC3339),
		})
	}
	srv, _ := newCappedRESTServer(t, "task", rows, 1)
	c := newRESTClient(t, srv.URL)

	tasks, err := c.ListTasks(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if !tasks[0].StartTime.Equal(start) {
		t.Errorf("first start = %v, want %v", tasks[0].StartTime, start)
	}
}

func TestSupabaseREST_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"401","message":"invalid api key"}`))
	}))
	defer srv.Close()
	c := newRESTClient(t, srv.URL)

	if _, err := c.ListJournals(context.Background(), 0); err == nil {
		t.Fatal("expected error on 401")
	}
}
