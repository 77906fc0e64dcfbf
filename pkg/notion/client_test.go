package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"testing"

	"expensebot/pkg/expense"

	"github.com/jomei/notionapi"
	"github.com/shopspring/decimal"
)

const testDatabaseJSON = `{
	"object": "database",
	"id": "db",
	"properties": {
		"Категория": {
			"id": "cat",
			"type": "multi_select",
			"multi_select": {"options": [
				{"id": "1", "name": "Еда", "color": "red"},
				{"id": "2", "name": "Такси", "color": "blue"}
			]}
		},
		"Цена": {"id": "price", "type": "number", "number": {"format": "number"}}
	}
}`

type capturedRequest struct {
	method string
	path   string
	body   []byte
}

// stubTransport answers Notion API calls with canned bodies and records requests.
type stubTransport struct {
	mu       sync.Mutex
	requests []capturedRequest
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}

	s.mu.Lock()
	s.requests = append(s.requests, capturedRequest{method: req.Method, path: req.URL.Path, body: body})
	s.mu.Unlock()

	resp := testDatabaseJSON
	if strings.Contains(req.URL.Path, "/pages") {
		resp = `{"object": "page", "id": "page"}`
	}

	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(resp)),
		Request:    req,
	}, nil
}

func (s *stubTransport) byMethod(method string) []capturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []capturedRequest
	for _, r := range s.requests {
		if r.method == method {
			res = append(res, r)
		}
	}
	return res
}

func newTestClient(tr *stubTransport) *Client {
	return &Client{
		api:    notionapi.NewClient("secret", notionapi.WithHTTPClient(&http.Client{Transport: tr})),
		dbID:   "db",
		props:  DefaultProperties(),
		logger: testLogger(),
	}
}

// requestProperties decodes the "properties" object of a request body.
func requestProperties(t *testing.T, body []byte) map[string]map[string]any {
	t.Helper()

	var req struct {
		Properties map[string]map[string]any `json:"properties"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to decode request body %s: %v", body, err)
	}

	return req.Properties
}

func optionNames(t *testing.T, v any) []string {
	t.Helper()

	list, ok := v.([]any)
	if !ok {
		t.Fatalf("expected options list, got %T", v)
	}

	names := make([]string, 0, len(list))
	for _, o := range list {
		names = append(names, o.(map[string]any)["name"].(string))
	}
	return names
}

func TestClientCategories(t *testing.T) {
	tr := &stubTransport{}
	c := newTestClient(tr)

	names, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !slices.Equal(names, []string{"Еда", "Такси"}) {
		t.Fatalf("unexpected categories %v", names)
	}

	c.props.Category = "Цена"
	if _, err := c.Categories(context.Background()); err == nil {
		t.Fatalf("expected error for non multi-select property")
	}
}

func TestClientCreateRecord(t *testing.T) {
	tests := []struct {
		name        string
		rec         expense.Record
		wantComment int
	}{
		{
			name:        "with comment",
			rec:         expense.Record{Name: "Кофта", Price: decimal.RequireFromString("150.3"), Category: "Одежда", Date: "2025-09-21", Comment: "распродажа"},
			wantComment: 1,
		},
		{
			name:        "without comment",
			rec:         expense.Record{Name: "Кофе", Price: decimal.RequireFromString("200"), Category: "Еда", Date: "2025-01-05"},
			wantComment: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := &stubTransport{}
			c := newTestClient(tr)

			if err := c.CreateRecord(context.Background(), tc.rec); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			posts := tr.byMethod(http.MethodPost)
			if len(posts) != 1 || !strings.HasSuffix(posts[0].path, "/pages") {
				t.Fatalf("expected one page create, got %+v", tr.requests)
			}
			props := requestProperties(t, posts[0].body)

			date, ok := props["Дата"]["date"].(map[string]any)
			if !ok || date["start"] != tc.rec.Date {
				t.Fatalf("expected calendar date %q, got %v", tc.rec.Date, props["Дата"])
			}

			if got := props["Цена"]["number"]; got != tc.rec.Price.InexactFloat64() {
				t.Fatalf("unexpected price %v", got)
			}

			if got := optionNames(t, props["Категория"]["multi_select"]); !slices.Equal(got, []string{tc.rec.Category}) {
				t.Fatalf("expected single category, got %v", got)
			}

			comment, ok := props["Комментарий"]["rich_text"].([]any)
			if !ok || len(comment) != tc.wantComment {
				t.Fatalf("expected %d rich text items, got %v", tc.wantComment, props["Комментарий"]["rich_text"])
			}
		})
	}
}

func TestClientCreateRecordInvalidDate(t *testing.T) {
	tr := &stubTransport{}
	c := newTestClient(tr)

	err := c.CreateRecord(context.Background(), expense.Record{Name: "x", Price: decimal.NewFromInt(1), Category: "c", Date: "21.09.2025"})
	if err == nil {
		t.Fatalf("expected error for non ISO date")
	}
	if len(tr.requests) != 0 {
		t.Fatalf("expected no requests, got %d", len(tr.requests))
	}
}

func TestClientAppendCategory(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		wantPatch []string
	}{
		{name: "new", category: "Питомцы", wantPatch: []string{"Еда", "Такси", "Питомцы"}},
		{name: "existing", category: "Такси", wantPatch: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := &stubTransport{}
			c := newTestClient(tr)

			if err := c.AppendCategory(context.Background(), tc.category); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gets := tr.byMethod(http.MethodGet); len(gets) != 1 {
				t.Fatalf("expected options to be re-read once, got %d reads", len(gets))
			}

			patches := tr.byMethod(http.MethodPatch)
			if tc.wantPatch == nil {
				if len(patches) != 0 {
					t.Fatalf("expected no update for existing category, got %d", len(patches))
				}
				return
			}

			if len(patches) != 1 {
				t.Fatalf("expected one database update, got %d", len(patches))
			}
			props := requestProperties(t, patches[0].body)
			if got := optionNames(t, props["Категория"]["multi_select"].(map[string]any)["options"]); !slices.Equal(got, tc.wantPatch) {
				t.Fatalf("expected options %v, got %v", tc.wantPatch, got)
			}
		})
	}
}
