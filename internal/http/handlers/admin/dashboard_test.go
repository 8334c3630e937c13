package admin

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/postdesk/internal/dashboard"

	"github.com/google/uuid"
)

func TestDashboardIssuesSessionHeader(t *testing.T) {
	_, router := setupAdminHandlerTest(t)

	w, resp := doJSON(t, router, http.MethodGet, "/admin/dashboard", nil, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("overview failed: %d %s", resp.StatusCode, resp.Msg)
	}
	id := w.Header().Get(SessionHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("session header should carry a uuid, got %q", id)
	}

	w, _ = doJSON(t, router, http.MethodGet, "/admin/dashboard", nil, map[string]string{SessionHeader: id})
	if got := w.Header().Get(SessionHeader); got != id {
		t.Fatalf("existing session id should be echoed, got %q", got)
	}
}

func TestDashboardDraftSubmitFlow(t *testing.T) {
	_, router := setupAdminHandlerTest(t)
	headers := map[string]string{SessionHeader: uuid.NewString()}

	_, resp := doJSON(t, router, http.MethodPatch, "/admin/dashboard/draft", map[string]string{
		"title":   "Hello World!",
		"content": "Body",
		"price":   "5",
	}, headers)
	var view dashboard.SessionView
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		t.Fatalf("decode session failed: %v", err)
	}
	if view.Form.Slug != "hello-world" {
		t.Fatalf("slug should derive from title, got %q", view.Form.Slug)
	}

	_, resp = doJSON(t, router, http.MethodPost, "/admin/dashboard/draft/submit", nil, headers)
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		t.Fatalf("decode session failed: %v", err)
	}
	if view.Message == nil || view.Message.Text != "Please select at least one category" {
		t.Fatalf("submit without categories should fail, got %+v", view.Message)
	}

	doJSON(t, router, http.MethodPost, "/admin/dashboard/draft/categories/games", nil, headers)
	_, resp = doJSON(t, router, http.MethodPost, "/admin/dashboard/draft/submit", nil, headers)
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		t.Fatalf("decode session failed: %v", err)
	}
	if view.Message == nil || view.Message.Kind != dashboard.MessageSuccess || view.Message.Text != "Post added successfully!" {
		t.Fatalf("unexpected message: %+v", view.Message)
	}
	if view.Form.Title != "" || len(view.Form.Categories) != 0 {
		t.Fatalf("form should reset after submit: %+v", view.Form)
	}

	_, resp = doJSON(t, router, http.MethodGet, "/admin/dashboard", nil, headers)
	var overview struct {
		Posts []json.RawMessage `json:"posts"`
	}
	if err := json.Unmarshal(resp.Data, &overview); err != nil {
		t.Fatalf("decode overview failed: %v", err)
	}
	if len(overview.Posts) != 1 {
		t.Fatalf("want 1 post got %d", len(overview.Posts))
	}
}
