package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/postdesk/internal/contentstore"
	"github.com/postdesk/internal/models"
	"github.com/postdesk/internal/repository"
)

// legacyStore 远端文档桩：category 以历史字符串形态保存，写入后改为数组
type legacyStore struct {
	mu       sync.Mutex
	category json.RawMessage
	revision int
	writes   []json.RawMessage
}

func (s *legacyStore) document() string {
	return fmt.Sprintf(`{"_id":"p1","_rev":"rev-%d","_createdAt":"2025-01-01T00:00:00Z","title":"Legacy","slug":{"current":"legacy"},"price":1,"category":%s}`,
		s.revision, s.category)
}

func (s *legacyStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.Contains(r.URL.Path, "/data/query/") {
		_, _ = w.Write([]byte(`{"result":` + s.document() + `}`))
		return
	}

	var body struct {
		Mutations []struct {
			Patch struct {
				IfRevisionID string                     `json:"ifRevisionID"`
				Set          map[string]json.RawMessage `json:"set"`
			} `json:"patch"`
		} `json:"mutations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Mutations) != 1 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	patch := body.Mutations[0].Patch
	if patch.IfRevisionID != fmt.Sprintf("rev-%d", s.revision) {
		w.WriteHeader(http.StatusConflict)
		return
	}
	s.category = patch.Set["category"]
	s.writes = append(s.writes, patch.Set["category"])
	s.revision++
	_, _ = w.Write([]byte(`{"results":[{"id":"p1","operation":"update","document":` + s.document() + `}]}`))
}

func (s *legacyStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

func (s *legacyStore) lastWrite() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.writes) == 0 {
		return ""
	}
	return string(s.writes[len(s.writes)-1])
}

func newLegacyPostService(t *testing.T) (*PostService, *legacyStore) {
	t.Helper()
	store := &legacyStore{category: json.RawMessage(`"music"`), revision: 1}
	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)

	client := contentstore.NewClient(contentstore.Config{
		ProjectID: "proj",
		Dataset:   "production",
		Token:     "token",
		APIHost:   srv.URL,
	})
	categories := NewCategoryService([]models.CategoryOption{{Value: "games"}, {Value: "music"}})
	return NewPostService(repository.NewPostRepository(client), categories, 3), store
}

func TestAddExistingLegacyCategoryIsNoop(t *testing.T) {
	svc, store := newLegacyPostService(t)

	changed, err := svc.AddCategory(context.Background(), "p1", "music")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if changed {
		t.Fatalf("legacy string category should count as present")
	}
	if store.writeCount() != 0 {
		t.Fatalf("no-op add must not write, got %d writes", store.writeCount())
	}
}

func TestAddCategoryToLegacyStringPatchesList(t *testing.T) {
	svc, store := newLegacyPostService(t)

	changed, err := svc.AddCategory(context.Background(), "p1", "games")
	if err != nil || !changed {
		t.Fatalf("add failed: changed=%v err=%v", changed, err)
	}
	if got := store.lastWrite(); got != `["music","games"]` {
		t.Fatalf("want legacy value merged into a list, got %s", got)
	}
}

func TestRemoveLegacyStringCategoryPatchesEmptyList(t *testing.T) {
	svc, store := newLegacyPostService(t)

	changed, err := svc.RemoveCategory(context.Background(), "p1", "music")
	if err != nil || !changed {
		t.Fatalf("remove failed: changed=%v err=%v", changed, err)
	}
	if got := store.lastWrite(); got != `[]` {
		t.Fatalf("want empty list written, got %s", got)
	}

	post, err := svc.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(post.Categories) != 0 {
		t.Fatalf("categories should be empty after removal, got %v", post.Categories)
	}
}
