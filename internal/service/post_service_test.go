package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/postdesk/internal/models"
	"github.com/postdesk/internal/repository"
)

func newTestPostService() (*PostService, *repository.MemoryPostRepository) {
	repo := repository.NewMemoryPostRepository()
	categories := NewCategoryService([]models.CategoryOption{
		{Value: "controllers"}, {Value: "games"}, {Value: "music"}, {Value: "misc"},
	})
	return NewPostService(repo, categories, 3), repo
}

func money(t *testing.T, raw string) models.Money {
	t.Helper()
	m, err := models.ParseMoney(raw)
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	return m
}

func TestCreateNormalizesSlugAndRejectsDuplicates(t *testing.T) {
	svc, _ := newTestPostService()
	ctx := context.Background()

	post, err := svc.Create(ctx, CreatePostInput{Title: " Pad ", Slug: "  My-Post ", Price: money(t, "10"), Categories: models.Categories{"games"}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.Slug != "my-post" || post.Title != "Pad" {
		t.Fatalf("unexpected normalized post: %+v", post)
	}

	_, err = svc.Create(ctx, CreatePostInput{Title: "Other", Slug: "MY-POST", Price: money(t, "1"), Categories: models.Categories{"games"}})
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("expected duplicate slug, got %v", err)
	}
	if !strings.Contains(err.Error(), `"my-post"`) {
		t.Fatalf("duplicate error should name the slug, got %v", err)
	}

	posts, _ := svc.List(ctx)
	if len(posts) != 1 {
		t.Fatalf("duplicate must not create a post, got %d", len(posts))
	}
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	svc, _ := newTestPostService()
	post, err := svc.Create(context.Background(), CreatePostInput{Title: "Hello, World! 2026", Price: money(t, "0"), Categories: models.Categories{"misc"}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.Slug != "hello-world-2026" {
		t.Fatalf("unexpected derived slug: %s", post.Slug)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestPostService()
	ctx := context.Background()
	cases := []struct {
		name  string
		input CreatePostInput
		want  error
	}{
		{"missing title", CreatePostInput{Slug: "x", Price: money(t, "1"), Categories: models.Categories{"games"}}, ErrValidationFailed},
		{"negative price", CreatePostInput{Title: "x", Price: money(t, "-1"), Categories: models.Categories{"games"}}, ErrValidationFailed},
		{"no categories", CreatePostInput{Title: "x", Price: money(t, "1")}, ErrEmptySelection},
		{"unknown category", CreatePostInput{Title: "x", Price: money(t, "1"), Categories: models.Categories{"sports"}}, ErrUnknownCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
		})
	}
}

func TestReplaceCategoriesRejectsEmptySelection(t *testing.T) {
	svc, repo := newTestPostService()
	ctx := context.Background()
	post, err := svc.Create(ctx, CreatePostInput{Title: "Pad", Price: money(t, "1"), Categories: models.Categories{"games", "music"}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = svc.ReplaceCategories(ctx, post.ID, []string{" ", ""})
	if !errors.Is(err, ErrEmptySelection) || !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected empty selection validation error, got %v", err)
	}
	stored, _ := repo.GetByID(ctx, post.ID)
	if len(stored.Categories) != 2 {
		t.Fatalf("categories must be unchanged, got %v", stored.Categories)
	}

	if err := svc.ReplaceCategories(ctx, post.ID, []string{"misc"}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	stored, _ = repo.GetByID(ctx, post.ID)
	if len(stored.Categories) != 1 || stored.Categories[0] != "misc" {
		t.Fatalf("replace should overwrite, got %v", stored.Categories)
	}
}

func TestAddCategoryIsIdempotent(t *testing.T) {
	svc, repo := newTestPostService()
	ctx := context.Background()
	post, _ := svc.Create(ctx, CreatePostInput{Title: "Pad", Price: money(t, "1"), Categories: models.Categories{"games"}})

	changed, err := svc.AddCategory(ctx, post.ID, "music")
	if err != nil || !changed {
		t.Fatalf("first add should change, changed=%v err=%v", changed, err)
	}
	before, _ := repo.GetByID(ctx, post.ID)

	changed, err = svc.AddCategory(ctx, post.ID, "music")
	if err != nil || changed {
		t.Fatalf("second add should be a no-op, changed=%v err=%v", changed, err)
	}
	after, _ := repo.GetByID(ctx, post.ID)
	if before.Revision != after.Revision {
		t.Fatalf("no-op add must not write")
	}
	if strings.Join(after.Categories, ",") != "games,music" {
		t.Fatalf("unexpected categories: %v", after.Categories)
	}
}

func TestRemoveCategoryAllowsEmptyResult(t *testing.T) {
	svc, repo := newTestPostService()
	ctx := context.Background()
	post, _ := svc.Create(ctx, CreatePostInput{Title: "Pad", Price: money(t, "1"), Categories: models.Categories{"games"}})

	changed, err := svc.RemoveCategory(ctx, post.ID, "games")
	if err != nil || !changed {
		t.Fatalf("remove should succeed, changed=%v err=%v", changed, err)
	}
	stored, _ := repo.GetByID(ctx, post.ID)
	if len(stored.Categories) != 0 {
		t.Fatalf("last category should be removable, got %v", stored.Categories)
	}

	changed, err = svc.RemoveCategory(ctx, post.ID, "games")
	if err != nil || changed {
		t.Fatalf("removing absent category should be a no-op, changed=%v err=%v", changed, err)
	}
}

func TestCategoryMutationOnMissingPost(t *testing.T) {
	svc, _ := newTestPostService()
	if _, err := svc.AddCategory(context.Background(), "missing", "games"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.RemoveCategory(context.Background(), "missing", "games"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// racingRepository 每次读取后由另一个写入方抢先修改
type racingRepository struct {
	*repository.MemoryPostRepository
	races    int32
	injected int32
}

func (r *racingRepository) SetCategories(ctx context.Context, id string, categories models.Categories, ifRevision string) (string, error) {
	if atomic.AddInt32(&r.injected, 1) <= r.races {
		current, _ := r.MemoryPostRepository.GetByID(ctx, id)
		if _, err := r.MemoryPostRepository.SetCategories(ctx, id, current.Categories.With("controllers"), ""); err != nil {
			return "", err
		}
	}
	return r.MemoryPostRepository.SetCategories(ctx, id, categories, ifRevision)
}

func TestAddCategoryRetriesOnConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	repo := &racingRepository{MemoryPostRepository: repository.NewMemoryPostRepository(), races: 1}
	svc := NewPostService(repo, NewCategoryService(nil), 3)
	post, err := svc.Create(ctx, CreatePostInput{Title: "Pad", Price: money(t, "1"), Categories: models.Categories{"games"}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	changed, err := svc.AddCategory(ctx, post.ID, "music")
	if err != nil || !changed {
		t.Fatalf("add should succeed after retry, changed=%v err=%v", changed, err)
	}
	stored, _ := repo.GetByID(ctx, post.ID)
	if !stored.Categories.Contains("controllers") || !stored.Categories.Contains("music") {
		t.Fatalf("concurrent write must not be lost, got %v", stored.Categories)
	}
}

func TestAddCategoryGivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	repo := &racingRepository{MemoryPostRepository: repository.NewMemoryPostRepository(), races: 10}
	svc := NewPostService(repo, NewCategoryService(nil), 2)
	post, _ := svc.Create(ctx, CreatePostInput{Title: "Pad", Price: money(t, "1"), Categories: models.Categories{"games"}})

	_, err := svc.AddCategory(ctx, post.ID, "music")
	if !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("expected concurrent modification, got %v", err)
	}
}

func TestUpdateExcludesSelfFromSlugCheck(t *testing.T) {
	svc, _ := newTestPostService()
	ctx := context.Background()
	first, _ := svc.Create(ctx, CreatePostInput{Title: "First", Price: money(t, "1"), Categories: models.Categories{"games"}})
	_, _ = svc.Create(ctx, CreatePostInput{Title: "Second", Price: money(t, "1"), Categories: models.Categories{"games"}})

	updated, err := svc.Update(ctx, first.ID, CreatePostInput{Title: "First edited", Slug: "first", Price: money(t, "2.5"), Categories: models.Categories{"music"}})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "First edited" || updated.Price.String() != "2.50" {
		t.Fatalf("unexpected updated post: %+v", updated)
	}

	_, err = svc.Update(ctx, first.ID, CreatePostInput{Title: "First", Slug: "second", Price: money(t, "1"), Categories: models.Categories{"games"}})
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("expected duplicate slug, got %v", err)
	}

	if _, err := svc.Update(ctx, "missing", CreatePostInput{Title: "x", Price: money(t, "1"), Categories: models.Categories{"games"}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetAndDelete(t *testing.T) {
	svc, _ := newTestPostService()
	ctx := context.Background()
	post, _ := svc.Create(ctx, CreatePostInput{Title: "Pad", Price: money(t, "1"), Categories: models.Categories{"games"}})

	got, err := svc.Get(ctx, post.ID)
	if err != nil || got.ID != post.ID {
		t.Fatalf("get failed: %v", err)
	}
	if err := svc.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	posts, err := svc.List(ctx)
	if err != nil || posts == nil || len(posts) != 0 {
		t.Fatalf("list should be empty slice, got %v %v", posts, err)
	}
}
