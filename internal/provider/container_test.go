package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/postdesk/internal/config"
	"github.com/postdesk/internal/contentstore"
	"github.com/postdesk/internal/repository"
)

func TestNewContainerMemoryDriverHasNoUploader(t *testing.T) {
	cfg := &config.Config{
		ContentStore: config.ContentStoreConfig{
			Driver:     config.ContentStoreDriverMemory,
			ProjectID:  "proj",
			Dataset:    "production",
			WriteToken: "token",
		},
		Categories: config.DefaultCategories(),
	}
	c := NewContainer(cfg)

	if c.ContentStore != nil {
		t.Fatalf("memory driver should not build a content store client")
	}
	if _, ok := c.PostRepo.(*repository.MemoryPostRepository); !ok {
		t.Fatalf("memory driver should use the memory repository, got %T", c.PostRepo)
	}
	_, err := c.UploadService.UploadBytes(context.Background(), "cover.png", "image/png", []byte("not-an-image"))
	if !errors.Is(err, contentstore.ErrConfigMissing) {
		t.Fatalf("upload should fail with missing config, got %v", err)
	}
}

func TestNewContainerRemoteDriverWiresContentStore(t *testing.T) {
	cfg := &config.Config{
		ContentStore: config.ContentStoreConfig{
			Driver:    config.ContentStoreDriverRemote,
			ProjectID: "proj",
			Dataset:   "production",
		},
		Categories: config.DefaultCategories(),
	}
	c := NewContainer(cfg)

	if c.ContentStore == nil {
		t.Fatalf("remote driver should build a content store client")
	}
	if _, ok := c.PostRepo.(*repository.RemotePostRepository); !ok {
		t.Fatalf("remote driver should use the remote repository, got %T", c.PostRepo)
	}
	if c.DashboardController == nil || c.SessionStore == nil {
		t.Fatalf("dashboard should be wired")
	}
}
