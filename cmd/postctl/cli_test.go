package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/postdesk/internal/config"
	"github.com/postdesk/internal/provider"
	"github.com/postdesk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryLoader(t *testing.T) containerLoader {
	t.Helper()
	cfg := &config.Config{
		ContentStore: config.ContentStoreConfig{Driver: config.ContentStoreDriverMemory},
		Categories:   config.DefaultCategories(),
		Export:       config.ExportConfig{FilenamePrefix: "content"},
	}
	container := provider.NewContainerWithRepository(cfg, repository.NewMemoryPostRepository())
	return func(string) (*provider.Container, error) { return container, nil }
}

func execute(t *testing.T, load containerLoader, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(load)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestImportListExportRoundTrip(t *testing.T) {
	load := memoryLoader(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "posts.csv")
	csvText := strings.Join([]string{
		"ID,Title,Slug,Content,Image,Price,Categories,CreatedAt",
		`,Pad Restore,pad-restore,"Clean, then test",,49.9,"controllers;games",`,
		`,Broken,broken,Body,,not-a-number,misc,`,
	}, "\n")
	require.NoError(t, os.WriteFile(csvPath, []byte(csvText), 0o644))

	out, err := execute(t, load, "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully imported 1 post(s)")
	assert.Contains(t, out, "Row 3")

	out, err = execute(t, load, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "pad-restore")
	assert.Contains(t, out, "controllers, games")

	out, err = execute(t, load, "export", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully exported 1 posts to CSV")

	matches, err := filepath.Glob(filepath.Join(dir, "content-posts-*.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	exported, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(exported), "ID,Title,"))
	assert.Contains(t, string(exported), `"Clean, then test"`)
}

func TestCategoryCommands(t *testing.T) {
	load := memoryLoader(t)
	container, _ := load("")
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "posts.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("header\n,Solo,solo,Body,,1,games,"), 0o644))
	_, err := execute(t, load, "import", csvPath)
	require.NoError(t, err)

	posts, err := container.PostService.List(t.Context())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	id := posts[0].ID

	out, err := execute(t, load, "categories", "add", id, "games")
	require.NoError(t, err)
	assert.Contains(t, out, "Category already exists")

	out, err = execute(t, load, "categories", "add", id, "music")
	require.NoError(t, err)
	assert.Contains(t, out, "Category added successfully!")

	out, err = execute(t, load, "categories", "set", id, "misc,swedish")
	require.NoError(t, err)
	assert.Contains(t, out, "Categories updated successfully!")

	post, err := container.PostService.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"misc", "swedish"}, []string(post.Categories))

	_, err = execute(t, load, "categories", "add", id, "sports")
	require.Error(t, err)

	out, err = execute(t, load, "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Post deleted successfully!")
}

func TestUploadWithoutUploaderFails(t *testing.T) {
	load := memoryLoader(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := execute(t, load, "upload", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error uploading image")
}
