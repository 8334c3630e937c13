package service

import (
	"errors"
	"testing"

	"github.com/postdesk/internal/models"
)

func TestCategoryServiceNormalizesVocabulary(t *testing.T) {
	svc := NewCategoryService([]models.CategoryOption{
		{Value: " games ", Label: "Games"},
		{Value: "games", Label: "Duplicate"},
		{Value: "", Label: "Blank"},
		{Value: "music"},
	})
	options := svc.List()
	if len(options) != 2 {
		t.Fatalf("want 2 options got %d", len(options))
	}
	if svc.Label("music") != "music" || svc.Label("games") != "Games" {
		t.Fatalf("unexpected labels")
	}
	if svc.Label("legacy") != "legacy" {
		t.Fatalf("unknown values should be shown as-is")
	}
}

func TestCategoryServiceValidate(t *testing.T) {
	svc := NewCategoryService([]models.CategoryOption{{Value: "games"}})
	if err := svc.Validate(models.Categories{"games"}); err != nil {
		t.Fatalf("known category rejected: %v", err)
	}
	if err := svc.Validate(models.Categories{"games", "other"}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected unknown category, got %v", err)
	}
	open := NewCategoryService(nil)
	if open.Restricted() {
		t.Fatalf("empty vocabulary should not restrict")
	}
	if err := open.Validate(models.Categories{"anything"}); err != nil {
		t.Fatalf("open vocabulary should accept all: %v", err)
	}
}
