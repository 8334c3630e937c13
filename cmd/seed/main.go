package main

import (
	"context"
	"errors"
	"time"

	"github.com/postdesk/internal/config"
	"github.com/postdesk/internal/logger"
	"github.com/postdesk/internal/models"
	"github.com/postdesk/internal/provider"
	"github.com/postdesk/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	container := provider.NewContainer(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// 示例文章
	posts := []service.CreatePostInput{
		{
			Title:      "Retro Controller Restoration",
			Content:    "Cleaning contacts, replacing membranes and re-shelling a classic pad.",
			Price:      models.NewMoneyFromDecimal(decimal.RequireFromString("49.90")),
			Categories: models.NewCategories("controllers", "games"),
		},
		{
			Title:      "Swedish Synth Night",
			Content:    "Live set recordings from a small club in Gothenburg.",
			Price:      models.NewMoneyFromDecimal(decimal.RequireFromString("12")),
			Categories: models.NewCategories("swedish", "music"),
		},
		{
			Title:      "Cinematic Trailer Breakdown",
			Content:    "Shot-by-shot notes on pacing, colour and sound design.",
			Price:      models.NewMoneyFromDecimal(decimal.Zero),
			Categories: models.NewCategories("cinematic"),
		},
		{
			Title:      "Odds and Ends",
			Content:    "Everything that did not fit anywhere else.",
			Price:      models.NewMoneyFromDecimal(decimal.RequireFromString("3.5")),
			Categories: models.NewCategories("misc"),
		},
	}

	created := 0
	for _, input := range posts {
		post, err := container.PostService.Create(ctx, input)
		if err != nil {
			if errors.Is(err, service.ErrDuplicateSlug) {
				stdLog.Printf("Post already exists: %s", input.Title)
				continue
			}
			stdLog.Printf("Failed to create post %s: %v", input.Title, err)
			continue
		}
		created++
		stdLog.Printf("Created post: %s (%s)", post.Slug, post.ID)
	}
	stdLog.Printf("Seed completed: %d/%d posts created", created, len(posts))
}
