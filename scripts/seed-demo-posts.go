// Command seed-demo-posts inserts a handful of demo posts so a fresh
// deployment has something to show on the dashboard.
//
// Usage:
//
//	go run scripts/seed-demo-posts.go -database-url postgres://...
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
	"github.com/postdeck/postdeck/internal/repository"
)

type output struct {
	Created []seededPost `json:"created"`
}

type seededPost struct {
	ID            string   `json:"id"`
	Status        string   `json:"status"`
	Platforms     []string `json:"platforms"`
	ScheduledTime string   `json:"scheduledTime,omitempty"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		timeout     = flag.Duration("timeout", 30*time.Second, "operation timeout")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "error: -database-url or DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: connect to database: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()

	now := time.Now().UTC()
	demos := []struct {
		content   string
		platforms []platform.Platform
		offset    time.Duration // zero creates a draft
	}{
		{
			content:   "Excited to share what we have been building. More details soon!",
			platforms: []platform.Platform{platform.Twitter, platform.LinkedIn},
			offset:    time.Hour,
		},
		{
			content:   "Behind the scenes from this week. Consistency beats intensity. #buildinpublic",
			platforms: []platform.Platform{platform.Instagram},
			offset:    3 * time.Hour,
		},
		{
			content:   "Draft: notes for the next product update thread.",
			platforms: []platform.Platform{platform.Twitter},
		},
	}

	var out output
	for _, demo := range demos {
		post := &model.ScheduledPost{
			ID:             uuid.New().String(),
			Content:        demo.content,
			Platforms:      demo.platforms,
			AdaptedContent: platform.AdaptAll(demo.content, demo.platforms),
			Status:         model.PostStatusDraft,
			CreatedAt:      now,
		}
		if demo.offset > 0 {
			at := now.Add(demo.offset)
			post.ScheduledTime = &at
			post.Status = model.PostStatusScheduled
		}

		if err := repo.CreatePost(ctx, post); err != nil {
			fmt.Fprintf(os.Stderr, "error: create post: %v\n", err)
			os.Exit(1)
		}

		seeded := seededPost{
			ID:     post.ID,
			Status: string(post.Status),
		}
		for _, p := range post.Platforms {
			seeded.Platforms = append(seeded.Platforms, string(p))
		}
		if post.ScheduledTime != nil {
			seeded.ScheduledTime = post.ScheduledTime.Format(time.RFC3339)
		}
		out.Created = append(out.Created, seeded)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "error: encode output: %v\n", err)
		os.Exit(1)
	}
}
