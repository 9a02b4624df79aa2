// Postdeck Scheduling Example
//
// This is a minimal example of how to schedule a post through the Postdeck API
// and publish it immediately.
//
// Usage:
//   export POSTDECK_BASE_URL="http://localhost:8080"
//   go run main.go "Launching our new feature today!"

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

type scheduleRequest struct {
	Content       string   `json:"content"`
	Platforms     []string `json:"platforms"`
	ScheduledTime string   `json:"scheduledTime"`
}

type scheduleResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type postResponse struct {
	Post struct {
		ID             string            `json:"id"`
		Status         string            `json:"status"`
		AdaptedContent map[string]string `json:"adaptedContent"`
		PublishedAt    *time.Time        `json:"publishedAt"`
	} `json:"post"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func main() {
	baseURL := os.Getenv("POSTDECK_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	content := "Hello from the Postdeck API example!"
	if len(os.Args) > 1 {
		content = os.Args[1]
	}

	client := &http.Client{Timeout: 10 * time.Second}

	// Schedule for one hour from now across two platforms.
	reqBody, _ := json.Marshal(scheduleRequest{
		Content:       content,
		Platforms:     []string{"twitter", "linkedin"},
		ScheduledTime: time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})

	resp, err := client.Post(baseURL+"/api/posts", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		log.Fatalf("schedule request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		log.Fatalf("schedule failed (%d): %s [%s]", resp.StatusCode, apiErr.Error, apiErr.Code)
	}

	var scheduled scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&scheduled); err != nil {
		log.Fatalf("decode schedule response: %v", err)
	}
	fmt.Printf("✓ Scheduled post %s\n", scheduled.ID)

	// Publish immediately instead of waiting for the scheduled time.
	pubResp, err := client.Post(baseURL+"/api/posts/"+scheduled.ID+"/publish", "application/json", nil)
	if err != nil {
		log.Fatalf("publish request failed: %v", err)
	}
	defer pubResp.Body.Close()

	if pubResp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		_ = json.NewDecoder(pubResp.Body).Decode(&apiErr)
		log.Fatalf("publish failed (%d): %s [%s]", pubResp.StatusCode, apiErr.Error, apiErr.Code)
	}

	var published postResponse
	if err := json.NewDecoder(pubResp.Body).Decode(&published); err != nil {
		log.Fatalf("decode publish response: %v", err)
	}

	fmt.Printf("✓ Published post %s (status: %s)\n", published.Post.ID, published.Post.Status)
	for platform, adapted := range published.Post.AdaptedContent {
		fmt.Printf("  %-10s %s\n", platform+":", adapted)
	}
	if published.Post.PublishedAt != nil {
		fmt.Printf("  published at %s\n", published.Post.PublishedAt.Format(time.RFC3339))
	}
}
