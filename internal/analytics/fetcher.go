package analytics

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/postdeck/postdeck/internal/model"
	"github.com/postdeck/postdeck/internal/platform"
)

// MetricsFetcher retrieves the current engagement snapshot for one
// published post on one platform.
type MetricsFetcher interface {
	FetchMetrics(ctx context.Context, postID string, pl platform.Platform) (*model.PostMetrics, error)
}

// StubFetcher synthesizes metrics without talking to any platform API.
// Values are derived from the (post, platform) pair so repeated fetches
// for the same post return the same numbers.
type StubFetcher struct {
	now func() time.Time
}

// NewStubFetcher returns a fetcher producing deterministic synthetic
// metrics.
func NewStubFetcher() *StubFetcher {
	return &StubFetcher{now: time.Now}
}

// FetchMetrics returns a synthetic snapshot for the pair. Impressions
// land in the hundreds-to-thousands range and engagements stay a small
// fraction of them, so derived rates look plausible.
func (f *StubFetcher) FetchMetrics(ctx context.Context, postID string, pl platform.Platform) (*model.PostMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := pairSeed(postID, pl)
	impressions := int64(100 + seed%9900)
	engagements := impressions * int64(1+seed%9) / 100
	likes := engagements * 6 / 10
	shares := engagements * 15 / 100
	comments := engagements - likes - shares

	return &model.PostMetrics{
		PostID:      postID,
		Platform:    pl,
		Impressions: impressions,
		Engagements: engagements,
		Likes:       likes,
		Shares:      shares,
		Comments:    comments,
		Clicks:      engagements * 25 / 100,
		FetchedAt:   f.now().UTC(),
	}, nil
}

func pairSeed(postID string, pl platform.Platform) uint64 {
	h := fnv.New64a()
	h.Write([]byte(postID))
	h.Write([]byte{':'})
	h.Write([]byte(pl))
	return h.Sum64()
}
