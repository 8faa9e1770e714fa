package api

import (
	"time"

	"github.com/phrazzld/blogrelay/internal/domain"
)

// GenerateBlogRequest is the body of a generation request. BlogTopic is a
// pointer so a missing field can be told apart from a non-string one.
type GenerateBlogRequest struct {
	BlogTopic *string `json:"blog_topic" validate:"required"`
}

// BlogSummary describes one indexed artifact.
type BlogSummary struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// BlogListResponse is returned by the artifact listing endpoint.
type BlogListResponse struct {
	Blogs []BlogSummary `json:"blogs"`
	Count int           `json:"count"`
}

// HealthResponse is returned by the health and readiness probes.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func blogSummaryFromDomain(a *domain.StoredArtifact) BlogSummary {
	return BlogSummary{
		ID:        a.ID.String(),
		Topic:     a.Topic,
		Key:       a.Key,
		URL:       a.URL,
		CreatedAt: a.CreatedAt,
	}
}
