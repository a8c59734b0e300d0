// internal/workers/jobs/search-jobs/models.go
package searchjobs

import "jobvance-workers/internal/models"

type Input struct {
	UserID     string   `json:"userId"`
	Tier       string   `json:"tier"`
	Titles     []string `json:"titles,omitempty"`
	Locations  []string `json:"locations,omitempty"`
	RemoteOnly bool     `json:"remoteOnly,omitempty"`
	Size       int      `json:"size,omitempty"`
	From       int      `json:"from,omitempty"`
}

type Output struct {
	Jobs            []models.MaskedJobListing `json:"jobs"`
	TotalHits       int64                     `json:"totalHits"`
	VisibleCount    int                       `json:"visibleCount"`
	MaskedCount     int                       `json:"maskedCount"`
	UpgradeRequired bool                      `json:"upgradeRequired"`
	Took            int64                     `json:"took"`
}

// listingDocument is the _source shape of the job_listings index.
type listingDocument struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	URL      string `json:"url"`
	Remote   bool   `json:"remote"`
	PostedAt string `json:"posted_at"`
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			ID     string          `json:"_id"`
			Score  *float64        `json:"_score"`
			Source listingDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

const InputSchema = `{
	"type": "object",
	"required": ["userId"],
	"properties": {
		"userId": {"type": "string", "minLength": 1},
		"tier": {"type": ["string", "null"]},
		"titles": {"type": "array", "items": {"type": "string"}},
		"locations": {"type": "array", "items": {"type": "string"}},
		"remoteOnly": {"type": "boolean"},
		"size": {"type": "integer", "minimum": 0},
		"from": {"type": "integer", "minimum": 0}
	}
}`
