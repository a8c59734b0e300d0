// internal/models/job.go
package models

import "jobvance-workers/internal/entitlement"

// JobListing is one row of a job search result.
type JobListing struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	Location   string  `json:"location,omitempty"`
	URL        string  `json:"url,omitempty"`
	Remote     bool    `json:"remote,omitempty"`
	MatchScore float64 `json:"matchScore,omitempty"`
	PostedAt   string  `json:"postedAt,omitempty"`
}

// MaskedJobListing is a listing after the tier's visibility rule was
// applied. Masked rows keep ID, MatchScore and PostedAt so the UI can draw
// a blurred card, and lose everything that identifies the job.
type MaskedJobListing struct {
	JobListing
	Visible bool `json:"visible"`
	Masked  bool `json:"masked"`
}

// MaskListings applies the row visibility of tier to jobs. offset is the
// absolute position of jobs[0] in the full result set, so a page fetched
// with from=N is gated on N+i and paging never re-reveals rows.
func MaskListings(jobs []JobListing, tier entitlement.Tier, offset int) (out []MaskedJobListing, visible, masked int) {
	if offset < 0 {
		offset = 0
	}
	out = make([]MaskedJobListing, len(jobs))
	for i, job := range jobs {
		if entitlement.IsRowVisible(offset+i, tier) {
			out[i] = MaskedJobListing{JobListing: job, Visible: true}
			visible++
			continue
		}
		out[i] = MaskedJobListing{
			JobListing: JobListing{
				ID:         job.ID,
				MatchScore: job.MatchScore,
				PostedAt:   job.PostedAt,
			},
			Masked: true,
		}
		masked++
	}
	return out, visible, masked
}
