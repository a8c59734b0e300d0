// internal/workers/jobs/mask-job-results/models.go
package maskjobresults

import "jobvance-workers/internal/models"

type Input struct {
	Tier string `json:"tier"`
	// Offset is the absolute position of Jobs[0] when the rows are a page
	// of a larger result set.
	Offset int                `json:"offset"`
	Jobs   []models.JobListing `json:"jobs"`
}

type Output struct {
	Jobs            []models.MaskedJobListing `json:"jobs"`
	VisibleCount    int                       `json:"visibleCount"`
	MaskedCount     int                       `json:"maskedCount"`
	UpgradeRequired bool                      `json:"upgradeRequired"`
}

const InputSchema = `{
	"type": "object",
	"required": ["jobs"],
	"properties": {
		"tier": {"type": ["string", "null"]},
		"offset": {"type": "integer", "minimum": 0},
		"jobs": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id"],
				"properties": {
					"id": {"type": "string"},
					"title": {"type": "string"},
					"company": {"type": "string"},
					"location": {"type": "string"},
					"url": {"type": "string"},
					"matchScore": {"type": "number"},
					"postedAt": {"type": "string"}
				}
			}
		}
	}
}`
