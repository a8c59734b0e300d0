// internal/workers/jobs/search-jobs/query.go
package searchjobs

import "strings"

// buildQuery turns the search input into an Elasticsearch bool query.
// Titles are alternatives (should), locations and the remote flag narrow
// the result (filter). No titles means match_all.
func buildQuery(input *Input) map[string]interface{} {
	boolQuery := map[string]interface{}{}

	var should []interface{}
	for _, title := range input.Titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		should = append(should, map[string]interface{}{
			"match": map[string]interface{}{
				"title": map[string]interface{}{
					"query":    title,
					"operator": "and",
				},
			},
		})
	}
	if len(should) > 0 {
		boolQuery["should"] = should
		boolQuery["minimum_should_match"] = 1
	} else {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}

	var filter []interface{}
	locations := make([]string, 0, len(input.Locations))
	for _, loc := range input.Locations {
		if loc = strings.TrimSpace(loc); loc != "" {
			locations = append(locations, loc)
		}
	}
	if len(locations) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{"location": locations},
		})
	}
	if input.RemoteOnly {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"remote": true},
		})
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			map[string]interface{}{"_score": "desc"},
			map[string]interface{}{"posted_at": map[string]interface{}{"order": "desc", "unmapped_type": "date"}},
		},
		"track_total_hits": true,
	}
}
