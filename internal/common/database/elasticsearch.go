// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"jobvance-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// JobListingsMapping is the index mapping search-jobs relies on: title is
// analyzed text, location is an exact keyword and posted_at sorts as a date.
const JobListingsMapping = `{
	"mappings": {
		"properties": {
			"id":        {"type": "keyword"},
			"title":     {"type": "text"},
			"company":   {"type": "keyword"},
			"location":  {"type": "keyword"},
			"url":       {"type": "keyword", "index": false},
			"remote":    {"type": "boolean"},
			"posted_at": {"type": "date"}
		}
	}
}`

// ElasticsearchClient is the job listings cluster plus the index name
// searches run against.
type ElasticsearchClient struct {
	Client *elasticsearch.Client
	Index  string
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{Addresses: cfg.Addresses}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es, Index: cfg.JobsIndex}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.Status())
	}
	return nil
}

// EnsureIndex creates the job listings index with JobListingsMapping when
// it does not exist. An existing index is left untouched.
func (c *ElasticsearchClient) EnsureIndex(ctx context.Context) (created bool, err error) {
	exists, err := esapi.IndicesExistsRequest{Index: []string{c.Index}}.Do(ctx, c.Client)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", c.Index, err)
	}
	exists.Body.Close()

	switch exists.StatusCode {
	case http.StatusOK:
		return false, nil
	case http.StatusNotFound:
	default:
		return false, fmt.Errorf("check index %s: %s", c.Index, exists.Status())
	}

	res, err := esapi.IndicesCreateRequest{
		Index: c.Index,
		Body:  strings.NewReader(JobListingsMapping),
	}.Do(ctx, c.Client)
	if err != nil {
		return false, fmt.Errorf("create index %s: %w", c.Index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return false, fmt.Errorf("create index %s: %s", c.Index, res.String())
	}
	return true, nil
}
