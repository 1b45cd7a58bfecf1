package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"wellhub/internal/models"
)

// Config holds Elasticsearch connection settings.
type Config struct {
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
}

// Client wraps an Elasticsearch connection used for full-text event search.
type Client struct {
	es     *elasticsearch.Client
	config Config
}

// NewClient connects to Elasticsearch and ensures the events index exists.
func NewClient(cfg Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &Client{es: es, config: cfg}

	if err := client.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

// ensureIndex creates the events index if it does not exist yet.
func (c *Client) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.config.Index},
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.config.Index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
			"analysis": map[string]interface{}{
				"analyzer": map[string]interface{}{
					"event_analyzer": map[string]interface{}{
						"type":      "custom",
						"tokenizer": "standard",
						"filter":    []string{"lowercase", "english_stop", "english_stemmer"},
					},
				},
				"filter": map[string]interface{}{
					"english_stop": map[string]interface{}{
						"type":      "stop",
						"stopwords": "_english_",
					},
					"english_stemmer": map[string]interface{}{
						"type":     "stemmer",
						"language": "english",
					},
				},
			},
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type": "keyword",
				},
				"title": map[string]interface{}{
					"type":     "text",
					"analyzer": "event_analyzer",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"description": map[string]interface{}{
					"type":     "text",
					"analyzer": "event_analyzer",
				},
				"category": map[string]interface{}{
					"type": "keyword",
				},
				"location_type": map[string]interface{}{
					"type": "keyword",
				},
				"status": map[string]interface{}{
					"type": "keyword",
				},
				"featured": map[string]interface{}{
					"type": "boolean",
				},
				"capacity": map[string]interface{}{
					"type": "integer",
				},
				"price": map[string]interface{}{
					"type": "long",
				},
				"starts_at": map[string]interface{}{
					"type":   "date",
					"format": "strict_date_optional_time||epoch_millis",
				},
				"ends_at": map[string]interface{}{
					"type":   "date",
					"format": "strict_date_optional_time||epoch_millis",
				},
				"created_at": map[string]interface{}{
					"type": "date",
				},
				"updated_at": map[string]interface{}{
					"type": "date",
				},
			},
		},
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.config.Index,
		Body:  strings.NewReader(string(mappingJSON)),
	}

	createRes, err := createReq.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.config.Index)
	return nil
}

// Search runs a filtered full-text query against the events index.
func (c *Client) Search(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	from := 0
	page, pageSize := filter.Page, filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if page > 0 {
		from = (page - 1) * pageSize
	}

	searchRequest := map[string]interface{}{
		"query": c.buildSearchQuery(filter),
		"sort":  c.buildSortQuery(filter.Query),
		"from":  from,
		"size":  pageSize,
	}

	searchJSON, err := json.Marshal(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{c.config.Index},
		Body:  strings.NewReader(string(searchJSON)),
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source models.Event `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	events := make([]models.Event, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		events[i] = hit.Source
	}

	return events, nil
}

func (c *Client) buildSearchQuery(filter models.EventFilter) map[string]interface{} {
	mustQueries := []map[string]interface{}{}

	if filter.Query != "" {
		mustQueries = append(mustQueries, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     filter.Query,
				"fields":    []string{"title^2", "description"},
				"analyzer":  "event_analyzer",
				"fuzziness": "AUTO",
			},
		})
	}

	if filter.Status != "" {
		mustQueries = append(mustQueries, termQuery("status", string(filter.Status)))
	}
	if filter.Category != "" {
		mustQueries = append(mustQueries, termQuery("category", filter.Category))
	}
	if filter.LocationType != "" {
		mustQueries = append(mustQueries, termQuery("location_type", string(filter.LocationType)))
	}
	if filter.Featured != nil {
		mustQueries = append(mustQueries, map[string]interface{}{
			"term": map[string]interface{}{"featured": *filter.Featured},
		})
	}

	if filter.From != nil || filter.To != nil {
		bounds := map[string]interface{}{}
		if filter.From != nil {
			bounds["gte"] = filter.From.Format(time.RFC3339)
		}
		if filter.To != nil {
			bounds["lte"] = filter.To.Format(time.RFC3339)
		}
		mustQueries = append(mustQueries, map[string]interface{}{
			"range": map[string]interface{}{"starts_at": bounds},
		})
	}

	if len(mustQueries) == 0 {
		return map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must": mustQueries,
		},
	}
}

func termQuery(field, value string) map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{field: value},
	}
}

func (c *Client) buildSortQuery(query string) []map[string]interface{} {
	if query != "" {
		// Relevance order when searching
		return []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"starts_at": map[string]interface{}{"order": "asc"}},
		}
	}

	return []map[string]interface{}{
		{"starts_at": map[string]interface{}{"order": "asc"}},
	}
}

// IndexEvent indexes or reindexes an event document.
func (c *Client) IndexEvent(ctx context.Context, event *models.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.config.Index,
		DocumentID: event.ID,
		Body:       strings.NewReader(string(eventJSON)),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("failed to index event: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}

	return nil
}

// UpdateEvent reindexes the event with its current state.
func (c *Client) UpdateEvent(ctx context.Context, event *models.Event) error {
	return c.IndexEvent(ctx, event)
}

// DeleteEvent removes an event document from the index.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      c.config.Index,
		DocumentID: id,
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("delete error: %s", res.String())
	}

	return nil
}

// HealthCheck verifies the cluster responds.
func (c *Client) HealthCheck(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to ping Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("Elasticsearch is unhealthy: %s", res.String())
	}

	return nil
}
