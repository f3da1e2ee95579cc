package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"bazaar_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticIndex mirrors products into Elasticsearch for name search.
type ElasticIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticIndex(client *elasticsearch.Client, index string) *ElasticIndex {
	return &ElasticIndex{client: client, index: index}
}

type productDocument struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	IsActive    bool    `json:"is_active"`
	Rating      float64 `json:"product_rating"`
}

// IndexProduct upserts the product document.
func (e *ElasticIndex) IndexProduct(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(productDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		IsActive:    p.IsActive,
		Rating:      p.ProductRating,
	})
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: strconv.FormatUint(uint64(p.ID), 10),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elastic rejected product %d: %s", p.ID, res.String())
	}
	log.Printf("✅ Product indexed in Elasticsearch: %s", p.Name)
	return nil
}

// SearchProductIDs returns ids whose name contains term, case-insensitively.
func (e *ElasticIndex) SearchProductIDs(ctx context.Context, term string, activeOnly bool, limit int) ([]uint, error) {
	filters := []map[string]any{}
	if activeOnly {
		filters = append(filters, map[string]any{"term": map[string]any{"is_active": true}})
	}

	q := map[string]any{
		"size":    limit,
		"_source": []string{"id"},
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"wildcard": map[string]any{
						"name.keyword": map[string]any{
							"value":            "*" + escapeWildcard(term) + "*",
							"case_insensitive": true,
						},
					},
				},
				"filter": filters,
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("elastic request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elastic search error: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source productDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode elastic response: %w", err)
	}
	if r.Hits.Hits == nil {
		return nil, errors.New("invalid elastic response")
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, nil
}

func escapeWildcard(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(s)
}
