package vectorsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Scope bounds which passages a query may retrieve.
type Scope struct {
	CollectionName string     `json:"collection_name"`
	FacultyId      string     `json:"faculty_id"`
	SemesterId     string     `json:"semester_id"`
	BookId         *uuid.UUID `json:"book_id,omitempty"`
}

// Key returns a stable cache-key fragment for the scope.
func (s Scope) Key() string {
	book := ""
	if s.BookId != nil {
		book = s.BookId.String()
	}
	return fmt.Sprintf("%s:%s:%s:%s", s.CollectionName, s.FacultyId, s.SemesterId, book)
}

// Passage is one ranked curriculum chunk returned by the search service.
// Page is string-or-number on the wire, so it stays loosely typed here.
type Passage struct {
	Text       string      `json:"text"`
	Score      float64     `json:"score"`
	Source     string      `json:"source"`
	Page       interface{} `json:"page"`
	DocumentId string      `json:"document_id"`
}

// Searcher is the outbound contract toward the vector search service.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, scope Scope) ([]Passage, error)
}

// Client is the HTTP implementation of Searcher.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Searcher = &Client{}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
	Scope
}

func (c *Client) Search(ctx context.Context, query string, topK int, scope Scope) ([]Passage, error) {
	payload, err := json.Marshal(searchRequest{
		Query: query,
		TopK:  topK,
		Scope: scope,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search service returned %d: %s", resp.StatusCode, string(body))
	}

	var passages []Passage
	if err := json.NewDecoder(resp.Body).Decode(&passages); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return passages, nil
}
