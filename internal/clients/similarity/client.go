package similarity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

// Client is the boundary to the external similarity oracle. The oracle owns
// embedding computation; we only send summary text and receive ranked ids.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	UpsertDocument(ctx context.Context, req UpsertRequest) error
	DeleteDocument(ctx context.Context, docID string) error
}

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("missing similarity base URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &client{
		log:  log.With("client", "SimilarityClient"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type SearchRequest struct {
	QueryText   string         `json:"query_text"`
	ContentType string         `json:"content_type,omitempty"`
	Filter      map[string]any `json:"filter,omitempty"`
	Threshold   float64        `json:"threshold,omitempty"`
	Limit       int            `json:"limit,omitempty"`
}

type SearchMatch struct {
	ID         string         `json:"id"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type SearchResponse struct {
	Matches []SearchMatch `json:"matches"`
}

// Search issues the query with at most one retry. Anything that still fails
// after the retry is surfaced to the caller as-is.
func (c *client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if strings.TrimSpace(req.QueryText) == "" {
		return nil, fmt.Errorf("query text required")
	}
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/search"

	out, err := doJSON[SearchResponse](c, ctx, "POST", u, req)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	c.log.Warn("similarity search failed, retrying once", "error", err)
	return doJSON[SearchResponse](c, ctx, "POST", u, req)
}

type UpsertRequest struct {
	ID          string         `json:"id"`
	ContentType string         `json:"content_type"`
	Text        string         `json:"text"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func (c *client) UpsertDocument(ctx context.Context, req UpsertRequest) error {
	if strings.TrimSpace(req.ID) == "" {
		return fmt.Errorf("document id required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("document text required")
	}
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/documents"
	_, err := doJSON[struct{}](c, ctx, "PUT", u, req)
	return err
}

func (c *client) DeleteDocument(ctx context.Context, docID string) error {
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return fmt.Errorf("document id required")
	}
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/documents/" + docID
	_, err := doJSON[struct{}](c, ctx, "DELETE", u, nil)
	return err
}

func doJSON[T any](c *client, ctx context.Context, method, url string, body any) (*T, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(c.cfg.APIKey) != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("similarity %s %s http %d: %s", method, url, resp.StatusCode, string(raw))
	}

	var out T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("similarity response decode: %w", err)
		}
	}
	return &out, nil
}
