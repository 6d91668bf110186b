// Package nomad fetches entry populations from the NOMAD repository's v1
// API. It speaks only to /entries/query and follows the API's value-based
// pagination until the catalog is exhausted.
package nomad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/EBB2675/nomad-curator/internal/catalog"
)

const (
	DefaultBaseURL = "https://nomad-lab.eu/prod/v1/api/v1"

	// DefaultOwner matches the GUI's logged-in view; "public" restricts
	// the fetch to published entries.
	DefaultOwner = "visible"

	DefaultProgram  = "ORCA"
	DefaultPageSize = 1000
)

// requiredFields are the only quantities the sampler consumes; everything
// else the catalog stores is excluded from the response.
var requiredFields = []string{
	"entry_id",
	"upload_id",
	"mainfile",
	"main_author",
	"results.material.structural_type",
}

// Client fetches a labeled population from a NOMAD deployment.
type Client struct {
	BaseURL string
	Owner   string

	// Program filters on results.method.simulation.program_name.
	// Empty fetches entries from every simulation program.
	Program string

	PageSize   int
	HTTPClient *http.Client

	logger *zap.Logger
}

// NewClient returns a Client with production NOMAD defaults.
func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		Owner:      DefaultOwner,
		Program:    DefaultProgram,
		PageSize:   DefaultPageSize,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// FetchReport summarizes one population fetch.
type FetchReport struct {
	Pages   int
	Fetched int

	// Skipped counts hits missing their entry_id. Such records cannot be
	// sampled and are dropped without aborting the fetch.
	Skipped int
}

type queryRequest struct {
	Owner      string         `json:"owner"`
	Query      map[string]any `json:"query"`
	Pagination pagination     `json:"pagination"`
	Required   required       `json:"required"`
}

type pagination struct {
	PageSize       int    `json:"page_size"`
	OrderBy        string `json:"order_by"`
	Order          string `json:"order"`
	PageAfterValue string `json:"page_after_value,omitempty"`
}

type required struct {
	Include []string `json:"include"`
}

type queryResponse struct {
	Data       []hit `json:"data"`
	Pagination struct {
		NextPageAfterValue string `json:"next_page_after_value"`
	} `json:"pagination"`
}

type hit struct {
	EntryID    string          `json:"entry_id"`
	UploadID   string          `json:"upload_id"`
	Mainfile   string          `json:"mainfile"`
	MainAuthor json.RawMessage `json:"main_author"`
	Results    struct {
		Material struct {
			StructuralType string `json:"structural_type"`
		} `json:"material"`
	} `json:"results"`
}

// FetchPopulation retrieves every matching entry as a deduplicated,
// fetch-ordered population. The catalog orders pages by entry_id, so the
// returned slice order is stable across identical fetches.
func (c *Client) FetchPopulation(ctx context.Context) ([]catalog.Entry, FetchReport, error) {
	req := queryRequest{
		Owner: c.Owner,
		Query: map[string]any{},
		Pagination: pagination{
			PageSize: c.PageSize,
			OrderBy:  "entry_id",
			Order:    "asc",
		},
		Required: required{Include: requiredFields},
	}
	if c.Program != "" {
		req.Query["results.method.simulation.program_name"] = c.Program
	}

	var (
		entries []catalog.Entry
		report  FetchReport
	)
	for {
		page, err := c.queryPage(ctx, &req)
		if err != nil {
			return nil, report, err
		}
		if len(page.Data) == 0 {
			break
		}

		for _, h := range page.Data {
			if h.EntryID == "" {
				report.Skipped++
				continue
			}
			entries = append(entries, toEntry(h))
		}
		report.Pages++
		report.Fetched = len(entries)
		c.logger.Debug("fetched page",
			zap.Int("page", report.Pages),
			zap.Int("hits", len(page.Data)),
			zap.Int("total", len(entries)))

		if page.Pagination.NextPageAfterValue == "" {
			break
		}
		req.Pagination.PageAfterValue = page.Pagination.NextPageAfterValue
	}

	return entries, report, nil
}

func (c *Client) queryPage(ctx context.Context, req *queryRequest) (*queryResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("nomad: encode query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/entries/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("nomad: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("nomad: query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("nomad: query returned %d: %s", resp.StatusCode, snippet)
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("nomad: decode response: %w", err)
	}
	return &out, nil
}

func toEntry(h hit) catalog.Entry {
	system := h.Results.Material.StructuralType
	if system == "" {
		system = catalog.UnknownSystem
	}
	return catalog.Entry{
		EntryID:        h.EntryID,
		UploadID:       h.UploadID,
		Mainfile:       h.Mainfile,
		MainAuthor:     catalog.NormalizeAuthor(h.MainAuthor),
		System:         system,
		StructuralType: h.Results.Material.StructuralType,
	}
}
