package i14y

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/metric"
	"github.com/I14Y-ch/structure-generator/pkg/cache"
	"github.com/I14Y-ch/structure-generator/pkg/retry"
)

// Default endpoints of the I14Y catalog.
const (
	DefaultCatalogURL = "https://input.i14y.admin.ch/api/Catalog"
	DefaultPublicURL  = "https://api.i14y.admin.ch/api/public/v1"

	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 5
	defaultBurst     = 10

	lookupCacheTTL  = 5 * time.Minute
	lookupCacheSize = 256
)

// Config holds the client settings.
type Config struct {
	// CatalogURL serves the search endpoint.
	CatalogURL string `yaml:"catalog_url"`
	// PublicURL serves concept details and codelist exports.
	PublicURL string `yaml:"public_url"`
	// Timeout bounds every single request.
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit caps outgoing requests per second.
	RateLimit float64 `yaml:"rate_limit"`
	// RateBurst is the burst size of the rate limiter.
	RateBurst int `yaml:"rate_burst"`
}

func (c Config) withDefaults() Config {
	if c.CatalogURL == "" {
		c.CatalogURL = DefaultCatalogURL
	}
	if c.PublicURL == "" {
		c.PublicURL = DefaultPublicURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.RateLimit <= 0 {
		c.RateLimit = defaultRateLimit
	}
	if c.RateBurst <= 0 {
		c.RateBurst = defaultBurst
	}
	return c
}

// Client is an I14Y catalog API client. Concept details and codelist
// lookups are cached; catalog records change rarely and linking a
// concept fetches both back to back.
type Client struct {
	cfg       Config
	http      *http.Client
	limiter   *rate.Limiter
	retry     retry.Config
	logger    *slog.Logger
	metrics   *metric.Metrics
	details   *cache.TTL[Record]
	codelists *cache.TTL[[]Record]
}

// NewClient creates a catalog client. Logger may be nil; metrics may
// be nil to disable instrumentation.
func NewClient(cfg Config, logger *slog.Logger, metrics *metric.Metrics) *Client {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	rc := retry.DefaultConfig()
	rc.MaxAttempts = 3
	return &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		retry:     rc,
		logger:    logger,
		metrics:   metrics,
		details:   cache.NewTTL[Record](lookupCacheTTL, lookupCacheSize),
		codelists: cache.NewTTL[[]Record](lookupCacheTTL, lookupCacheSize),
	}
}

// Record is an opaque catalog record.
type Record map[string]any

// SearchConcepts searches the catalog for concepts. The endpoint
// returns the full result list, so paging happens client side.
// Failures degrade to an empty result.
func (c *Client) SearchConcepts(ctx context.Context, query string, page, pageSize int) []Record {
	return c.search(ctx, "Concept", query, page, pageSize)
}

// SearchDatasets searches the catalog for datasets, paging client
// side. Failures degrade to an empty result.
func (c *Client) SearchDatasets(ctx context.Context, query string, page, pageSize int) []Record {
	return c.search(ctx, "Dataset", query, page, pageSize)
}

func (c *Client) search(ctx context.Context, recordType, query string, page, pageSize int) []Record {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	params := url.Values{}
	params.Set("types", recordType)
	if q := strings.TrimSpace(query); q != "" {
		params.Set("query", q)
	}
	endpoint := c.cfg.CatalogURL + "/search?" + params.Encode()

	operation := "search_" + strings.ToLower(recordType) + "s"
	var results []Record
	err := c.getJSON(ctx, operation, endpoint, &results)
	c.record(operation, err != nil)
	if err != nil {
		c.logger.Warn("catalog search failed, returning empty result",
			"operation", operation, "error", err)
		return nil
	}

	start := (page - 1) * pageSize
	if start >= len(results) {
		return nil
	}
	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}

// ConceptDetails fetches the full record of one concept. Responses
// wrapped in a "data" envelope are unwrapped.
func (c *Client) ConceptDetails(ctx context.Context, conceptID string) (Record, error) {
	if record, ok := c.details.Get(conceptID); ok {
		return record, nil
	}

	endpoint := c.cfg.PublicURL + "/concepts/" + url.PathEscape(conceptID)

	var raw json.RawMessage
	err := c.getJSON(ctx, "concept_details", endpoint, &raw)
	c.record("concept_details", err != nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data Record `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		c.details.Set(conceptID, envelope.Data)
		return envelope.Data, nil
	}
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, serr.WrapInvalid(err, "i14y", "ConceptDetails", "decode concept record")
	}
	c.details.Set(conceptID, record)
	return record, nil
}

// DatasetDetails fetches the full record of one dataset.
func (c *Client) DatasetDetails(ctx context.Context, datasetID string) (Record, error) {
	endpoint := c.cfg.CatalogURL + "/datasets/" + url.PathEscape(datasetID)

	var record Record
	err := c.getJSON(ctx, "dataset_details", endpoint, &record)
	c.record("dataset_details", err != nil)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CodelistEntries fetches the enumeration entries of a concept. A
// concept without a codelist yields a nil slice and no error. The
// export endpoint varies its envelope, so several container keys are
// tried before treating the payload as a bare list.
func (c *Client) CodelistEntries(ctx context.Context, conceptID string) ([]Record, error) {
	if entries, ok := c.codelists.Get(conceptID); ok {
		return entries, nil
	}

	endpoint := c.cfg.PublicURL + "/concepts/" + url.PathEscape(conceptID) +
		"/codelist-entries/exports/json"

	var raw json.RawMessage
	err := c.getJSON(ctx, "codelist_entries", endpoint, &raw)
	c.record("codelist_entries", err != nil)
	if err != nil {
		if errors.Is(err, serr.ErrLookupFailed) {
			// No codelist for this concept. Cached so repeat links
			// do not hammer the 404.
			c.codelists.Set(conceptID, nil)
			return nil, nil
		}
		return nil, err
	}

	var wrapped map[string]json.RawMessage
	if json.Unmarshal(raw, &wrapped) == nil {
		for _, key := range []string{"entries", "items", "data", "codelistEntries"} {
			inner, ok := wrapped[key]
			if !ok {
				continue
			}
			var entries []Record
			if json.Unmarshal(inner, &entries) == nil {
				c.codelists.Set(conceptID, entries)
				return entries, nil
			}
		}
		c.codelists.Set(conceptID, nil)
		return nil, nil
	}

	var entries []Record
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, serr.WrapInvalid(err, "i14y", "CodelistEntries", "decode codelist export")
	}
	c.codelists.Set(conceptID, entries)
	return entries, nil
}

// getJSON performs a rate-limited, retried GET and decodes the body
// into out.
func (c *Client) getJSON(ctx context.Context, operation, endpoint string, out any) error {
	return retry.Do(ctx, c.retry, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return retry.NonRetryable(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return retry.NonRetryable(
				serr.WrapInvalid(err, "i14y", operation, "build request"))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return serr.WrapTransient(err, "i14y", operation, "execute request")
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusNotFound:
			return retry.NonRetryable(serr.WrapInvalid(
				fmt.Errorf("%s: %w", endpoint, serr.ErrLookupFailed),
				"i14y", operation, "resource not found"))
		case resp.StatusCode == http.StatusTooManyRequests:
			return serr.WrapTransient(serr.ErrRateLimited, "i14y", operation, "throttled by catalog")
		case resp.StatusCode >= 500:
			return serr.WrapTransient(
				fmt.Errorf("status %d", resp.StatusCode),
				"i14y", operation, "catalog unavailable")
		default:
			return retry.NonRetryable(serr.WrapInvalid(
				fmt.Errorf("status %d", resp.StatusCode),
				"i14y", operation, "unexpected response"))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return serr.WrapTransient(err, "i14y", operation, "read response")
		}
		if err := json.Unmarshal(body, out); err != nil {
			return retry.NonRetryable(
				serr.WrapInvalid(err, "i14y", operation, "decode response"))
		}
		return nil
	})
}

func (c *Client) record(operation string, failed bool) {
	if c.metrics != nil {
		c.metrics.RecordLookup(operation, failed)
	}
}
