package pathquest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrToggleRejected is returned when the API answers a favorite toggle with
// success=false.
var ErrToggleRejected = errors.New("favorite toggle rejected")

// PeakAPI defines the remote operations PathQuest consumes.
// This interface is implemented by *Client and can be used for testing.
type PeakAPI interface {
	SearchPeaks(ctx context.Context, query SearchQuery) ([]Peak, error)
	FetchPeak(ctx context.Context, id string) (Peak, error)
	ToggleFavorite(ctx context.Context, peakID string, newValue bool) error
}

// Ensure Client implements PeakAPI at compile time.
var _ PeakAPI = (*Client)(nil)

// Client talks to the PathQuest HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
	validate  *validator.Validate
	logger    *zap.Logger
}

const (
	defaultAPIURL      = "https://api.pathquest.app"
	defaultUserAgent   = "pathquest/0.1"
	defaultSearchLimit = 200
	requestTimeout     = 5 * time.Second
)

// NewClient builds a Client for the given API base URL. token may be empty
// for anonymous searches; favorite toggles will then be rejected upstream.
func NewClient(apiURL, token string, logger *zap.Logger) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		token:     strings.TrimSpace(token),
		validate:  validator.New(),
		logger:    logger,
	}, nil
}

// SearchPeaks returns peaks inside the query's bounding box and/or matching
// its text. Records failing validation are dropped.
func (c *Client) SearchPeaks(ctx context.Context, query SearchQuery) ([]Peak, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if query.IsZero() {
		return nil, fmt.Errorf("search needs a bounding box or text")
	}
	values := url.Values{}
	if !query.Bounds.IsZero() {
		b := query.Bounds
		values.Set("bbox", strings.Join([]string{
			formatCoord(b.MinLng), formatCoord(b.MinLat),
			formatCoord(b.MaxLng), formatCoord(b.MaxLat),
		}, ","))
	}
	if text := strings.TrimSpace(query.Text); text != "" {
		values.Set("q", text)
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	values.Set("limit", strconv.Itoa(limit))
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}

	rel := &url.URL{Path: "/api/peaks/search", RawQuery: values.Encode()}
	var payload SearchResponse
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return c.validPeaks(payload.Peaks), nil
}

// FetchPeak retrieves a single peak by identifier.
func (c *Client) FetchPeak(ctx context.Context, id string) (Peak, error) {
	if c == nil {
		return Peak{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(id) == "" {
		return Peak{}, fmt.Errorf("peak id required")
	}
	rel := peakPath(id, "")
	var payload Peak
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return Peak{}, err
	}
	if err := c.validate.Struct(payload); err != nil {
		return Peak{}, fmt.Errorf("invalid peak %q: %w", id, err)
	}
	return payload, nil
}

// ToggleFavorite persists the favorite flag for the current user. Any
// failure, including an explicit rejection, is returned as an error.
func (c *Client) ToggleFavorite(ctx context.Context, peakID string, newValue bool) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(peakID) == "" {
		return fmt.Errorf("peak id required")
	}
	rel := peakPath(peakID, "/favorite")
	var payload FavoriteResponse
	if err := c.doURL(ctx, http.MethodPost, rel, FavoriteRequest{NewValue: newValue}, &payload); err != nil {
		return err
	}
	if !payload.Success {
		if payload.Error != "" {
			return fmt.Errorf("%w: %s", ErrToggleRejected, payload.Error)
		}
		return ErrToggleRejected
	}
	return nil
}

func (c *Client) validPeaks(peaks []Peak) []Peak {
	out := peaks[:0]
	for _, p := range peaks {
		if err := c.validate.Struct(p); err != nil {
			c.logger.Warn("dropping invalid peak record",
				zap.String("peak_id", p.ID),
				zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body any, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", rel.Path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// peakPath keeps identifiers containing reserved characters intact by
// carrying both the raw and the escaped path.
func peakPath(id, suffix string) *url.URL {
	return &url.URL{
		Path:    "/api/peaks/" + id + suffix,
		RawPath: "/api/peaks/" + url.PathEscape(id) + suffix,
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
