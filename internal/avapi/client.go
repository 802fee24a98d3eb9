package avapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

const (
	DefaultBaseURL = "https://api.av.by"

	catalogPath    = "/offer-types/cars/catalog/brand-items"
	mileagePath    = "/offer-types/cars/mileage-statistics"
	defaultTimeout = 30 * time.Second
)

// Client talks to the AV API
type Client struct {
	client   *http.Client
	baseURL  string
	logger   *logrus.Logger
	limiter  *rate.Limiter
	validate *validator.Validate

	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// ClientOption allows configuring the AV API client
type ClientOption func(*Client)

// WithRetryConfig configures retry behavior
func WithRetryConfig(maxRetries int, initialBackoff, maxBackoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.initialBackoff = initialBackoff
		c.maxBackoff = maxBackoff
	}
}

// WithRateLimit paces requests to perSecond with the given burst. perSecond <= 0 disables pacing.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.client = httpClient
	}
}

// WithTimeout sets the per-request timeout of the underlying HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// NewClient creates an AV API client. An empty token sends unauthenticated requests.
func NewClient(baseURL, token string, logger *logrus.Logger, opts ...ClientOption) *Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = defaultTimeout

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		client:         httpClient,
		baseURL:        strings.TrimRight(baseURL, "/"),
		logger:         logger,
		limiter:        rate.NewLimiter(rate.Limit(2), 1),
		validate:       validator.New(),
		maxRetries:     3,
		initialBackoff: time.Second,
		maxBackoff:     30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.maxRetries < 1 {
		c.maxRetries = 1
	}

	return c
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) nextBackoff(backoff time.Duration) time.Duration {
	return time.Duration(math.Min(float64(backoff*2), float64(c.maxBackoff)))
}

func retryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// get performs a GET with pacing and exponential backoff and decodes the body into result.
// 5xx, 429 and transport failures are retried; any other non-200 status is returned as is.
func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = NewAPIError(0, "request failed", err)
			c.logger.WithFields(logrus.Fields{"path": path, "attempt": attempt + 1}).WithError(err).Warn("AV API request failed")
			if err := c.sleep(ctx, backoff); err != nil {
				return err
			}
			backoff = c.nextBackoff(backoff)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := min(retryAfter(resp, backoff), c.maxBackoff)
			lastErr = NewRateLimitError(wait)
			c.logger.WithFields(logrus.Fields{"path": path, "wait": wait}).Warn("AV API rate limit exceeded")
			if attempt < c.maxRetries-1 {
				if err := c.sleep(ctx, wait); err != nil {
					return err
				}
			}
			backoff = c.nextBackoff(backoff)
			continue
		}

		if err != nil {
			lastErr = NewAPIError(resp.StatusCode, "failed to read response body", err)
			c.logger.WithFields(logrus.Fields{"path": path, "attempt": attempt + 1}).WithError(err).Warn("Failed to read AV API response")
			if attempt < c.maxRetries-1 {
				if err := c.sleep(ctx, backoff); err != nil {
					return err
				}
			}
			backoff = c.nextBackoff(backoff)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return NewNotFoundError(path)
		case resp.StatusCode >= 500:
			lastErr = NewAPIError(resp.StatusCode, string(body), nil)
			if attempt < c.maxRetries-1 {
				if err := c.sleep(ctx, backoff); err != nil {
					return err
				}
			}
			backoff = c.nextBackoff(backoff)
			continue
		case resp.StatusCode != http.StatusOK:
			return NewAPIError(resp.StatusCode, string(body), nil)
		}

		if result != nil {
			if err := json.Unmarshal(body, result); err != nil {
				return NewAPIError(resp.StatusCode, "failed to decode response", err)
			}
		}
		return nil
	}

	if IsRateLimitError(lastErr) {
		return lastErr
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) validateItems(field string, items interface{}) error {
	if err := c.validate.Var(items, "dive"); err != nil {
		return NewValidationError(field, err.Error())
	}
	return nil
}

// ListBrands returns every car brand of the AV catalog
func (c *Client) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := c.get(ctx, catalogPath, nil, &brands); err != nil {
		return nil, err
	}
	if err := c.validateItems("brands", brands); err != nil {
		return nil, err
	}
	return brands, nil
}

// ListModels returns the models of a brand
func (c *Client) ListModels(ctx context.Context, brandID int) ([]models.Model, error) {
	if brandID <= 0 {
		return nil, NewValidationError("brand id", strconv.Itoa(brandID))
	}

	var list []models.Model
	path := fmt.Sprintf("%s/%d/models", catalogPath, brandID)
	if err := c.get(ctx, path, nil, &list); err != nil {
		return nil, err
	}
	if err := c.validateItems("models", list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListGenerations returns the generations of a brand's model
func (c *Client) ListGenerations(ctx context.Context, brandID, modelID int) ([]models.Generation, error) {
	if brandID <= 0 {
		return nil, NewValidationError("brand id", strconv.Itoa(brandID))
	}
	if modelID <= 0 {
		return nil, NewValidationError("model id", strconv.Itoa(modelID))
	}

	var generations []models.Generation
	path := fmt.Sprintf("%s/%d/models/%d/generations", catalogPath, brandID, modelID)
	if err := c.get(ctx, path, nil, &generations); err != nil {
		return nil, err
	}
	if err := c.validateItems("generations", generations); err != nil {
		return nil, err
	}
	return generations, nil
}

// ListMileageCars returns the sold-listing statistics for one model year of a generation
func (c *Client) ListMileageCars(ctx context.Context, brandID, modelID, generationID, year int) (*models.MileagePayload, error) {
	switch {
	case brandID <= 0:
		return nil, NewValidationError("brand id", strconv.Itoa(brandID))
	case modelID <= 0:
		return nil, NewValidationError("model id", strconv.Itoa(modelID))
	case generationID <= 0:
		return nil, NewValidationError("generation id", strconv.Itoa(generationID))
	case year <= 0:
		return nil, NewValidationError("year", strconv.Itoa(year))
	}

	query := url.Values{}
	query.Set("brand", strconv.Itoa(brandID))
	query.Set("model", strconv.Itoa(modelID))
	query.Set("generation", strconv.Itoa(generationID))
	query.Set("year", strconv.Itoa(year))

	var payload models.MileagePayload
	if err := c.get(ctx, mileagePath, query, &payload); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"brand_id":      brandID,
		"model_id":      modelID,
		"generation_id": generationID,
		"year":          year,
		"sold_adverts":  len(payload.LastSoldAdverts),
	}).Debug("Fetched mileage statistics")

	return &payload, nil
}
