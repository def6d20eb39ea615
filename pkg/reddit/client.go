package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "redditminer/pkg/errors"
	"redditminer/pkg/logger"
)

// DefaultUserAgent is a desktop browser string; the listing endpoint throttles
// obvious bot agents much harder.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

// Client issues requests against Reddit's public JSON endpoints
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// NewClient creates a client. jar may be nil for anonymous requests such as
// image downloads.
func NewClient(timeout time.Duration, jar http.CookieJar, userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json",
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("request to %s failed", req.URL.Host),
			Err:     err,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// FetchPage GETs a listing page and returns the raw status and body. Non-200
// statuses are not errors here; the caller decides what they mean.
func (c *Client) FetchPage(pageURL string) (int, []byte, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, nil, &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: "failed to create request",
			Err:     err,
		}
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: "failed to read response body",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	return resp.StatusCode, body, nil
}

// DownloadImage fetches an image. Non-200 statuses map to typed errors so
// retry policies can tell transient failures from permanent ones.
func (c *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeDownload,
			Message: fmt.Sprintf("invalid image URL %q", imageURL),
			Err:     err,
		}
	}
	req.Header.Set("Accept", "image/*,*/*;q=0.8")

	resp, err := c.httpClient.Do(c.withHeaders(req))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("request to %s failed", req.URL.Host),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.FromStatusCode(resp.StatusCode, fmt.Sprintf("unexpected status downloading %s", imageURL))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: "failed to read image body",
			Err:     err,
		}
	}

	return data, nil
}

// withHeaders applies every configured header except Accept, which image
// requests set themselves.
func (c *Client) withHeaders(req *http.Request) *http.Request {
	for key, value := range c.headers {
		if key == "Accept" {
			continue
		}
		req.Header.Set(key, value)
	}
	return req
}
