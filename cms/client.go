package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/sasch040/salesacademy-sub000/config"
)

var (
	// ErrUnavailable covers timeouts, connection failures and 5xx answers
	// from the CMS. Callers surface it as failure, no retry here.
	ErrUnavailable = errors.New("cms unavailable")
	// ErrNotFound is returned for 404 answers on by-id lookups.
	ErrNotFound = errors.New("cms entity not found")
	// ErrBadShape marks a structurally unexpected CMS response.
	ErrBadShape = errors.New("unexpected cms response shape")
	// ErrInvalidCredentials is returned when the CMS rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// errRejected marks any other 4xx answer from the CMS.
	errRejected = errors.New("cms rejected request")
)

func errorsIsRejection(err error) bool {
	return errors.Is(err, errRejected)
}

// Client talks to the headless CMS that is the system of record for users,
// courses, quiz sets, sales materials and progress records.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.CMSBaseURL,
		token:   cfg.CMSToken,
		http:    &http.Client{Timeout: cfg.CMSTimeout},
		log:     logger,
	}
}

// request performs one call against the CMS API and decodes the JSON answer
// into out (skipped when out is nil). All transport-level failures and 5xx
// statuses collapse into ErrUnavailable.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return fmt.Errorf("%w: %s %s timed out", ErrUnavailable, method, path)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		c.log.Warn("cms returned server error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: %s %s status %d", errRejected, method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.request(ctx, http.MethodGet, path, query, nil, out)
}
