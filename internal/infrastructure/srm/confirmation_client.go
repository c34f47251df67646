package srm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	confirmationTimeout = 30 * time.Second

	headerContentType     = "text/xml"
	headerContentEncoding = "utf8"
)

// ConfirmationClient posts synthesized order documents to the remote
// confirmation endpoint. It implements punchout.ConfirmationDispatcher.
// A circuit breaker short-circuits calls while the endpoint is flapping;
// there are no retries.
type ConfirmationClient struct {
	endpoint   *url.URL
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[string]
	logger     *zap.Logger
}

// NewConfirmationClient creates a client for the given confirmation URI.
func NewConfirmationClient(endpoint *url.URL, logger *zap.Logger) *ConfirmationClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ConfirmationClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: confirmationTimeout,
		},
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name: "srm-confirmation",
		}),
		logger: logger,
	}
}

// Dispatch sends the document and returns the raw reply body. Transport
// errors, an unreadable reply and non-2xx statuses all collapse into a
// single dispatch error; the caller decides what that means for the
// process state.
func (c *ConfirmationClient) Dispatch(ctx context.Context, document string) (string, error) {
	body, err := c.breaker.Execute(func() (string, error) {
		return c.post(ctx, document)
	})
	if err != nil {
		c.logger.Warn("Confirmation dispatch failed",
			zap.String("endpoint", c.endpoint.String()),
			zap.Error(err))
		return "", err
	}
	return body, nil
}

func (c *ConfirmationClient) post(ctx context.Context, document string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("srm confirmation: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", headerContentType)
	req.Header.Set("Content-Encoding", headerContentEncoding)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("srm confirmation: request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("srm confirmation: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("srm confirmation: endpoint returned status %d", resp.StatusCode)
	}

	return string(payload), nil
}
