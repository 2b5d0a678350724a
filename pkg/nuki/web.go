package nuki

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const WEB_API_URL = "https://api.nuki.io"

type WebHTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries uint64
	logger     *zap.Logger
}

func CreateWebHTTPClient(baseURL string, token string, timeout time.Duration, logger *zap.Logger) *WebHTTPClient {
	if baseURL == "" {
		baseURL = WEB_API_URL
	}
	return &WebHTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: 2,
		logger:     logger,
	}
}

// SmartlockLogs returns the most recent log entries of every smartlock
// in the account, newest first.
func (c *WebHTTPClient) SmartlockLogs(ctx context.Context, limit uint) ([]LogEntry, error) {
	var logs []LogEntry
	u := fmt.Sprintf("%s/smartlock/log?limit=%d", c.baseURL, limit)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	err := backoff.RetryNotify(func() error {
		err := getJSON(ctx, c.httpClient, u, header, &logs)
		if errors.Is(err, ErrUnauthorized) {
			return backoff.Permanent(err)
		}
		return err
	}, bo, func(err error, d time.Duration) {
		c.logger.Warn("nuki web request failed", zap.Duration("retry_in", d), zap.Error(err))
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// ensure interface compliance
var _ WebReader = (*WebHTTPClient)(nil)
