// Package corpus looks up word frequency ranks from a corpus API. Every
// response is cached on disk, so a warm cache answers lookups offline.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"

	"github.com/wiaanjvr/fluency-next-sub010/internal/config"
)

// Rank is the corpus API response for a single lemma. Rank zero means
// the corpus has no entry for the lemma.
type Rank struct {
	Lemma    string `json:"lemma"`
	Language string `json:"language"`
	Rank     int    `json:"rank"`
}

type Client struct {
	config           config.CorpusConfig
	httpClient       *resty.Client
	fileCache        *FileCache
	maxRetryAttempts uint
}

func NewClient(cfg config.CorpusConfig) *Client {
	return &Client{
		config:           cfg,
		httpClient:       resty.New(),
		fileCache:        NewFileCache(cfg.CacheDirectory),
		maxRetryAttempts: 3,
	}
}

func (c *Client) lookupAPI(ctx context.Context, language, lemma string) ([]byte, error) {
	res, err := c.httpClient.R().
		EnableTrace().
		SetContext(ctx).
		SetHeader("x-corpus-key", c.config.Key).
		Get(
			fmt.Sprintf("https://%s/v1/ranks/%s/%s", c.config.Host, language, url.PathEscape(lemma)),
		)
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("response error %d: %s", res.StatusCode(), string(res.Body()))
	}
	return res.Body(), nil
}

// Lookup returns the frequency rank for a lemma, reading the file cache
// before calling the API. Only the API response is cached, so a failed
// lookup is tried again on the next call.
func (c *Client) Lookup(ctx context.Context, language, lemma string) (Rank, error) {
	var rank Rank
	contents, err := c.fileCache.cache(language, lemma, func() ([]byte, error) {
		var body []byte
		if err := retry.Do(
			func() error {
				response, err := c.lookupAPI(ctx, language, lemma)
				if err != nil {
					if !isRetryableError(err) {
						return retry.Unrecoverable(err)
					}
					return err
				}
				body = response
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(c.maxRetryAttempts+1),
			retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
				return retry.BackOffDelay(n, err, config)
			}),
		); err != nil {
			return nil, fmt.Errorf("c.lookupAPI > %w", err)
		}
		return body, nil
	})
	if err != nil {
		return rank, fmt.Errorf("c.fileCache.cache > %w", err)
	}
	if err := json.Unmarshal(contents, &rank); err != nil {
		return rank, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return rank, nil
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Retry on network-related errors
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}
