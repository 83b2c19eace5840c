package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
)

// DefaultTimeout bounds a request when the caller's context has no
// deadline.
const DefaultTimeout = 10 * time.Second

// Client talks to a leaderboard server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout on the client configured so
// far, including one given by an earlier WithHTTPClient. That client is
// copied, not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger sets the logger used for dropped entries and request traces.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient returns a client for the server at baseURL, for example
// "http://localhost:9000".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitBestTime posts a winning time. Only 201 Created counts as
// success; any other status is returned as a *StatusError.
func (c *Client) SubmitBestTime(ctx context.Context, username string, seconds int, d minesweeper.Difficulty) error {
	body, err := json.Marshal(submission{Username: username, Time: seconds, Mode: string(d)})
	if err != nil {
		return fmt.Errorf("leaderboard: cannot encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+Path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("leaderboard: cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("leaderboard: submit: %w", err)
	}
	defer drain(resp.Body)

	c.logger.Debug("submitted time", "status", resp.StatusCode, "mode", d, "time", seconds)
	if resp.StatusCode != http.StatusCreated {
		return newStatusError("submit", resp)
	}
	return nil
}

// FetchLeaderboard retrieves the standings of every difficulty. Only
// 200 OK counts as success. Keys that are not a known difficulty are
// dropped with a warning, and each list is sorted by time.
func (c *Client) FetchLeaderboard(ctx context.Context) (Standings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+Path, nil)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: fetch: %w", err)
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError("fetch", resp)
	}

	var raw map[string][]Entry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("leaderboard: cannot decode standings: %w", err)
	}

	standings := make(Standings, len(raw))
	for key, entries := range raw {
		d, err := minesweeper.ParseDifficulty(key)
		if err != nil {
			c.logger.Warn("skipping unknown leaderboard mode", "mode", key)
			continue
		}
		standings[d] = entries
	}
	standings.Sort()
	return standings, nil
}

// maxErrorBody caps how much of a failed response is kept in StatusError.
const maxErrorBody = 512

func newStatusError(op string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Op:   op,
		Code: resp.StatusCode,
		Body: strings.TrimSpace(string(body)),
	}
}

func drain(body io.ReadCloser) {
	io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	body.Close()
}

var _ minesweeper.Leaderboard = (*Client)(nil)
