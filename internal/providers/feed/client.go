package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	"github.com/fortuna/services/scoreboard-view/pkg/models"
	"github.com/google/uuid"
)

const (
	// GameIDPlaceholder is replaced by the game id in single-game URL templates
	GameIDPlaceholder = "{gameId}"

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 512
)

// Client fetches score snapshots from the backend feed
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a new feed client
func New() *Client {
	return NewWithHTTPClient(&http.Client{
		Timeout: defaultTimeout,
	})
}

// NewWithHTTPClient creates a feed client that uses the given HTTP client
func NewWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		userAgent:  "Mozilla/5.0 (compatible; FortunaScoreboard/1.0)",
	}
}

// GameURL expands a single-game URL template
func GameURL(template, gameID string) string {
	if !strings.Contains(template, GameIDPlaceholder) {
		return strings.TrimRight(template, "/") + "/" + gameID
	}
	return strings.ReplaceAll(template, GameIDPlaceholder, gameID)
}

// FetchGame fetches the single-game feed: {"boxscore": {...}, "actions": [...]}
func (c *Client) FetchGame(ctx context.Context, url string) (*models.GameDetail, error) {
	var envelope struct {
		Boxscore json.RawMessage `json:"boxscore"`
		Actions  json.RawMessage `json:"actions"`
	}
	if err := c.fetch(ctx, url, &envelope); err != nil {
		return nil, err
	}

	if isMissing(envelope.Boxscore) {
		return nil, &contracts.ParseError{URL: url, Err: errors.New("missing boxscore")}
	}
	if isMissing(envelope.Actions) {
		return nil, &contracts.ParseError{URL: url, Err: errors.New("missing actions")}
	}

	detail := &models.GameDetail{}
	if err := json.Unmarshal(envelope.Boxscore, &detail.Boxscore); err != nil {
		return nil, &contracts.ParseError{URL: url, Err: fmt.Errorf("decoding boxscore: %w", err)}
	}
	if err := json.Unmarshal(envelope.Actions, &detail.Actions); err != nil {
		return nil, &contracts.ParseError{URL: url, Err: fmt.Errorf("decoding actions: %w", err)}
	}

	return detail, nil
}

// FetchScoreboard fetches the collection feed: {"games": [...]}
func (c *Client) FetchScoreboard(ctx context.Context, url string) (*models.Scoreboard, error) {
	var envelope struct {
		Games json.RawMessage `json:"games"`
	}
	if err := c.fetch(ctx, url, &envelope); err != nil {
		return nil, err
	}

	if isMissing(envelope.Games) {
		return nil, &contracts.ParseError{URL: url, Err: errors.New("missing games")}
	}

	board := &models.Scoreboard{}
	if err := json.Unmarshal(envelope.Games, &board.Games); err != nil {
		return nil, &contracts.ParseError{URL: url, Err: fmt.Errorf("decoding games: %w", err)}
	}

	return board, nil
}

// fetch makes an HTTP GET request and decodes the JSON body into out
func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &contracts.NetworkError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &contracts.NetworkError{URL: url, Err: fmt.Errorf("making request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &contracts.NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &contracts.ParseError{URL: url, Err: fmt.Errorf("decoding response: %w", err)}
	}

	return nil
}

func isMissing(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
