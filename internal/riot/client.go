// Package riot provides a minimal client for the Riot account-v1 and
// Match-V5 APIs — the upstream event source for the detection pipeline.
package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNotFound is returned when the Riot API reports 404 for a resource.
var ErrNotFound = errors.New("riot: not found")

// Client is a Match-V5 API client bound to one regional routing host
// (americas, europe, asia, sea).
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client

	maxRetries int
}

// NewClient returns a client authenticated with the given API key against
// the given regional routing value.
func NewClient(apiKey, region string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    fmt.Sprintf("https://%s.api.riotgames.com", region),
		http:       &http.Client{Timeout: 30 * time.Second},
		maxRetries: 5,
	}
}

// Account holds the fields we need from /riot/account/v1.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// getRaw performs an authenticated GET and returns the raw body. 429
// responses are retried with the server's Retry-After (exponential backoff
// when absent); the raw payload is what gets cached, so callers decode from
// the same bytes the cache will replay.
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := time.Duration(1<<attempt) * time.Second
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					wait = time.Duration(secs) * time.Second
				}
			}
			io.Copy(io.Discard, resp.Body) //nolint:errcheck
			resp.Body.Close()
			select {
			case <-time.After(wait):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("GET %s: %w", path, ErrNotFound)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
		}
		if readErr != nil {
			return nil, fmt.Errorf("GET %s: read body: %w", path, readErr)
		}
		return body, nil
	}
	return nil, fmt.Errorf("GET %s: rate limited after %d attempts", path, c.maxRetries)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.getRaw(ctx, path)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// GetAccountByRiotID resolves a Riot ID (gameName#tagLine) to an account.
func (c *Client) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	var a Account
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s",
		url.PathEscape(gameName), url.PathEscape(tagLine))
	if err := c.getJSON(ctx, path, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetMatchIDs returns up to count recent match IDs for a PUUID. queue 0
// means no queue filter (420 = ranked solo).
func (c *Client) GetMatchIDs(ctx context.Context, puuid string, start, count, queue int) ([]string, error) {
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("count", strconv.Itoa(count))
	if queue > 0 {
		q.Set("queue", strconv.Itoa(queue))
	}
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids?%s", url.PathEscape(puuid), q.Encode())

	var ids []string
	if err := c.getJSON(ctx, path, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetMatchRaw returns the raw match-detail payload for caching.
func (c *Client) GetMatchRaw(ctx context.Context, matchID string) ([]byte, error) {
	return c.getRaw(ctx, "/lol/match/v5/matches/"+url.PathEscape(matchID))
}

// GetTimelineRaw returns the raw timeline payload for caching.
func (c *Client) GetTimelineRaw(ctx context.Context, matchID string) ([]byte, error) {
	return c.getRaw(ctx, "/lol/match/v5/matches/"+url.PathEscape(matchID)+"/timeline")
}
