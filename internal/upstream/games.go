package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/youssefMoMo/youssef-portfolio/internal/config"
	"github.com/youssefMoMo/youssef-portfolio/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// GameAPI is the outbound surface of the three game services. Batch lookups
// return maps keyed by universe ID; absent entries mean the upstream had no
// data for that universe.
type GameAPI interface {
	ResolveUniverse(ctx context.Context, placeID string) (string, error)
	GetGames(ctx context.Context, universeIDs []string) (map[string]domain.GameInfo, error)
	GetIcons(ctx context.Context, universeIDs []string) (map[string]string, error)
}

type gameClient struct {
	rl         ratelimit.Limiter
	config     config.UpstreamConfig
	httpClient *resty.Client
	allowed    map[string]struct{}
}

func NewGameClient(cfg config.UpstreamConfig) GameAPI {
	client := resty.New().
		SetTimeout(cfg.RequestTimeout()).
		SetRedirectPolicy(resty.NoRedirectPolicy()).
		SetHeader("Accept", "application/json")

	allowed := make(map[string]struct{}, len(cfg.AllowedHosts))
	for _, host := range cfg.AllowedHosts {
		allowed[strings.ToLower(host)] = struct{}{}
	}

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &gameClient{
		rl:         ratelimit.New(rps),
		config:     cfg,
		httpClient: client,
		allowed:    allowed,
	}
}

// ResolveUniverse maps a place ID to its universe ID. Callers treat any
// error as "use the place ID as-is".
func (c *gameClient) ResolveUniverse(ctx context.Context, placeID string) (string, error) {
	var out struct {
		UniverseID json.Number `json:"universeId"`
	}

	endpoint := fmt.Sprintf("%s/universes/v1/places/%s/universe", c.config.APIBaseURL, placeID)
	if err := c.fetchJSON(ctx, endpoint, &out); err != nil {
		return "", err
	}

	universeID := out.UniverseID.String()
	if universeID == "" {
		return "", fmt.Errorf("universe lookup for place %s returned no universeId", placeID)
	}
	return universeID, nil
}

// GetGames fetches name and visit count for a batch of universe IDs.
func (c *gameClient) GetGames(ctx context.Context, universeIDs []string) (map[string]domain.GameInfo, error) {
	var out struct {
		Data []struct {
			ID     json.Number `json:"id"`
			Name   string      `json:"name"`
			Visits any         `json:"visits"`
		} `json:"data"`
	}

	endpoint := fmt.Sprintf("%s/v1/games?universeIds=%s",
		c.config.GamesBaseURL, url.QueryEscape(strings.Join(universeIDs, ",")))
	if err := c.fetchJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}

	games := make(map[string]domain.GameInfo, len(out.Data))
	for _, entry := range out.Data {
		games[entry.ID.String()] = domain.GameInfo{
			Name:   entry.Name,
			Visits: truncateVisits(entry.Visits),
		}
	}
	return games, nil
}

// GetIcons fetches the icon URL for a batch of universe IDs. Entries whose
// thumbnail is still pending are skipped.
func (c *gameClient) GetIcons(ctx context.Context, universeIDs []string) (map[string]string, error) {
	var out struct {
		Data []struct {
			TargetID json.Number `json:"targetId"`
			State    string      `json:"state"`
			ImageURL string      `json:"imageUrl"`
		} `json:"data"`
	}

	endpoint := fmt.Sprintf("%s/v1/games/icons?universeIds=%s&size=150x150&format=Png",
		c.config.ThumbnailsBaseURL, url.QueryEscape(strings.Join(universeIDs, ",")))
	if err := c.fetchJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}

	icons := make(map[string]string, len(out.Data))
	for _, entry := range out.Data {
		if entry.State != "" && entry.State != "Completed" {
			continue
		}
		if entry.ImageURL == "" {
			continue
		}
		icons[entry.TargetID.String()] = entry.ImageURL
	}
	return icons, nil
}

func (c *gameClient) fetchJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.checkHost(endpoint); err != nil {
		return err
	}

	c.rl.Take()

	reqCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout())
	defer cancel()

	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		Get(endpoint)

	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}

	if resp.IsError() {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	if err := json.Unmarshal([]byte(resp.String()), out); err != nil {
		return fmt.Errorf("malformed response from %s: %w", endpoint, err)
	}

	log.Debugf("fetched %s", endpoint)
	return nil
}

// checkHost refuses any outbound URL whose host is not on the allow-list,
// before a connection is attempted.
func (c *gameClient) checkHost(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid upstream URL: %w", err)
	}
	if _, ok := c.allowed[strings.ToLower(u.Hostname())]; !ok {
		return fmt.Errorf("upstream host %q is not allow-listed", u.Hostname())
	}
	return nil
}

// truncateVisits coerces whatever the games API put in the visits field to a
// truncated integer, or nil when it is not numeric.
func truncateVisits(v any) *int64 {
	switch n := v.(type) {
	case float64:
		t := int64(n)
		return &t
	case json.Number:
		if f, err := n.Float64(); err == nil {
			t := int64(f)
			return &t
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			t := int64(f)
			return &t
		}
	}
	return nil
}
