// Package freshservice reads tickets, agents and assets from the
// Freshservice v2 API.
package freshservice

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

	"github.com/rs/zerolog"

	"itsync/internal/config"
	"itsync/internal/core/domain"
	coreerrors "itsync/internal/core/errors"
)

const (
	perPage  = 100
	maxPages = 1000
)

var (
	errUnexpectedStatusCode = errors.New("unexpected status code")
	errTooManyPages         = errors.New("page limit reached")
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(cfg config.FreshserviceConfig, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	base := cfg.BaseURL
	if base == "" {
		base = "https://" + cfg.Domain
	}

	return &Client{baseURL: base, apiKey: cfg.APIKey, http: httpClient, log: log}
}

// Agents returns every active agent.
func (c *Client) Agents(ctx context.Context) ([]domain.Agent, error) {
	q := url.Values{"active": {"true"}}

	var agents []domain.Agent

	err := c.paginate(ctx, "/api/v2/agents", q, func(body []byte) (int, error) {
		var page agentsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return 0, err
		}

		for _, a := range page.Agents {
			agents = append(agents, domain.Agent{ID: a.ID, Email: a.Email})
		}

		return len(page.Agents), nil
	})
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindUpstream, err, "failed to fetch agents")
	}

	c.log.Info().Int("agents", len(agents)).Msg("fetch complete")

	return agents, nil
}

// Tickets returns tickets updated since the given time, with requester and stats.
func (c *Client) Tickets(ctx context.Context, updatedSince time.Time) ([]domain.Ticket, error) {
	q := url.Values{
		"include":       {"requester,stats"},
		"updated_since": {updatedSince.UTC().Format(time.RFC3339)},
	}

	var tickets []domain.Ticket

	err := c.paginate(ctx, "/api/v2/tickets", q, func(body []byte) (int, error) {
		var page ticketsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return 0, err
		}

		for _, t := range page.Tickets {
			tickets = append(tickets, t.toDomain())
		}

		return len(page.Tickets), nil
	})
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindUpstream, err, "failed to fetch tickets")
	}

	c.log.Info().Int("tickets", len(tickets)).Time("updated_since", updatedSince).Msg("fetch complete")

	return tickets, nil
}

// Assets returns every asset.
func (c *Client) Assets(ctx context.Context) ([]domain.Asset, error) {
	var assets []domain.Asset

	err := c.paginate(ctx, "/api/v2/assets", url.Values{}, func(body []byte) (int, error) {
		var page assetsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return 0, err
		}

		for _, a := range page.Assets {
			assets = append(assets, a.toDomain())
		}

		return len(page.Assets), nil
	})
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindUpstream, err, "failed to fetch assets")
	}

	c.log.Info().Int("assets", len(assets)).Msg("fetch complete")

	return assets, nil
}

// paginate requests page 1, 2, ... until fn reports an empty page.
func (c *Client) paginate(ctx context.Context, path string, q url.Values, fn func(body []byte) (int, error)) error {
	q.Set("per_page", strconv.Itoa(perPage))

	for page := 1; ; page++ {
		if page > maxPages {
			return fmt.Errorf("%w: %d", errTooManyPages, maxPages)
		}

		q.Set("page", strconv.Itoa(page))

		body, err := c.get(ctx, c.baseURL+path+"?"+q.Encode())
		if err != nil {
			return err
		}

		n, err := fn(body)
		if err != nil {
			return err
		}

		if n == 0 {
			return nil
		}
	}
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > 1024 {
			body = body[:1024]
		}

		return nil, fmt.Errorf("%w: %d - %s", errUnexpectedStatusCode, resp.StatusCode, body)
	}

	return body, nil
}
