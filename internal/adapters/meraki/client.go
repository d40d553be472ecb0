// Package meraki reads device availability from the Meraki dashboard API.
package meraki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"itsync/internal/config"
	"itsync/internal/core/domain"
	coreerrors "itsync/internal/core/errors"
)

const perPage = 1000

var (
	errUnexpectedStatusCode = errors.New("unexpected status code")
	errNoOrganizations      = errors.New("no organizations found")
	errTooManyPages         = errors.New("page limit reached")

	nextLinkRe = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="?next"?`)
)

// Client talks to the Meraki dashboard API.
type Client struct {
	cfg  config.MerakiConfig
	http *http.Client
	log  zerolog.Logger
}

func NewClient(cfg config.MerakiConfig, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 100
	}

	return &Client{cfg: cfg, http: httpClient, log: log}
}

// OrganizationID returns the id of the first organization the key can see.
func (c *Client) OrganizationID(ctx context.Context) (string, error) {
	var orgs []organization
	if _, err := c.getJSON(ctx, c.cfg.BaseURL+"/organizations", &orgs); err != nil {
		return "", coreerrors.Wrap(coreerrors.KindUpstream, err, "failed to get organization ID")
	}

	if len(orgs) == 0 {
		return "", coreerrors.Wrap(coreerrors.KindUpstream, errNoOrganizations, "failed to get organization ID")
	}

	c.log.Debug().Str("org_id", orgs[0].ID).Str("org_name", orgs[0].Name).Msg("resolved organization")

	return orgs[0].ID, nil
}

// Devices returns the current availability of every device of the
// configured product types.
func (c *Client) Devices(ctx context.Context, orgID string) ([]domain.Device, error) {
	q := c.productTypesQuery()
	q.Set("perPage", strconv.Itoa(perPage))

	next := fmt.Sprintf("%s/organizations/%s/devices/availabilities?%s", c.cfg.BaseURL, url.PathEscape(orgID), q.Encode())

	var devices []domain.Device

	err := c.paginate(ctx, next, func(body []byte) error {
		var page []deviceAvailability
		if err := json.Unmarshal(body, &page); err != nil {
			return err
		}

		for _, d := range page {
			devices = append(devices, domain.Device{
				Serial:      d.Serial,
				Name:        d.Name,
				ProductType: d.ProductType,
				NetworkID:   d.Network.ID,
				Status:      d.Status,
			})
		}

		return nil
	})
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindUpstream, err, "failed to get device availabilities")
	}

	return devices, nil
}

// StatusHistory returns availability transitions in the lookback period,
// grouped by serial and ascending by timestamp. Equal timestamps keep the
// order of the API's chronological listing.
func (c *Client) StatusHistory(ctx context.Context, orgID string, lookback time.Duration) (map[string][]domain.StatusChangeEvent, error) {
	q := c.productTypesQuery()
	q.Set("perPage", strconv.Itoa(perPage))
	q.Set("timespan", strconv.FormatInt(int64(lookback/time.Second), 10))

	next := fmt.Sprintf("%s/organizations/%s/devices/availabilities/changeHistory?%s", c.cfg.BaseURL, url.PathEscape(orgID), q.Encode())

	var entries []changeHistoryEntry

	err := c.paginate(ctx, next, func(body []byte) error {
		var page []changeHistoryEntry
		if err := json.Unmarshal(body, &page); err != nil {
			return err
		}

		entries = append(entries, page...)

		return nil
	})
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindUpstream, err, "failed to get device histories")
	}

	// The API lists newest first.
	slices.Reverse(entries)
	slices.SortStableFunc(entries, func(a, b changeHistoryEntry) int {
		return a.TS.Compare(b.TS)
	})

	history := make(map[string][]domain.StatusChangeEvent)
	for _, e := range entries {
		history[e.Device.Serial] = append(history[e.Device.Serial], domain.StatusChangeEvent{
			Timestamp:     e.TS,
			PreviousState: status(e.Details.Old),
			NewState:      status(e.Details.New),
		})
	}

	c.log.Debug().Int("entries", len(entries)).Int("devices", len(history)).Msg("fetched change history")

	return history, nil
}

func (c *Client) productTypesQuery() url.Values {
	q := url.Values{}
	for _, t := range c.cfg.ProductTypes {
		q.Add("productTypes[]", t)
	}
	return q
}

// paginate follows Link rel=next headers, handing each page body to fn.
func (c *Client) paginate(ctx context.Context, next string, fn func(body []byte) error) error {
	for page := 0; next != ""; page++ {
		if page >= c.cfg.MaxPages {
			return fmt.Errorf("%w: %d", errTooManyPages, c.cfg.MaxPages)
		}

		resp, err := c.get(ctx, next)
		if err != nil {
			return err
		}

		body, err := io.ReadAll(resp.Body)
		c.closeResponse(resp)
		if err != nil {
			return err
		}

		if err := fn(body); err != nil {
			return err
		}

		next = nextLink(resp.Header.Get("Link"))
	}

	return nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) (http.Header, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer c.closeResponse(resp)

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return nil, err
	}

	return resp.Header, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer c.closeResponse(resp)

		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return nil, fmt.Errorf("%w: %d - %s", errUnexpectedStatusCode, resp.StatusCode, text)
	}

	return resp, nil
}

func (c *Client) closeResponse(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.log.Warn().Err(err).Msg("failed to close response body")
	}
}

func nextLink(header string) string {
	if m := nextLinkRe.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return ""
}
