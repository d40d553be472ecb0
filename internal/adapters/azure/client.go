// Package azure reads users from Microsoft Graph for one directory tenant.
package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"itsync/internal/config"
	"itsync/internal/core/domain"
	coreerrors "itsync/internal/core/errors"
)

const (
	graphScope   = "https://graph.microsoft.com/.default"
	selectFields = "id,displayName,userPrincipalName,jobTitle,department,companyName,city,state,accountEnabled,createdDateTime"
)

var errUnexpectedStatusCode = errors.New("unexpected status code")

type user struct {
	ID                string  `json:"id"`
	DisplayName       string  `json:"displayName"`
	UserPrincipalName *string `json:"userPrincipalName"`
	JobTitle          *string `json:"jobTitle"`
	Department        *string `json:"department"`
	CompanyName       *string `json:"companyName"`
	City              *string `json:"city"`
	State             *string `json:"state"`
	AccountEnabled    *bool   `json:"accountEnabled"`
	CreatedDateTime   *string `json:"createdDateTime"`
}

type usersPage struct {
	Value    []user `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// Client reads one tenant's users.
type Client struct {
	tenant   config.AzureTenant
	graphURL string
	maxPages int
	http     *http.Client
	log      zerolog.Logger
}

// NewClient returns a client that authenticates with the tenant's client
// credentials. base is used for token and Graph requests.
func NewClient(ctx context.Context, cfg config.AzureConfig, tenant config.AzureTenant, base *http.Client, log zerolog.Logger) *Client {
	if base == nil {
		base = http.DefaultClient
	}

	cc := clientcredentials.Config{
		ClientID:     tenant.ClientID,
		ClientSecret: tenant.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", cfg.LoginBaseURL, url.PathEscape(tenant.TenantID)),
		Scopes:       []string{graphScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	httpClient := oauth2.NewClient(ctx, cc.TokenSource(ctx))
	httpClient.Timeout = base.Timeout

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 50
	}

	return &Client{
		tenant:   tenant,
		graphURL: cfg.GraphBaseURL,
		maxPages: maxPages,
		http:     httpClient,
		log:      log.With().Str("tenant", tenant.Prefix).Logger(),
	}
}

func (c *Client) Tenant() string { return c.tenant.Prefix }

// Users returns the enabled users whose company is the tenant's company.
func (c *Client) Users(ctx context.Context) ([]domain.DirectoryUser, error) {
	next := c.graphURL + "/users?$select=" + selectFields

	var all []user

	for page := 0; next != "" && page < c.maxPages; page++ {
		var p usersPage
		if err := c.getJSON(ctx, next, &p); err != nil {
			return nil, coreerrors.Wrap(coreerrors.KindUpstream, err,
				fmt.Sprintf("graph users for %s", c.tenant.Prefix))
		}

		all = append(all, p.Value...)
		next = p.NextLink
	}

	if next != "" {
		c.log.Warn().Int("max_pages", c.maxPages).Msg("stopped following user pages at the page limit")
	}

	users := make([]domain.DirectoryUser, 0, len(all))
	for _, u := range all {
		if deref(u.CompanyName) != c.tenant.CompanyName || !deref(u.AccountEnabled) {
			continue
		}

		users = append(users, domain.DirectoryUser{
			ID:                u.ID,
			DisplayName:       u.DisplayName,
			UserPrincipalName: deref(u.UserPrincipalName),
			JobTitle:          deref(u.JobTitle),
			Department:        deref(u.Department),
			CompanyName:       deref(u.CompanyName),
			City:              deref(u.City),
			State:             deref(u.State),
			AccountEnabled:    true,
			CreatedDateTime:   deref(u.CreatedDateTime),
		})
	}

	c.log.Info().Int("total", len(all)).Int("filtered", len(users)).Msg("fetched directory users")

	return users, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %d - %s", errUnexpectedStatusCode, resp.StatusCode, text)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
