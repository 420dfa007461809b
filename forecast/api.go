package forecast

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
)

// API is a Forecast API client scoped to one account. It holds only
// configuration fixed at construction and is safe for concurrent use.
type API struct {
	baseURL    string
	accountID  AccountID
	httpClient *http.Client
	userAgent  string
	auth       Authenticator
	logger     zerolog.Logger
}

// New creates an API client for accountID. The access token may be empty
// only when WithAuthenticator supplies the credentials.
func New(accessToken string, accountID AccountID, logger zerolog.Logger, opts ...Option) (*API, error) {
	options := &apiOptions{
		baseURL:   DefaultBaseURL,
		timeout:   30 * time.Second,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(options)
	}

	if accountID.Int64() == 0 {
		return nil, ErrAccountIDRequired
	}
	if options.authenticator == nil {
		if accessToken == "" {
			return nil, ErrAccessTokenRequired
		}
		options.authenticator = BearerAuthenticator(accessToken, accountID)
	}

	baseURL := strings.TrimRight(options.baseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, options.baseURL)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
		httpClient.Timeout = options.timeout
	}

	return &API{
		baseURL:    baseURL,
		accountID:  accountID,
		httpClient: httpClient,
		userAgent:  options.userAgent,
		auth:       options.authenticator,
		logger:     logger.With().Str("component", "forecast").Logger(),
	}, nil
}

// AccountID returns the account the client is scoped to.
func (a *API) AccountID() AccountID {
	return a.accountID
}

// WhoAmI returns the user the credentials belong to.
func (a *API) WhoAmI(ctx context.Context) (CurrentUser, error) {
	return getOne[CurrentUser](ctx, a, "whoami", "current_user", nil)
}

// Account returns the account the client is scoped to.
func (a *API) Account(ctx context.Context) (Account, error) {
	return getOne[Account](ctx, a, "accounts/"+a.accountID.String(), "account", nil)
}

// Assignments returns the assignments matching f.
func (a *API) Assignments(ctx context.Context, f AssignmentFilter) ([]Assignment, error) {
	return getList[Assignment](ctx, a, "assignments", "assignments", f)
}

// Projects returns every project.
func (a *API) Projects(ctx context.Context) ([]Project, error) {
	return getList[Project](ctx, a, "projects", "projects", nil)
}

// Project returns one project.
func (a *API) Project(ctx context.Context, id ProjectID) (Project, error) {
	return getOne[Project](ctx, a, "projects/"+id.String(), "project", nil)
}

// Clients returns every client.
func (a *API) Clients(ctx context.Context) ([]Client, error) {
	return getList[Client](ctx, a, "clients", "clients", nil)
}

// Client returns one client.
func (a *API) Client(ctx context.Context, id ClientID) (Client, error) {
	return getOne[Client](ctx, a, "clients/"+id.String(), "client", nil)
}

// Milestones returns every milestone.
func (a *API) Milestones(ctx context.Context) ([]Milestone, error) {
	return getList[Milestone](ctx, a, "milestones", "milestones", nil)
}

// MilestonesFiltered returns the milestones matching f.
func (a *API) MilestonesFiltered(ctx context.Context, f MilestoneFilter) ([]Milestone, error) {
	return getList[Milestone](ctx, a, "milestones", "milestones", f)
}

// People returns every person.
func (a *API) People(ctx context.Context) ([]Person, error) {
	return getList[Person](ctx, a, "people", "people", nil)
}

// Person returns one person.
func (a *API) Person(ctx context.Context, id PersonID) (Person, error) {
	return getOne[Person](ctx, a, "people/"+id.String(), "person", nil)
}

// Placeholders returns every placeholder.
func (a *API) Placeholders(ctx context.Context) ([]Placeholder, error) {
	return getList[Placeholder](ctx, a, "placeholders", "placeholders", nil)
}

// Placeholder returns one placeholder.
func (a *API) Placeholder(ctx context.Context, id PlaceholderID) (Placeholder, error) {
	return getOne[Placeholder](ctx, a, "placeholders/"+id.String(), "placeholder", nil)
}
