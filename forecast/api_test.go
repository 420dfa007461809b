package forecast

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const (
	testToken   = "test-token"
	testAccount = 123
)

func newTestAPI(t *testing.T, handler http.HandlerFunc, opts ...Option) *API {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL)}, opts...)
	api, err := New(testToken, AccountIDOf(testAccount), zerolog.Nop(), opts...)
	require.NoError(t, err)
	return api
}

func respond(t *testing.T, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(body))
		assert.NoError(t, err)
	}
}

func TestNew(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name      string
		token     string
		accountID AccountID
		opts      []Option
		wantErr   error
	}{
		{name: "valid config", token: testToken, accountID: AccountIDOf(1)},
		{name: "missing token", accountID: AccountIDOf(1), wantErr: ErrAccessTokenRequired},
		{name: "missing account", token: testToken, wantErr: ErrAccountIDRequired},
		{
			name:      "custom authenticator without token",
			accountID: AccountIDOf(1),
			opts:      []Option{WithAuthenticator(func(context.Context, *http.Request) error { return nil })},
		},
		{
			name:      "relative base URL",
			token:     testToken,
			accountID: AccountIDOf(1),
			opts:      []Option{WithBaseURL("api.forecastapp.com")},
			wantErr:   ErrInvalidBaseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, err := New(tt.token, tt.accountID, logger, tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.accountID, api.AccountID())
		})
	}
}

func TestAPIOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("defaults", func(t *testing.T) {
		api, err := New(testToken, AccountIDOf(1), logger)
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, api.baseURL)
		assert.Equal(t, 30*time.Second, api.httpClient.Timeout)
		assert.Equal(t, DefaultUserAgent, api.userAgent)
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		api, err := New(testToken, AccountIDOf(1), logger, WithBaseURL("http://localhost:8080/"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", api.baseURL)
	})

	t.Run("with timeout", func(t *testing.T) {
		api, err := New(testToken, AccountIDOf(1), logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, api.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		api, err := New(testToken, AccountIDOf(1), logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, api.httpClient)
	})
}

func TestProjects(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/projects", r.URL.Path)
		assert.Equal(t, "/projects", r.RequestURI)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, "123", r.Header.Get(AccountHeader))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))

		fmt.Fprint(w, `{"projects":[{"id":1,"name":"First"},{"id":2,"name":"Second"}]}`)
	})

	projects, err := api.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, ProjectIDOf(1), projects[0].ID)
	assert.Equal(t, ProjectIDOf(2), projects[1].ID)
	assert.Equal(t, "Second", projects[1].Name)
}

func TestSingleResourcePaths(t *testing.T) {
	var got []string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.Path)
		switch r.URL.Path {
		case "/whoami":
			fmt.Fprint(w, `{"current_user":{"id":12,"account_ids":[123]}}`)
		case "/accounts/123":
			fmt.Fprint(w, `{"account":{"id":123,"name":"Studio","weekly_capacity":144000}}`)
		case "/projects/42":
			fmt.Fprint(w, `{"project":{"id":42,"name":"Website"}}`)
		case "/clients/3":
			fmt.Fprint(w, `{"client":{"id":3,"name":"Acme"}}`)
		case "/people/12":
			fmt.Fprint(w, `{"person":{"id":12,"first_name":"Ada","last_name":"Lovelace"}}`)
		case "/placeholders/2":
			fmt.Fprint(w, `{"placeholder":{"id":2,"name":"Designer"}}`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	me, err := api.WhoAmI(ctx)
	require.NoError(t, err)
	assert.Equal(t, PersonIDOf(12), me.ID)
	assert.Equal(t, []AccountID{AccountIDOf(testAccount)}, me.AccountIDs)

	account, err := api.Account(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Studio", account.Name)
	require.NotNil(t, account.WeeklyCapacity)
	assert.Equal(t, 40.0, account.WeeklyCapacity.Hours())

	project, err := api.Project(ctx, ProjectIDOf(42))
	require.NoError(t, err)
	assert.Equal(t, "Website", project.Name)

	client, err := api.Client(ctx, ClientIDOf(3))
	require.NoError(t, err)
	assert.Equal(t, "Acme", client.Name)

	person, err := api.Person(ctx, PersonIDOf(12))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", person.FullName())

	placeholder, err := api.Placeholder(ctx, PlaceholderIDOf(2))
	require.NoError(t, err)
	assert.Equal(t, "Designer", placeholder.Name)

	assert.Equal(t, []string{"/whoami", "/accounts/123", "/projects/42", "/clients/3", "/people/12", "/placeholders/2"}, got)
}

func TestAssignmentsQuery(t *testing.T) {
	var rawQuery, requestURI string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery, requestURI = r.URL.RawQuery, r.RequestURI
		fmt.Fprint(w, `{"assignments":[{"id":5,"project_id":7,"person_id":12,"start_date":"2024-03-05","end_date":"2024-03-06","allocation":14400}]}`)
	})
	ctx := context.Background()

	t.Run("no filter fields", func(t *testing.T) {
		_, err := api.Assignments(ctx, AssignmentFilter{})
		require.NoError(t, err)
		assert.Equal(t, "", rawQuery)
		assert.Equal(t, "/assignments", requestURI)
	})

	t.Run("with filter", func(t *testing.T) {
		project := ProjectIDOf(7)
		start := NewDate(2024, time.March, 5)
		assignments, err := api.Assignments(ctx, AssignmentFilter{ProjectID: &project, StartDate: &start})
		require.NoError(t, err)
		assert.Equal(t, "project_id=7&start_date=2024-03-05", rawQuery)

		require.Len(t, assignments, 1)
		a := assignments[0]
		assert.Equal(t, ProjectIDOf(7), a.ProjectID)
		require.NotNil(t, a.PersonID)
		assert.Equal(t, PersonIDOf(12), *a.PersonID)
		assert.Equal(t, 2, a.Days())
		assert.Equal(t, "4h", a.Allocation.String())
		assert.False(t, a.IsPlaceholder())
	})
}

func TestMilestones(t *testing.T) {
	var queries []string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/milestones", r.URL.Path)
		queries = append(queries, r.URL.RawQuery)
		fmt.Fprint(w, `{"milestones":[{"id":1,"name":"Launch","date":"2024-06-01","project_id":7}]}`)
	})
	ctx := context.Background()

	milestones, err := api.Milestones(ctx)
	require.NoError(t, err)
	require.Len(t, milestones, 1)
	assert.Equal(t, NewDate(2024, time.June, 1), *milestones[0].Date)

	_, err = api.MilestonesFiltered(ctx, MilestoneFilter{ProjectIDs: []ProjectID{ProjectIDOf(7), ProjectIDOf(8)}})
	require.NoError(t, err)

	assert.Equal(t, []string{"", "project_id=7%2C8"}, queries)
}

func TestListEndpoints(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clients":
			fmt.Fprint(w, `{"clients":[{"id":1,"name":"Acme"}]}`)
		case "/people":
			fmt.Fprint(w, `{"people":[]}`)
		case "/placeholders":
			fmt.Fprint(w, `{"placeholders":[{"id":2,"name":"Designer","roles":["Design"]}]}`)
		}
	})
	ctx := context.Background()

	clients, err := api.Clients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)

	people, err := api.People(ctx)
	require.NoError(t, err)
	assert.NotNil(t, people)
	assert.Empty(t, people)

	placeholders, err := api.Placeholders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Design"}, placeholders[0].Roles)
}

func TestMalformedEnvelope(t *testing.T) {
	api := newTestAPI(t, respond(t, `{"data":[{"id":1,"name":"First"}]}`))

	projects, err := api.Projects(context.Background())
	assert.Nil(t, projects)
	require.ErrorIs(t, err, ErrMalformedEnvelope)

	var eerr *EnvelopeError
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, "projects", eerr.Key)
}

func TestDecodeFailureThroughPipeline(t *testing.T) {
	api := newTestAPI(t, respond(t, `{"project":null}`))

	_, err := api.Project(context.Background(), ProjectIDOf(1))
	assert.ErrorIs(t, err, ErrDecodeFailure)
}

func TestHTTPErrors(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusUnauthorized} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				fmt.Fprint(w, `<html>not json</html>`)
			})

			_, err := api.Projects(context.Background())
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrMalformedEnvelope)
			assert.NotErrorIs(t, err, ErrDecodeFailure)

			var herr *HTTPError
			require.ErrorAs(t, err, &herr)
			assert.Equal(t, status, herr.StatusCode)
			assert.Equal(t, http.MethodGet, herr.Method)
			assert.Equal(t, `<html>not json</html>`, herr.Body)
			assert.Equal(t, status == http.StatusNotFound, herr.IsNotFound())
			assert.Equal(t, status == http.StatusUnauthorized, herr.IsUnauthorized())
		})
	}
}

func TestTransportError(t *testing.T) {
	var hits atomic.Int32
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.People(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.MethodGet, terr.Method)
	assert.Equal(t, int32(0), hits.Load())
}

func TestAuthenticatorHook(t *testing.T) {
	var calls atomic.Int32
	trace := func(_ context.Context, req *http.Request) error {
		calls.Add(1)
		req.Header.Set("X-Trace", "abc")
		return nil
	}

	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer other", r.Header.Get("Authorization"))
		assert.Equal(t, "123", r.Header.Get(AccountHeader))
		assert.Equal(t, "abc", r.Header.Get("X-Trace"))
		fmt.Fprint(w, `{"clients":[]}`)
	}, WithAuthenticator(ChainAuthenticators(BearerAuthenticator("other", AccountIDOf(testAccount)), nil, trace)))

	_, err := api.Clients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAuthenticatorError(t *testing.T) {
	var hits atomic.Int32
	errNoToken := errors.New("token source empty")

	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, WithAuthenticator(func(context.Context, *http.Request) error { return errNoToken }))

	_, err := api.Clients(context.Background())
	assert.ErrorIs(t, err, errNoToken)
	assert.Equal(t, int32(0), hits.Load())
}

func TestConcurrentCalls(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"person":{"id":%s}}`, r.URL.Path[len("/people/"):])
	})

	g, ctx := errgroup.WithContext(context.Background())
	for i := int64(1); i <= 20; i++ {
		g.Go(func() error {
			person, err := api.Person(ctx, PersonIDOf(i))
			if err != nil {
				return err
			}
			if person.ID != PersonIDOf(i) {
				return fmt.Errorf("got person %s, want %d", person.ID, i)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
