package forecast

import (
	"net/http"
	"time"
)

// DefaultBaseURL is the public Forecast API host.
const DefaultBaseURL = "https://api.forecastapp.com"

// DefaultUserAgent is sent unless WithUserAgent overrides it.
const DefaultUserAgent = "forecastctl"

// Option configures an API.
type Option func(*apiOptions)

// apiOptions holds configuration options for the API.
type apiOptions struct {
	baseURL       string
	httpClient    *http.Client
	timeout       time.Duration
	userAgent     string
	authenticator Authenticator
}

// WithBaseURL overrides the API host, e.g. for a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *apiOptions) {
		o.baseURL = baseURL
	}
}

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *apiOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client. It has no effect
// together with WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(o *apiOptions) {
		o.timeout = timeout
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *apiOptions) {
		o.userAgent = userAgent
	}
}

// WithAuthenticator replaces the default bearer authenticator. Combine it
// with BearerAuthenticator through ChainAuthenticators to add headers
// rather than replace them.
func WithAuthenticator(auth Authenticator) Option {
	return func(o *apiOptions) {
		o.authenticator = auth
	}
}
