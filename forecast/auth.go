package forecast

import (
	"context"
	"net/http"
)

// AccountHeader carries the account scope of every request.
const AccountHeader = "Forecast-Account-ID"

// Authenticator attaches credentials to an outgoing request. It runs exactly
// once per request, after the URL and query are built and before the request
// is sent. A returned error aborts the request.
type Authenticator func(ctx context.Context, req *http.Request) error

// BearerAuthenticator sets the bearer token and the account scope header.
func BearerAuthenticator(accessToken string, accountID AccountID) Authenticator {
	bearer := "Bearer " + accessToken
	account := accountID.String()
	return func(_ context.Context, req *http.Request) error {
		req.Header.Set("Authorization", bearer)
		req.Header.Set(AccountHeader, account)
		return nil
	}
}

// ChainAuthenticators runs each authenticator in order and stops at the
// first error. Nil entries are skipped.
func ChainAuthenticators(auths ...Authenticator) Authenticator {
	return func(ctx context.Context, req *http.Request) error {
		for _, auth := range auths {
			if auth == nil {
				continue
			}
			if err := auth(ctx, req); err != nil {
				return err
			}
		}
		return nil
	}
}
