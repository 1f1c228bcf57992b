// Package callback extracts provider credentials from the opaque redirect
// URL the identity provider hands back after a browser login. The provider
// encodes the tokens either after a '#' fragment delimiter or as ordinary
// query parameters; both forms are accepted. Extraction is a pure parse:
// no network I/O, no side effects.
package callback

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedCallback is returned when a required parameter cannot be
// located in the callback URL. Callers surface this as "check your
// callback URL" rather than treating it as a crash.
var ErrMalformedCallback = errors.New("malformed callback URL")

// Credentials are the raw provider tokens carried by the redirect URL.
// They are transient: handed to the backend exchange once and discarded.
type Credentials struct {
	AccessToken string
	IDToken     string
	TokenType   string
}

// Extract parses a raw callback URL and returns the provider tokens.
// Values are URL-decoded; unknown parameters are ignored. A missing
// access_token or id_token yields ErrMalformedCallback.
func Extract(rawURL string) (Credentials, error) {
	if strings.TrimSpace(rawURL) == "" {
		return Credentials{}, errors.Wrap(ErrMalformedCallback, "empty URL")
	}

	params, err := callbackParams(rawURL)
	if err != nil {
		return Credentials{}, err
	}

	creds := Credentials{
		AccessToken: params.Get("access_token"),
		IDToken:     params.Get("id_token"),
		TokenType:   params.Get("token_type"),
	}
	if creds.AccessToken == "" {
		return Credentials{}, errors.Wrap(ErrMalformedCallback, "missing access_token")
	}
	if creds.IDToken == "" {
		return Credentials{}, errors.Wrap(ErrMalformedCallback, "missing id_token")
	}
	return creds, nil
}

// callbackParams locates the parameter block of the callback URL. The
// fragment form is checked first since that is what the provider normally
// produces; a fragment that fails to parse or carries no access_token
// falls back to the query form.
func callbackParams(rawURL string) (url.Values, error) {
	base := rawURL
	if idx := strings.Index(rawURL, "#"); idx >= 0 {
		base = rawURL[:idx]
		if params, err := url.ParseQuery(rawURL[idx+1:]); err == nil && params.Get("access_token") != "" {
			return params, nil
		}
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedCallback, "unparseable URL")
	}
	params, err := url.ParseQuery(parsed.RawQuery)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedCallback, "unparseable query")
	}
	return params, nil
}
