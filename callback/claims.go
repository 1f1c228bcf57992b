package callback

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// TokenClaims are the display hints carried inside the provider access
// token. They exist so the UI can show who is about to log in before the
// backend exchange completes; they are never used for authorization.
type TokenClaims struct {
	Subject  string
	GameName string
	TagLine  string
	Region   string
}

// PeekClaims decodes the provider access token without verifying its
// signature. Verification belongs to the backend during the callback
// exchange; this is strictly a best-effort peek for display purposes.
func PeekClaims(accessToken string) (*TokenClaims, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[PeekClaims] parse access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("[PeekClaims] unexpected claims type")
	}

	tc := &TokenClaims{}
	if sub, ok := claims["sub"].(string); ok {
		tc.Subject = sub
	}
	if acct, ok := claims["acct"].(map[string]any); ok {
		if v, ok := acct["game_name"].(string); ok {
			tc.GameName = v
		}
		if v, ok := acct["tag_line"].(string); ok {
			tc.TagLine = v
		}
		if v, ok := acct["region"].(string); ok {
			tc.Region = v
		}
	}
	return tc, nil
}
