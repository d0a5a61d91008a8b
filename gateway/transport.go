package gateway

import (
	"net/http"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/session"
	"golang.org/x/oauth2"
)

// bearerTransport attaches the caller's token, read from the request context
// at call time, so a login or logout takes effect on the very next call.
type bearerTransport struct {
	base http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := session.TokenFromContext(req.Context())
	if token == "" {
		return t.base.RoundTrip(req)
	}
	authed := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   t.base,
	}
	return authed.RoundTrip(req)
}
