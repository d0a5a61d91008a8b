package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

const (
	DurableCookie = "remember_id"
	SessionCookie = "session_id"

	keyToken = "token"
	keyUser  = "user"

	// LocalsKey is where the per-request Identity lives on the fiber context.
	LocalsKey = "identity"
)

type Scope int

const (
	ScopeNone Scope = iota
	ScopeDurable
	ScopeSession
)

func (s Scope) String() string {
	switch s {
	case ScopeDurable:
		return "durable"
	case ScopeSession:
		return "session"
	case ScopeNone:
		return "none"
	}
	return "unknown"
}

// Identity is the resolved session handed to handlers and to the API gateway.
type Identity struct {
	Token         string       `json:"-"`
	User          *models.User `json:"user"`
	Authenticated bool         `json:"isAuthenticated"`
	Scope         Scope        `json:"-"`
}

func (i Identity) Role() models.Role {
	return i.User.EffectiveRole()
}

func (i Identity) UserID() string {
	if i.User == nil {
		return ""
	}
	return i.User.ID
}

type Config struct {
	RememberFor  time.Duration
	SessionIdle  time.Duration
	CookieSecure bool
	// Storage backs both scopes; nil means in-process memory.
	Storage fiber.Storage
}

// Store owns the two places an identity may be kept: the durable scope
// (persistent cookie, "remember me") and the session scope (cookie dropped
// when the browser closes). An identity is held by at most one of them.
type Store struct {
	durable scopeStore
	session scopeStore
}

type scopeStore struct {
	scope  Scope
	cookie string
	store  *fibersession.Store
}

func NewStore(cfg Config) *Store {
	if cfg.RememberFor <= 0 {
		cfg.RememberFor = 30 * 24 * time.Hour
	}
	if cfg.SessionIdle <= 0 {
		cfg.SessionIdle = 24 * time.Hour
	}
	return &Store{
		durable: scopeStore{
			scope:  ScopeDurable,
			cookie: DurableCookie,
			store: fibersession.New(fibersession.Config{
				Expiration:     cfg.RememberFor,
				Storage:        cfg.Storage,
				KeyLookup:      "cookie:" + DurableCookie,
				CookieSecure:   cfg.CookieSecure,
				CookieHTTPOnly: true,
				CookieSameSite: "Lax",
			}),
		},
		session: scopeStore{
			scope:  ScopeSession,
			cookie: SessionCookie,
			store: fibersession.New(fibersession.Config{
				Expiration:        cfg.SessionIdle,
				Storage:           cfg.Storage,
				KeyLookup:         "cookie:" + SessionCookie,
				CookieSecure:      cfg.CookieSecure,
				CookieHTTPOnly:    true,
				CookieSameSite:    "Lax",
				CookieSessionOnly: true,
			}),
		},
	}
}

// existing opens the scope's session only when the browser sent its cookie
// and the storage still holds it. fiber's session stores share one
// per-request id slot; an id minted here would shadow the other scope's cookie.
func (s scopeStore) existing(c *fiber.Ctx) (*fibersession.Session, error) {
	id := c.Cookies(s.cookie)
	if id == "" {
		return nil, nil
	}
	raw, err := s.store.Storage.Get(id)
	if err != nil || raw == nil {
		return nil, err
	}
	return s.store.Get(c)
}

// Load reads the identity for this request: durable scope first, session
// scope as fallback. A scope holding only half an identity is ignored.
func (s *Store) Load(c *fiber.Ctx) (Identity, error) {
	for _, sc := range []scopeStore{s.durable, s.session} {
		sess, err := sc.existing(c)
		if err != nil {
			return Identity{}, err
		}
		if sess == nil {
			continue
		}
		token, _ := sess.Get(keyToken).(string)
		raw, _ := sess.Get(keyUser).(string)
		if token == "" || raw == "" {
			continue
		}
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			continue
		}
		return Identity{Token: token, User: &user, Authenticated: true, Scope: sc.scope}, nil
	}
	return Identity{Scope: ScopeNone}, nil
}

// Login writes token and user to the scope picked by remember and clears
// the other one.
func (s *Store) Login(c *fiber.Ctx, token string, user models.User, remember bool) (Identity, error) {
	if token == "" {
		return Identity{}, errors.New("login without token")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return Identity{}, err
	}

	target, other := s.session, s.durable
	if remember {
		target, other = s.durable, s.session
	}

	if err := other.destroy(c); err != nil {
		return Identity{}, err
	}
	sess, err := target.store.Get(c)
	if err != nil {
		return Identity{}, err
	}
	sess.Set(keyToken, token)
	sess.Set(keyUser, string(raw))
	if err := sess.Save(); err != nil {
		return Identity{}, err
	}
	return Identity{Token: token, User: &user, Authenticated: true, Scope: target.scope}, nil
}

// Logout clears both scopes, whichever one held the identity.
func (s *Store) Logout(c *fiber.Ctx) error {
	return errors.Join(s.durable.destroy(c), s.session.destroy(c))
}

func (s scopeStore) destroy(c *fiber.Ctx) error {
	sess, err := s.existing(c)
	if err != nil || sess == nil {
		return err
	}
	return sess.Destroy()
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// TokenFromContext returns the bearer token of the identity carried by ctx,
// or "" when the request is anonymous.
func TokenFromContext(ctx context.Context) string {
	id, ok := FromContext(ctx)
	if !ok || !id.Authenticated {
		return ""
	}
	return id.Token
}

// Current returns the identity resolved for this request by the session middleware.
func Current(c *fiber.Ctx) Identity {
	id, _ := c.Locals(LocalsKey).(Identity)
	return id
}
