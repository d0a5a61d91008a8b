package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/apperrors"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/session"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// Client is the single way the BFF reaches the backend. One request per
// call, no retries and no client-side timeout: the caller's context bounds it.
type Client struct {
	endpoints Endpoints
	http      *http.Client
	log       zerolog.Logger
}

type Option func(*Client)

// WithTransport replaces the underlying round tripper. The bearer layer is
// always kept on top of it.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = &bearerTransport{base: rt}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(apiURL string, opts ...Option) *Client {
	c := &Client{
		endpoints: NewEndpoints(apiURL),
		http:      &http.Client{Transport: &bearerTransport{base: http.DefaultTransport}},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Network(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug().Str("method", method).Str("url", target).Int("status", resp.StatusCode).Msg("backend call failed")
		return apperrors.FromStatus(resp.StatusCode, backendMessage(raw))
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, target, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, target string, in, out any) error {
	if in == nil {
		return c.do(ctx, method, target, nil, "", out)
	}
	payload, err := sonic.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, target, bytes.NewReader(payload), "application/json", out)
}

// backendMessage pulls the human readable reason out of an error body.
func backendMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := sonic.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func (c *Client) course(id string, rest ...string) string {
	parts := append([]string{c.endpoints.Courses, url.PathEscape(id)}, rest...)
	return strings.Join(parts, "/")
}

func (c *Client) user(id string, rest ...string) string {
	parts := append([]string{c.endpoints.Users, url.PathEscape(id)}, rest...)
	return strings.Join(parts, "/")
}

// sameOrigin reports whether target is served by the backend itself.
func (c *Client) sameOrigin(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	base, err := url.Parse(c.endpoints.Base)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, base.Scheme) && strings.EqualFold(u.Host, base.Host)
}

// anonymous strips the identity so the bearer layer sends nothing.
func anonymous(ctx context.Context) context.Context {
	return session.WithIdentity(ctx, session.Identity{})
}
