package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/reviewboost/reviewboost_be/internal/middleware"
)

// HTTPClient implements Client against the ReviewBoost REST API. The session
// cookie lives in an in-process jar, so the zero value of "current session" is
// whatever the server last set.
//
// OnSessionChange only observes sign-ins and sign-outs made through this
// client; server-side revocation shows up on the next GetSession call.
type HTTPClient struct {
	base string
	http *http.Client

	mu        sync.Mutex
	listeners map[int]func(*Session)
	nextID    int
}

func NewHTTPClient(baseURL string) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		base: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
		listeners: map[int]func(*Session){},
	}, nil
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Data    struct {
		User *struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		Profile *Profile `json:"profile"`
	} `json:"data"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return &env, nil
}

// token digs the session cookie out of the jar, for callers that need it on a
// non-cookie channel (the websocket upgrade).
func (c *HTTPClient) token() string {
	u, err := url.Parse(c.base)
	if err != nil {
		return ""
	}
	for _, ck := range c.http.Jar.Cookies(u) {
		if ck.Name == middleware.SessionCookie {
			return ck.Value
		}
	}
	return ""
}

func (c *HTTPClient) sessionFrom(env *envelope) *Session {
	if env.Data.User == nil {
		return nil
	}
	return &Session{
		UserID: env.Data.User.ID,
		Email:  env.Data.User.Email,
		Token:  c.token(),
	}
}

func (c *HTTPClient) GetSession(ctx context.Context) (*Session, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/auth/session", nil)
	if err != nil {
		return nil, err
	}
	return c.sessionFrom(env), nil
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, apiError(env)
	}
	sess := c.sessionFrom(env)
	c.emit(sess)
	return sess, nil
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, apiError(env)
	}
	sess := c.sessionFrom(env)
	c.emit(sess)
	return sess, nil
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return apiError(env)
	}
	c.emit(nil)
	return nil
}

func (c *HTTPClient) FetchProfile(ctx context.Context, userID string) (*Profile, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/me", nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, apiError(env)
	}
	// a missing profile row is a normal pre-intake state
	return env.Data.Profile, nil
}

func (c *HTTPClient) OnSessionChange(fn func(*Session)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *HTTPClient) emit(sess *Session) {
	c.mu.Lock()
	fns := make([]func(*Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}

// APIError carries the backend's rejection message plus any per-field
// validation errors.
type APIError struct {
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "request rejected"
}

func apiError(env *envelope) error {
	return &APIError{Message: env.Message, Fields: env.Errors}
}
