// Package session keeps a client-side view of the ReviewBoost auth session:
// who is signed in, their application profile, and whether resolution is still
// in flight. Frontends read snapshots; the store owns all mutation.
package session

import (
	"context"
	"sync"

	"github.com/reviewboost/reviewboost_be/internal/logger"
)

// Session is the authenticated identity as the backend reports it.
type Session struct {
	UserID string
	Email  string
	Token  string
}

// Profile mirrors the profiles row for the signed-in user.
type Profile struct {
	ID        string `json:"id"`
	UserType  string `json:"user_type"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

// Client is the backend surface the store depends on. HTTPClient implements it
// against the REST API; tests inject fakes.
type Client interface {
	GetSession(ctx context.Context) (*Session, error)
	OnSessionChange(fn func(*Session)) (unsubscribe func())
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	FetchProfile(ctx context.Context, userID string) (*Profile, error)
}

type State int

const (
	// StateUninitialized is the state before Start.
	StateUninitialized State = iota
	// StateResolvingSession means the current session is being looked up.
	StateResolvingSession
	// StateResolvingProfile means the session is known and the profile fetch
	// is in flight.
	StateResolvingProfile
	// StateReadyUnauthenticated is a settled anonymous state.
	StateReadyUnauthenticated
	// StateReadyAuthenticated is a settled signed-in state.
	StateReadyAuthenticated
)

func (s State) String() string {
	switch s {
	case StateResolvingSession:
		return "resolving_session"
	case StateResolvingProfile:
		return "resolving_profile"
	case StateReadyUnauthenticated:
		return "ready_unauthenticated"
	case StateReadyAuthenticated:
		return "ready_authenticated"
	default:
		return "uninitialized"
	}
}

// Snapshot is an immutable view of the store at one point in time.
type Snapshot struct {
	State   State
	Loading bool
	Session *Session
	Profile *Profile
}

// Store serializes session resolution on a single run loop. Auth events are
// queued; when several pile up, only the newest is resolved and the stale ones
// are dropped, so a slow profile fetch can never clobber a later sign-out.
type Store struct {
	client Client

	mu   sync.RWMutex
	snap Snapshot

	events chan *Session
	quit   chan struct{}

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int

	unsubscribe func()
	closeOnce   sync.Once
	started     bool
}

func NewStore(client Client) *Store {
	return &Store{
		client: client,
		snap:   Snapshot{State: StateUninitialized, Loading: true},
		events: make(chan *Session, 16),
		quit:   make(chan struct{}),
		subs:   make(map[int]func(Snapshot)),
	}
}

// Start subscribes to backend auth events and kicks off the initial session
// lookup. Calling Start twice is a no-op.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.unsubscribe = s.client.OnSessionChange(func(sess *Session) {
		s.enqueue(sess)
	})

	go s.run(ctx)
}

// Close stops the run loop and detaches from the client. Snapshot keeps
// returning the last published state.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		close(s.quit)
	})
}

// Snapshot returns the current state. Safe from any goroutine.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// OnChange registers fn to run after every published transition. The returned
// func removes the subscription.
func (s *Store) OnChange(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// SignIn authenticates and feeds the new session through the same resolution
// queue as backend-initiated events.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.enqueue(sess)
	return nil
}

func (s *Store) SignUp(ctx context.Context, email, password string) error {
	sess, err := s.client.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	s.enqueue(sess)
	return nil
}

func (s *Store) SignOut(ctx context.Context) error {
	if err := s.client.SignOut(ctx); err != nil {
		return err
	}
	s.enqueue(nil)
	return nil
}

func (s *Store) enqueue(sess *Session) {
	select {
	case s.events <- sess:
	case <-s.quit:
	}
}

// run is the single resolver goroutine. It settles the initial lookup first,
// then services the event queue until Close.
func (s *Store) run(ctx context.Context) {
	s.publish(func(snap *Snapshot) {
		snap.State = StateResolvingSession
		snap.Loading = true
	})

	sess, err := s.client.GetSession(ctx)
	if err != nil {
		logger.Warn("session lookup failed", "err", err)
		sess = nil
	}
	s.resolve(ctx, sess)

	for {
		select {
		case <-s.quit:
			return
		case ev := <-s.events:
			s.resolve(ctx, s.drainToNewest(ev))
		}
	}
}

// drainToNewest empties the queue and returns the last event, so a burst of
// auth changes resolves once, with the final value.
func (s *Store) drainToNewest(ev *Session) *Session {
	for {
		select {
		case next := <-s.events:
			ev = next
		default:
			return ev
		}
	}
}

func (s *Store) resolve(ctx context.Context, sess *Session) {
	if sess == nil {
		s.publish(func(snap *Snapshot) {
			snap.State = StateReadyUnauthenticated
			snap.Loading = false
			snap.Session = nil
			snap.Profile = nil
		})
		return
	}

	s.publish(func(snap *Snapshot) {
		snap.State = StateResolvingProfile
		snap.Loading = true
		snap.Session = sess
		snap.Profile = nil
	})

	profile, err := s.client.FetchProfile(ctx, sess.UserID)
	if err != nil {
		// a signed-in user without a profile row is a normal intake state
		logger.Debug("profile fetch failed", "user", sess.UserID, "err", err)
		profile = nil
	}

	// a newer event arrived while the fetch ran; drop this result and let the
	// loop resolve the fresh one
	if len(s.events) > 0 {
		return
	}

	s.publish(func(snap *Snapshot) {
		snap.State = StateReadyAuthenticated
		snap.Loading = false
		snap.Session = sess
		snap.Profile = profile
	})
}

func (s *Store) publish(mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.snap)
	snap := s.snap
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
