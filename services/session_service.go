package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/libs"
	"storefront/logging"
	"storefront/models"
	"storefront/repositories"
	"storefront/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownSource   = errors.New("unknown item source")
)

// Session is one shopper's page session: a catalog store shared by every
// reader of the session, plus the session's own remote fetcher.
type Session struct {
	ID        string
	CreatedAt time.Time
	Store     *CatalogStore
	Fetcher   *RemoteFetcher

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	s.Store.Close()
	s.Fetcher.Close()
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	FetchTimeout time.Duration
	Currency     string
	// RenewWithin is how close to expiry a presented token must be before a
	// fresh one is issued. Defaults to half the TTL.
	RenewWithin time.Duration
}

type SessionService struct {
	cfg     SessionConfig
	catalog *CatalogService
	source  libs.CatalogSource
	log     *zap.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionService(cfg SessionConfig, catalog *CatalogService, source libs.CatalogSource, log *zap.Logger) *SessionService {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Currency == "" {
		cfg.Currency = utils.DefaultCurrency
	}
	if cfg.RenewWithin <= 0 {
		cfg.RenewWithin = cfg.TTL / 2
	}
	return &SessionService{
		cfg:      cfg,
		catalog:  catalog,
		source:   source,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create opens a session and returns it with a signed token naming it.
func (s *SessionService) Create() (*Session, string, time.Time, error) {
	now := s.now()
	id := uuid.NewString()

	token, expiresAt, err := utils.GenerateSessionToken(s.cfg.Secret, id, now, s.cfg.TTL)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	sess := &Session{
		ID:        id,
		CreatedAt: now,
		Store:     NewCatalogStore(s.cfg.Currency),
		Fetcher:   NewRemoteFetcher(s.source, s.cfg.FetchTimeout, s.log.With(zap.String("session_id", id))),
		lastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	activeSessions.Inc()

	s.log.Info("session created", zap.String("session_id", id))
	return sess, token, expiresAt, nil
}

func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

// Authenticate resolves a bearer token to its live session.
func (s *SessionService) Authenticate(token string) (*Session, error) {
	sess, _, err := s.Resolve(token)
	return sess, err
}

// Resolve is Authenticate that also returns the token's claims.
func (s *SessionService) Resolve(token string) (*Session, *utils.SessionClaims, error) {
	claims, err := utils.ValidateSessionToken(s.cfg.Secret, token)
	if err != nil {
		return nil, nil, err
	}
	sess, err := s.Get(claims.SessionID)
	if err != nil {
		return nil, nil, err
	}
	return sess, claims, nil
}

// Touch marks sess as active now, keeping it out of the next sweep.
func (s *SessionService) Touch(sess *Session) {
	sess.touch(s.now())
}

// RenewalDue reports whether a token with these claims is close enough to
// expiry that the client should switch to a fresh one. Tokens expire a fixed
// TTL after issue while sessions only end after TTL of inactivity, so an
// active client keeps its session by renewing.
func (s *SessionService) RenewalDue(claims *utils.SessionClaims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Sub(s.now()) < s.cfg.RenewWithin
}

// RenewToken issues a fresh token for sess, valid for a full TTL from now.
func (s *SessionService) RenewToken(sess *Session) (string, time.Time, error) {
	token, expiresAt, err := utils.GenerateSessionToken(s.cfg.Secret, sess.ID, s.now(), s.cfg.TTL)
	if err != nil {
		return "", time.Time{}, err
	}
	s.log.Debug("session token renewed", zap.String("session_id", sess.ID), zap.Time("expires_at", expiresAt))
	return token, expiresAt, nil
}

// End tears a session down and waits for its in-flight fetches.
func (s *SessionService) End(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	activeSessions.Dec()
	sess.close()
	s.log.Info("session ended", zap.String("session_id", id))
	return nil
}

// Sweep ends sessions idle for longer than the session TTL.
func (s *SessionService) Sweep(now time.Time) int {
	var expired []string

	s.mu.RLock()
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.cfg.TTL {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	ended := 0
	for _, id := range expired {
		if s.End(id) == nil {
			ended++
		}
	}
	if ended > 0 {
		s.log.Info("idle sessions swept", zap.Int("count", ended))
	}
	return ended
}

func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close ends every session.
func (s *SessionService) Close() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		_ = s.End(id)
	}
}

func (s *SessionService) View(sess *Session) models.SessionView {
	snap := sess.Store.Snapshot()
	return models.SessionView{
		SessionID: sess.ID,
		Version:   snap.Version,
		Selection: snap.Selection,
		Cart:      Summarize(snap.Cart, s.cfg.Currency),
		Name:      snap.Name,
	}
}

// SelectItem selects a local catalog item, or clears the selection when id
// is nil.
func (s *SessionService) SelectItem(ctx context.Context, sess *Session, id *int) (*models.Item, error) {
	if id == nil {
		sess.Store.SelectItem(nil)
		return nil, nil
	}
	item, err := s.catalog.GetItem(ctx, *id)
	if err != nil {
		return nil, err
	}
	sess.Store.SelectItem(item)
	return item, nil
}

// AddToCart resolves id in the local catalog or in the session's current
// remote results and adds it. added is false when the id was already in
// the cart.
func (s *SessionService) AddToCart(ctx context.Context, sess *Session, id int, source string) (item *models.Item, added bool, err error) {
	switch source {
	case "", models.SourceLocal:
		item, err = s.catalog.GetItem(ctx, id)
		if err != nil {
			return nil, false, err
		}
	case models.SourceRemote:
		found, ok := sess.Fetcher.FindResult(id)
		if !ok {
			return nil, false, repositories.ErrItemNotFound
		}
		item = found
	default:
		return nil, false, ErrUnknownSource
	}

	added = sess.Store.AddToCart(*item)
	logging.FromCtx(ctx).Debug("cart add",
		zap.Int("item_id", item.ID),
		zap.String("source", source),
		zap.Bool("added", added),
	)
	return item, added, nil
}
