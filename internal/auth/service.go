// Package auth implements the authentication orchestrator: the state
// machine composing the credential verifier, the token store, the session
// cache, and the account repository into login, auto-login, logout, and
// account management operations.
//
// Every public operation reports plain success/failure; the specific cause
// (missing account, expired token, persistence failure) is logged but
// never surfaced to callers. That opaque contract is deliberate.
package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/thejw23/simpleauth/internal/agentx"
	"github.com/thejw23/simpleauth/internal/common"
	"github.com/thejw23/simpleauth/internal/config"
	"github.com/thejw23/simpleauth/internal/hasher"
	"github.com/thejw23/simpleauth/internal/logging"
	"github.com/thejw23/simpleauth/internal/models"
	"github.com/thejw23/simpleauth/internal/repositories/repomanager"
	"github.com/thejw23/simpleauth/internal/timex"
)

// TokenStore is the remember-me token collaborator consumed by the
// orchestrator. *tokens.Store is the production implementation.
type TokenStore interface {
	Issue(ctx context.Context, userID int64, fingerprint string, ttl time.Duration) (*models.AuthToken, error)
	Validate(ctx context.Context, value string) (*models.AuthToken, error)
	Refresh(ctx context.Context, t *models.AuthToken, ttl time.Duration) (*models.AuthToken, error)
	Revoke(ctx context.Context, userID int64) error
	Delete(ctx context.Context, value string) error
}

// CookieJar mirrors cookiex.Jar; redeclared here so the orchestrator
// depends only on the capability it uses.
type CookieJar interface {
	Get(name string) (string, bool)
	Set(name, value string, ttl time.Duration)
	Delete(name string)
}

// RequestMeta carries the client attributes of the current request that
// the orchestrator records on login.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Service is the per-request orchestrator. It holds no cross-request
// state of its own; all shared mutable state lives behind the injected
// collaborators.
type Service struct {
	cfg    *config.Config
	db     *sql.DB
	rm     repomanager.RepositoryManager
	tokens TokenStore
	cache  *SessionCache
	jar    CookieJar
	hasher hasher.Verifier
	log    logging.Logger
	meta   RequestMeta
}

func NewService(
	cfg *config.Config,
	db *sql.DB,
	rm repomanager.RepositoryManager,
	tokens TokenStore,
	cache *SessionCache,
	jar CookieJar,
	verifier hasher.Verifier,
	log logging.Logger,
	meta RequestMeta,
) *Service {
	return &Service{
		cfg:    cfg,
		db:     db,
		rm:     rm,
		tokens: tokens,
		cache:  cache,
		jar:    jar,
		hasher: verifier,
		log:    log,
		meta:   meta,
	}
}

// Login authenticates by identifier and secret. With remember set, a fresh
// remember-me token replaces any prior generation and rides a cookie whose
// TTL is the full configured lifetime.
func (s *Service) Login(ctx context.Context, identifier, secret string, remember bool) bool {
	if identifier == "" || secret == "" {
		return false
	}

	u, err := s.lookupByCredentials(ctx, identifier, secret)
	if err != nil {
		s.log.Warn(ctx, "login rejected", "identifier", identifier, "cause", err.Error())
		return false
	}

	if !u.IsActive() {
		s.log.Warn(ctx, "login rejected: account inactive", "user", u.ID)
		return false
	}
	if !s.withinActiveWindow(u) {
		s.log.Warn(ctx, "login rejected: account past active window", "user", u.ID)
		return false
	}

	if remember {
		t, err := s.tokens.Issue(ctx, u.ID, agentx.Fingerprint(s.meta.UserAgent), s.cfg.Lifetime)
		if err != nil {
			s.log.Error(ctx, "issuing remember token", "user", u.ID, "error", err.Error())
			return false
		}
		s.jar.Set(s.cfg.CookieKey, t.Token, s.cfg.Lifetime)
	}

	return s.completeLogin(ctx, u)
}

// AutoLogin authenticates from the remember-me cookie. A token whose
// fingerprint does not match the current user-agent is deleted alone; a
// token whose owner is gone, inactive, or past its active window takes the
// owner's whole token generation down with it.
func (s *Service) AutoLogin(ctx context.Context) bool {
	value, ok := s.jar.Get(s.cfg.CookieKey)
	if !ok {
		return false
	}

	t, err := s.tokens.Validate(ctx, value)
	if err != nil {
		s.log.Debug(ctx, "auto-login token invalid", "cause", err.Error())
		return false
	}

	if t.UserAgent != agentx.Fingerprint(s.meta.UserAgent) {
		if err := s.tokens.Delete(ctx, t.Token); err != nil {
			s.log.Error(ctx, "deleting mismatched token", "error", err.Error())
		}
		s.log.Warn(ctx, "auto-login rejected: fingerprint mismatch", "user", t.UserID)
		return false
	}

	u, err := s.rm.Users(s.db).GetByID(ctx, t.UserID)
	if err != nil || !u.IsActive() || !s.withinActiveWindow(u) {
		if err := s.tokens.Revoke(ctx, t.UserID); err != nil {
			s.log.Error(ctx, "revoking tokens of ineligible account", "user", t.UserID, "error", err.Error())
		}
		s.log.Warn(ctx, "auto-login rejected: account ineligible", "user", t.UserID)
		return false
	}

	fresh, err := s.tokens.Refresh(ctx, t, s.cfg.Lifetime)
	if err != nil {
		s.log.Error(ctx, "refreshing token", "user", t.UserID, "error", err.Error())
		return false
	}

	// Cookie TTL is the remaining time until the refreshed expiry, which
	// the refresh just reset to the full lifetime.
	s.jar.Set(s.cfg.CookieKey, fresh.Token, time.Until(fresh.Expires))

	return s.completeLogin(ctx, u)
}

// completeLogin is the single authenticated-state entry point shared by
// Login and AutoLogin: it bumps the login counter, shifts the previous
// timestamp/IP pair, persists the account, regenerates the session id, and
// caches a fresh principal.
func (s *Service) completeLogin(ctx context.Context, u *models.User) bool {
	u.Logins++
	u.LastTimeStamp = u.TimeStamp
	u.LastIPAddress = u.IPAddress
	u.IPAddress = s.meta.IPAddress
	u.TimeStamp = timex.Format(time.Now())

	if err := s.rm.Users(s.db).Update(ctx, u); err != nil {
		s.log.Error(ctx, "persisting login", "user", u.ID, "error", err.Error())
		return false
	}

	if err := s.cache.RegenerateID(ctx); err != nil {
		s.log.Error(ctx, "regenerating session id", "error", err.Error())
		return false
	}
	if err := s.cache.SetPrincipal(ctx, models.PrincipalFromUser(u)); err != nil {
		s.log.Error(ctx, "caching principal", "error", err.Error())
		return false
	}

	s.log.Info(ctx, "login complete", "user", u.ID, "logins", u.Logins)
	return true
}

// Logout revokes the principal's tokens, drops the session state, and
// deletes the auto-login cookie. It reports success exactly when the
// post-condition holds: the request is verifiably anonymous afterwards.
func (s *Service) Logout(ctx context.Context, destroySession bool) bool {
	if !s.LoggedIn(ctx) {
		return false
	}

	if p, err := s.cache.Principal(ctx); err == nil && p.Loaded() {
		if err := s.tokens.Revoke(ctx, p.ID); err != nil {
			s.log.Error(ctx, "revoking tokens on logout", "user", p.ID, "error", err.Error())
		}
	}

	if destroySession {
		if err := s.cache.Destroy(ctx); err != nil {
			s.log.Error(ctx, "destroying session", "error", err.Error())
		}
	} else {
		if err := s.cache.Clear(ctx); err != nil {
			s.log.Error(ctx, "clearing session", "error", err.Error())
		}
	}

	s.jar.Delete(s.cfg.CookieKey)

	return !s.LoggedIn(ctx)
}

// LoggedIn reports whether the session holds a principal, falling back to
// AutoLogin. Any unauthenticated request carrying a valid remember-cookie
// therefore re-authenticates silently.
func (s *Service) LoggedIn(ctx context.Context) bool {
	if p, err := s.cache.Principal(ctx); err == nil && p.Loaded() {
		return true
	}
	return s.AutoLogin(ctx)
}

// User returns the session-cached principal. It never triggers
// auto-login.
func (s *Service) User(ctx context.Context) (*models.Principal, bool) {
	p, err := s.cache.Principal(ctx)
	if err != nil || !p.Loaded() {
		return nil, false
	}
	return p, true
}

// UserByRef re-fetches the referenced principal's account from the
// repository and returns it only if it still resolves to a loaded record.
func (s *Service) UserByRef(ctx context.Context, ref *models.Principal) (*models.User, bool) {
	if !ref.Loaded() {
		return nil, false
	}
	return s.UserByID(ctx, ref.ID)
}

// UserByID fetches an account by primary key.
func (s *Service) UserByID(ctx context.Context, id int64) (*models.User, bool) {
	if id == 0 {
		return nil, false
	}
	u, err := s.rm.Users(s.db).GetByID(ctx, id)
	if err != nil || !u.Loaded() {
		return nil, false
	}
	return u, true
}

// CreateUser inserts a new account. The primary identifier must be unique;
// with verifySecond set, a clash on either identifier blocks creation.
// Configured role flags present on the record are coerced to 0/1, an
// unparsable ActiveTo is discarded, and the password is digested before
// the insert. Returns the new id on success.
func (s *Service) CreateUser(ctx context.Context, u *models.User, verifySecond bool) (int64, bool) {
	if u == nil || u.Email == "" {
		return 0, false
	}

	repo := s.rm.Users(s.db)

	secondary := ""
	if verifySecond {
		secondary = u.Username
	}
	exists, err := repo.Exists(ctx, u.Email, secondary)
	if err != nil {
		s.log.Error(ctx, "uniqueness check", "error", err.Error())
		return 0, false
	}
	if exists {
		s.log.Warn(ctx, "create rejected: identifier already taken", "identifier", u.Email)
		return 0, false
	}

	if u.ActiveTo != "" {
		if _, err := timex.Parse(u.ActiveTo); err != nil {
			u.ActiveTo = ""
		}
	}

	for _, name := range s.cfg.Roles {
		if v, ok := u.Flags[name]; ok && v != 0 {
			u.Flags[name] = 1
		}
	}

	digest, err := s.hasher.Digest(u.Password)
	if err != nil {
		s.log.Error(ctx, "hashing password", "error", err.Error())
		return 0, false
	}
	u.Password = digest

	id, err := repo.Create(ctx, u)
	if err != nil {
		s.log.Error(ctx, "creating account", "error", err.Error())
		return 0, false
	}

	s.log.Info(ctx, "account created", "user", id)
	return id, true
}

// DeleteUser removes the account with the given id. The account's tokens
// are left behind; they die at their next validation or through a logout
// revoke.
func (s *Service) DeleteUser(ctx context.Context, id int64) bool {
	u, ok := s.UserByID(ctx, id)
	if !ok {
		return false
	}

	deleted, err := s.rm.Users(s.db).Delete(ctx, u.ID)
	if err != nil {
		s.log.Error(ctx, "deleting account", "user", id, "error", err.Error())
		return false
	}
	return deleted
}

// DeleteUserByRef removes the account referenced by a principal snapshot.
func (s *Service) DeleteUserByRef(ctx context.Context, ref *models.Principal) bool {
	if !ref.Loaded() {
		return false
	}
	return s.DeleteUser(ctx, ref.ID)
}

// SetRole assigns role flags on the target account (0 = the currently
// authenticated principal). Keys outside the configured role set are
// silently dropped; with nothing left the call fails. The session cache is
// not updated — callers wanting the change reflected must Reload.
func (s *Service) SetRole(ctx context.Context, roles map[string]bool, target int64) bool {
	if len(roles) == 0 {
		return false
	}

	accepted := make(map[string]int64)
	for _, name := range s.cfg.Roles {
		if v, ok := roles[name]; ok {
			accepted[name] = btoi(v)
		}
	}
	if len(accepted) == 0 {
		return false
	}

	id := target
	if id == 0 {
		p, ok := s.User(ctx)
		if !ok {
			return false
		}
		id = p.ID
	}

	u, ok := s.UserByID(ctx, id)
	if !ok {
		return false
	}

	if u.Flags == nil {
		u.Flags = make(map[string]int64, len(accepted))
	}
	for name, v := range accepted {
		u.Flags[name] = v
	}

	if err := s.rm.Users(s.db).Update(ctx, u); err != nil {
		s.log.Error(ctx, "persisting roles", "user", id, "error", err.Error())
		return false
	}
	return true
}

// Reload re-fetches the authenticated account and rewrites the cached
// principal from fresh data. A vanished account leaves the stale session
// in place; an inactive one logs out.
func (s *Service) Reload(ctx context.Context) {
	if !s.LoggedIn(ctx) {
		return
	}

	p, err := s.cache.Principal(ctx)
	if err != nil || !p.Loaded() {
		return
	}

	u, err := s.rm.Users(s.db).GetByID(ctx, p.ID)
	if err != nil || !u.Loaded() {
		return
	}

	if u.IsActive() {
		if err := s.cache.SetPrincipal(ctx, models.PrincipalFromUser(u)); err != nil {
			s.log.Error(ctx, "refreshing principal", "user", u.ID, "error", err.Error())
		}
	} else {
		s.Logout(ctx, false)
	}
}

func (s *Service) lookupByCredentials(ctx context.Context, identifier, secret string) (*models.User, error) {
	repo := s.rm.Users(s.db)

	if s.hasher.Deterministic() {
		digest, err := s.hasher.Digest(secret)
		if err != nil {
			return nil, err
		}
		return repo.GetByCredentials(ctx, identifier, digest)
	}

	u, err := repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(secret, u.Password) {
		return nil, common.ErrMismatch
	}
	return u, nil
}

// withinActiveWindow reports whether the account's active_to bound allows
// authentication now. An empty or unparsable bound means unrestricted;
// the comparison is on parsed time values, never raw strings.
func (s *Service) withinActiveWindow(u *models.User) bool {
	if u.ActiveTo == "" {
		return true
	}
	until, err := timex.Parse(u.ActiveTo)
	if err != nil {
		return true
	}
	return !until.Before(time.Now())
}

func btoi(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
