// Package httpserver binds the auth core to net/http: a small JSON surface
// with login, logout, me, and register endpoints. Each request gets its own
// orchestrator wired to that request's cookies and session.
package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thejw23/simpleauth/internal/agentx"
	"github.com/thejw23/simpleauth/internal/auth"
	"github.com/thejw23/simpleauth/internal/config"
	"github.com/thejw23/simpleauth/internal/cookiex"
	"github.com/thejw23/simpleauth/internal/hasher"
	"github.com/thejw23/simpleauth/internal/logging"
	"github.com/thejw23/simpleauth/internal/models"
	"github.com/thejw23/simpleauth/internal/repositories/repomanager"
	"github.com/thejw23/simpleauth/internal/session"
	"github.com/thejw23/simpleauth/internal/tokens"
)

const sessionCookieName = "simpleauth_session"

type Server struct {
	cfg      *config.Config
	db       *sql.DB
	rm       repomanager.RepositoryManager
	redis    *redis.Client
	verifier hasher.Verifier
	log      logging.Logger
}

func New(cfg *config.Config, db *sql.DB, rm repomanager.RepositoryManager, redisClient *redis.Client, verifier hasher.Verifier, log logging.Logger) *Server {
	return &Server{
		cfg:      cfg,
		db:       db,
		rm:       rm,
		redis:    redisClient,
		verifier: verifier,
		log:      log,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /me", s.handleMe)
	mux.HandleFunc("POST /register", s.handleRegister)
	return mux
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.EndpointAddr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestService wires a per-request orchestrator to the request's session
// and cookies.
func (s *Server) requestService(w http.ResponseWriter, r *http.Request) (*auth.Service, session.Store) {
	sid := ""
	if c, err := r.Cookie(sessionCookieName); err == nil {
		sid = c.Value
	}

	store := session.NewRedisStore(s.redis, sid, s.cfg.SessionTTL)
	cache := auth.NewSessionCache(store, s.cfg.SessionKey)
	tokenStore := tokens.NewStore(s.db, s.rm, s.cfg.RotateOnRefresh)
	jar := cookiex.NewHTTPJar(w, r)
	meta := auth.RequestMeta{
		IPAddress: agentx.ClientIP(r),
		UserAgent: r.UserAgent(),
	}

	svc := auth.NewService(s.cfg, s.db, s.rm, tokenStore, cache, jar, s.verifier, s.log, meta)
	return svc, store
}

// syncSessionCookie echoes the (possibly regenerated) session id back to
// the client. Must run before the response body is written.
func (s *Server) syncSessionCookie(w http.ResponseWriter, store session.Store) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    store.ID(),
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	svc, store := s.requestService(w, r)
	ok := svc.Login(r.Context(), req.Login, req.Password, req.Remember)
	s.syncSessionCookie(w, store)

	if !ok {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	p, _ := svc.User(r.Context())
	writeJSON(w, http.StatusOK, p)
}

type logoutRequest struct {
	Destroy bool `json:"destroy"`
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	svc, store := s.requestService(w, r)
	ok := svc.Logout(r.Context(), req.Destroy)
	s.syncSessionCookie(w, store)

	if !ok {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	svc, store := s.requestService(w, r)

	// LoggedIn falls back to auto-login, so a valid remember-cookie
	// re-authenticates here.
	if !svc.LoggedIn(r.Context()) {
		s.syncSessionCookie(w, store)
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}
	s.syncSessionCookie(w, store)

	p, ok := svc.User(r.Context())
	if !ok {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type registerRequest struct {
	Email    string           `json:"email"`
	Username string           `json:"username"`
	Password string           `json:"password"`
	ActiveTo string           `json:"active_to"`
	Flags    map[string]int64 `json:"flags"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	u := &models.User{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		ActiveTo: req.ActiveTo,
		Flags:    req.Flags,
	}

	svc, store := s.requestService(w, r)
	id, ok := svc.CreateUser(r.Context(), u, true)
	s.syncSessionCookie(w, store)

	if !ok {
		http.Error(w, "could not create user", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
