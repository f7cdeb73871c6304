package devapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/dmitrymomot/curbside/pkg/httpserver"
	"github.com/dmitrymomot/curbside/pkg/jwt"
	"github.com/dmitrymomot/curbside/pkg/logger"
	"github.com/dmitrymomot/curbside/pkg/requestid"
)

// Server is an in-memory implementation of the backend auth contract,
// mounted under /api.
type Server struct {
	cfg    Config
	users  *Users
	tokens *jwt.Service
	logger *slog.Logger
	checks []httpserver.Check
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChecks adds readiness checks reported by GET /health.
func WithChecks(checks ...httpserver.Check) Option {
	return func(s *Server) {
		s.checks = append(s.checks, checks...)
	}
}

// New creates a Server with an empty account directory.
func New(cfg Config, opts ...Option) (*Server, error) {
	tokens, err := jwt.New([]byte(cfg.SigningKey), jwt.WithTTL(cfg.TokenTTL), jwt.WithIssuer("curbside-devapi"))
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		users:  NewUsers(cfg.BcryptCost),
		tokens: tokens,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Users exposes the account directory for seeding.
func (s *Server) Users() *Users {
	return s.users
}

// Handler returns the routed handler with CORS and request ids applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/health", httpserver.HealthHandler(s.logger, s.checks...))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", httpserver.HealthHandler(s.logger, s.checks...))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", s.login)
			auth.Post("/register", s.register)

			auth.Group(func(protected chi.Router) {
				protected.Use(jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
					Service: s.tokens,
					OnError: s.unauthorized,
				}))
				protected.Get("/me", s.me)
				protected.Put("/profile", s.updateProfile)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	return cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestid.Header},
		ExposedHeaders:   []string{requestid.Header},
		AllowCredentials: true,
	}).Handler(r)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		writeValidation(w, err)
		return
	}

	user, err := s.users.Authenticate(req.Email, req.Password)
	if err != nil {
		s.logger.InfoContext(r.Context(), "login rejected", logger.Email(req.Email))
		writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	s.issue(w, r, user)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		writeValidation(w, err)
		return
	}

	user, err := s.users.Create(req.FullName, req.Email, req.Password)
	if errors.Is(err, ErrEmailTaken) {
		writeError(w, http.StatusBadRequest, "Email is already registered", map[string]string{"email": "Email is already registered"})
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to create user", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Registration failed", nil)
		return
	}

	s.logger.InfoContext(r.Context(), "user registered", logger.Email(user.Email))
	s.issue(w, r, user)
}

func (s *Server) issue(w http.ResponseWriter, r *http.Request, user User) {
	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to issue token", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to issue token", nil)
		return
	}

	p := profileOf(user)
	writeJSON(w, http.StatusOK, authResponse{Token: token, Email: p.Email, FullName: p.FullName, Roles: p.Roles})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r.Context())
	if !ok {
		s.unauthorized(w, r, ErrUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, profileOf(user))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r.Context())
	if !ok {
		s.unauthorized(w, r, ErrUserNotFound)
		return
	}

	var req updateProfileRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		writeValidation(w, err)
		return
	}

	updated, err := s.users.UpdateFullName(user.Email, req.FullName)
	if err != nil {
		s.unauthorized(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileOf(updated))
}

func (s *Server) currentUser(ctx context.Context) (User, bool) {
	claims, ok := jwt.GetClaims(ctx)
	if !ok {
		return User{}, false
	}
	user, err := s.users.Get(claims.Subject)
	if err != nil {
		return User{}, false
	}
	return user, true
}

func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.DebugContext(r.Context(), "request unauthorized", logger.Path(r.URL.Path), logger.Error(err))
	writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
}
