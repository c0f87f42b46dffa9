package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/resq-lab/rollcall/pkg/sync/manager"
	"github.com/resq-lab/rollcall/pkg/usecase"
	"github.com/resq-lab/rollcall/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	mgr    *manager.Manager
	uc     *usecase.UseCases
	authUC AuthUseCase

	helloTimeout time.Duration
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// WithHelloTimeout overrides how long an unauthenticated socket may
// stay open before it is dropped.
func WithHelloTimeout(d time.Duration) Options {
	return func(s *Server) {
		s.helloTimeout = d
	}
}

func New(mgr *manager.Manager, uc *usecase.UseCases, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router:       r,
		mgr:          mgr,
		uc:           uc,
		helloTimeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.authUC == nil {
		s.authUC = uc.Auth
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Session endpoints
	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/me", authMeHandler(s.authUC))
		r.Post("/logout", authLogoutHandler(s.authUC))
	})

	// Socket credential exchange. Requires an authenticated session;
	// also serves as the keepalive ping target clients hit after a
	// transport error.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))
		r.Get("/socket-keepalive", socketKeepaliveHandler(uc.SocketAuth))
	})

	// The channel itself. Authentication happens in-band via hello.
	r.Get("/ws", s.websocketHandler())

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
