// Package varly is the service shell, tying the record store, the websocket
// API and the HTTP API together under one listener.
package varly

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	varly_lol "varly.lol"
	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/openapi"
	"varly.lol/servemux"
	"varly.lol/socketapi"
	"varly.lol/store"
	"varly.lol/varly/interfaces"
	"varly.lol/varly/options"
)

const DefaultMaxLimit = 512

type Server struct {
	Ctx                  context.T
	Cancel               context.F
	options              *options.T
	Addr                 string
	serveMux             *servemux.S
	httpServer           *http.Server
	storage              store.I
	maxLimit             int
	adminUser, adminPass string
}

var _ interfaces.Server = &Server{}

type ServerParams struct {
	Ctx                  context.T
	Cancel               context.F
	Storage              store.I
	DataDir              string
	MaxLimit             int
	AdminUser, AdminPass string
}

// NewServer initializes the storage at the data directory and mounts the
// socket and HTTP APIs, returning a Server ready to Start. The socket API
// owns the root route, everything else is the HTTP API.
func NewServer(sp ServerParams, opts ...options.O) (s *Server, err error) {
	op := options.Default()
	for _, opt := range opts {
		opt(op)
	}
	if sp.Storage == nil {
		err = fmt.Errorf("no storage provided")
		return
	}
	if sp.MaxLimit == 0 {
		sp.MaxLimit = DefaultMaxLimit
	}
	s = &Server{
		Ctx:       sp.Ctx,
		Cancel:    sp.Cancel,
		options:   op,
		serveMux:  servemux.New(),
		storage:   sp.Storage,
		maxLimit:  sp.MaxLimit,
		adminUser: sp.AdminUser,
		adminPass: sp.AdminPass,
	}
	if err = sp.Storage.Init(sp.DataDir); chk.T(err) {
		err = fmt.Errorf("storage init: %w", err)
		return
	}
	socketapi.New(s, "/", s.serveMux)
	openapi.New(s, "varly", varly_lol.Version,
		"an append only record log served over websocket and HTTP", "",
		s.serveMux)
	return
}

func (s *Server) Context() context.T { return s.Ctx }

func (s *Server) Storage() store.I { return s.storage }

func (s *Server) MaxLimit() int { return s.maxLimit }

func (s *Server) PerConnectionLimiter() *rate.Limiter {
	return s.options.PerConnectionLimiter
}

func (s *Server) Router() *servemux.S { return s.serveMux }

// AdminAuth reports whether the request carries the configured admin
// credentials as basic auth. With no credentials configured nothing passes,
// the default values are empty.
func (s *Server) AdminAuth(r *http.Request) (authed bool) {
	if s.adminUser == "" || s.adminPass == "" {
		return
	}
	username, password, ok := r.BasicAuth()
	if ok {
		usernameHash := sha256.Sum256([]byte(username))
		passwordHash := sha256.Sum256([]byte(password))
		expectedUsernameHash := sha256.Sum256([]byte(s.adminUser))
		expectedPasswordHash := sha256.Sum256([]byte(s.adminPass))
		usernameMatch := subtle.ConstantTimeCompare(usernameHash[:],
			expectedUsernameHash[:]) == 1
		passwordMatch := subtle.ConstantTimeCompare(passwordHash[:],
			expectedPasswordHash[:]) == 1
		if usernameMatch && passwordMatch {
			return true
		}
	}
	return
}
