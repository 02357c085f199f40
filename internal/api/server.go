package api

import (
	"multipitch-sync/internal/auth"
	"multipitch-sync/internal/config"
	"multipitch-sync/internal/database"
	"multipitch-sync/internal/session"
)

type Server struct {
	config   *config.Config
	store    *database.Store
	sessions *session.Service
	tokens   *auth.TokenService
}

func NewServer(cfg *config.Config, store *database.Store, sessions *session.Service, tokens *auth.TokenService) *Server {
	return &Server{
		config:   cfg,
		store:    store,
		sessions: sessions,
		tokens:   tokens,
	}
}
