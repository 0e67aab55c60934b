package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/cors"

	"go.uber.org/zap"
)

type Server struct {
	config *Config
	logger *zap.Logger

	httpHandler http.Handler

	store    Store
	resolver Resolver
}

// NewServer creates a new Server.
func NewServer(config *Config, logger *zap.Logger) *Server {
	s := Server{config: config, logger: logger}

	s.InstallDB()
	s.resolver = NewHTTPResolver(config, logger)
	s.InstallHTTP()
	return &s
}

// Run starts the Server.
func (s *Server) Run() {
	s.logger.Info("listening", zap.String(ZAP_LISTEN_ADDR, s.config.ListenAddr))
	s.logger.Fatal("server error", zap.Error(http.ListenAndServe(s.config.ListenAddr, s.httpHandler)))
}

func (s *Server) InstallHTTP() {
	r := chi.NewRouter()
	r.Use(s.RequestLogger)

	r.Get("/ping", s.PingHandler)
	r.Post("/auth/register", s.RegisterHandler)
	r.Post("/auth/jwt/login", s.LoginHandler)

	r.Group(func(r chi.Router) {
		r.Use(s.RequireUser)
		r.Post("/query", s.QueryHandler)
		r.Get("/history", s.HistoryHandler)
		r.Get("/result", s.ResultHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.RequireUser, s.RequireSuperuser)
		r.Get("/admin/users", s.AdminUsersHandler)
		r.Delete("/admin/users/{id}", s.AdminDeleteUserHandler)
	})

	c := cors.AllowAll()

	s.httpHandler = c.Handler(r)
}

func (s *Server) InstallDB() {
	conn, err := pgxpool.Connect(context.Background(), s.config.DBString)
	if err != nil {
		s.logger.Panic("couldn't connect to database", zap.Error(err))
	}

	err = conn.Ping(context.Background())
	if err != nil {
		s.logger.Panic("error pinging database", zap.Error(err))
	}

	_, err = conn.Exec(context.Background(), SQL_CREATE_TABLES)
	if err != nil {
		s.logger.Panic("error creating tables", zap.Error(err))
	}

	if s.config.UniqueCoordinates {
		_, err = conn.Exec(context.Background(), SQL_UNIQUE_COORDINATES)
		if err != nil {
			s.logger.Panic("error adding coordinate uniqueness constraint", zap.Error(err))
		}
	}

	s.store = &PgxStore{conn: conn, logger: s.logger}
}
