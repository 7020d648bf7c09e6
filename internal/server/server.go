package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/duelforge/duelsim/internal/config"
	"github.com/duelforge/duelsim/internal/replay"
)

// Server is the replay playback surface: a websocket endpoint for frame
// streaming plus small JSON endpoints for listing and health.
type Server struct {
	logger   *zap.Logger
	cfg      config.ServerConfig
	hub      *Hub
	replays  *replay.Recorder
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// New builds the server around a replay recorder.
func New(logger *zap.Logger, cfg config.ServerConfig, replays *replay.Recorder) *Server {
	s := &Server{
		logger:  logger,
		cfg:     cfg,
		hub:     NewHub(logger, replays),
		replays: replays,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// Start runs the hub and the HTTP listener. It blocks until the listener
// stops.
func (s *Server) Start() error {
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/replays", s.serveList)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.httpSrv = &http.Server{
		Addr:         s.cfg.Address,
		Handler:      mux,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.logger.Info("replay server listening",
		zap.String("address", s.cfg.Address),
	)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(conn)
	s.hub.register <- client

	go client.writePump()
	go client.readPump(s.hub)
}

func (s *Server) serveList(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.replays.List()); err != nil {
		s.logger.Warn("encode replay list", zap.Error(err))
	}
}
