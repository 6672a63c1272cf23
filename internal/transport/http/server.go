package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	feedDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/feed/domain"
	sharedErrors "github.com/reshetovitsme/keyword-monitor/internal/shared/errors"
	"github.com/samber/oops"
	sloghttp "github.com/samber/slog-http"
)

// FeedService renders group feeds.
type FeedService interface {
	GenerateFeed(groupName string, baseURL string) (*feeds.Feed, error)
	Feeds(baseURL string) []feedDomain.FeedConfig
}

// Server serves health, metrics and the RSS feeds of matched messages
type Server struct {
	addr        string
	feedService FeedService
	metrics     http.Handler
	logger      *slog.Logger
	server      *http.Server
}

// New creates a new HTTP server
func New(port string, feedService FeedService, metrics http.Handler) *Server {
	s := &Server{
		addr:        fmt.Sprintf(":%s", port),
		feedService: feedService,
		metrics:     metrics,
		logger:      slog.Default(),
	}
	s.server = &http.Server{
		Addr:         s.addr,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler builds the routed handler with logging and recovery middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /feed/{group}", s.handleFeed)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	mux.HandleFunc("GET /{$}", s.handleRoot)

	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.server.Handler = s.Handler()
	s.logger.Info("HTTP server starting", "addr", s.addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return oops.With("addr", s.addr).Wrap(err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	group := r.PathValue("group")
	if group == "" {
		http.Error(w, "Group is required", http.StatusBadRequest)
		return
	}

	feed, err := s.feedService.GenerateFeed(group, baseURL(r))
	if err != nil {
		if errors.Is(err, sharedErrors.ErrGroupNotFound) {
			http.Error(w, "Group not found", http.StatusNotFound)
			return
		}
		s.logger.Error("Error generating feed", "group", group, "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "group", group, "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

var rootPage = template.Must(template.New("root").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Keyword Monitor</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Keyword Monitor</h1>
    <div class="info">
        <p>Matched messages of each monitor group are published as RSS at <code>/feed/{group}</code>.</p>
    </div>
    <ul>
    {{- range .}}
        <li><a href="{{.Link}}">{{.Title}}</a> (target <code>{{.TargetChatID}}</code>{{if not .Updated.IsZero}}, updated {{.Updated.Format "2006-01-02 15:04 MST"}}{{end}})</li>
    {{- end}}
    </ul>
    <p><a href="/health">Health Check</a> | <a href="/metrics">Metrics</a></p>
</body>
</html>`))

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rootPage.Execute(w, s.feedService.Feeds(baseURL(r))); err != nil {
		s.logger.Error("Error rendering index", "error", err)
	}
}

func baseURL(r *http.Request) string {
	return fmt.Sprintf("%s://%s", getScheme(r), r.Host)
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
