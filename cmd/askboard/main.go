// Command askboard serves a Korean-language Q&A API over an internal
// discussion board. Evidence comes either from a live logged-in browser
// session or from a static tabular export, selected by configuration.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/crypto/bcrypt"

	"github.com/jayz-blip/askboard/answer"
	"github.com/jayz-blip/askboard/board"
	"github.com/jayz-blip/askboard/liveboard"
	"github.com/jayz-blip/askboard/llm"
	"github.com/jayz-blip/askboard/tableboard"
)

func main() {
	// A local .env is a convenience, not a requirement.
	_ = godotenv.Load()

	port := env("PORT", "8090")
	configPath := env("CONFIG", "askboard.yaml")
	logLevel := env("LOG_LEVEL", "info")

	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// Evidence source.
	var src board.Source
	switch cfg.Backend {
	case "live":
		live := liveboard.New(liveboard.Config{
			URL:           cfg.Board.URL,
			Email:         os.Getenv("BOARD_EMAIL"),
			Password:      os.Getenv("BOARD_PASSWORD"),
			RemoteBrowser: cfg.Board.RemoteBrowser,
			ClientBoards:  cfg.Board.ClientBoards,
			DetailFetches: cfg.Board.DetailFetches,
			SettleDelay:   cfg.Board.SettleDelay,
			NavTimeout:    cfg.Board.NavTimeout,
			Logger:        logger,
		})
		defer live.Close()
		src = live
	case "table":
		table, err := tableboard.New(ctx, tableboard.Config{
			PostsPath:    cfg.Tables.Posts,
			CommentsPath: cfg.Tables.Comments,
			Logger:       logger,
		})
		if err != nil {
			slog.Error("tableboard", "error", err)
			os.Exit(1)
		}
		defer table.Close()
		src = table
	default:
		slog.Error("unknown backend", "backend", cfg.Backend)
		os.Exit(1)
	}

	// Completer.
	gemini, err := llm.NewGemini(ctx, llm.GeminiConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		slog.Error("gemini", "error", err)
		os.Exit(1)
	}

	svc := answer.New(src, gemini, answer.Config{
		KnownClients: cfg.knownClients(),
		ClientLimit:  cfg.Answer.ClientLimit,
		DefaultLimit: cfg.Answer.DefaultLimit,
		HistoryDepth: cfg.Answer.HistoryDepth,
		Logger:       logger,
	})

	// Optional API password. When unset, the API is open (local use).
	var passwordHash []byte
	if pw := os.Getenv("AUTH_PASSWORD"); pw != "" {
		passwordHash, err = bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("auth password", "error", err)
			os.Exit(1)
		}
	}

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "backend": cfg.Backend})
	})

	r.Route("/api", func(r chi.Router) {
		if passwordHash != nil {
			r.Use(requirePassword(passwordHash))
		}

		r.Post("/chat", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				SessionID string `json:"session_id"`
				Message   string `json:"message"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				errJSON(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if body.Message == "" {
				errJSON(w, http.StatusBadRequest, "message is required")
				return
			}
			reply, err := svc.Ask(req.Context(), body.SessionID, body.Message)
			if err != nil {
				slog.Error("chat", "error", err)
				errJSON(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, reply)
		})

		r.Get("/clients", func(w http.ResponseWriter, req *http.Request) {
			names, err := svc.Clients(req.Context())
			if err != nil {
				errJSON(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"clients": names})
		})

		r.Post("/refresh", func(w http.ResponseWriter, req *http.Request) {
			if err := svc.Refresh(req.Context()); err != nil {
				errJSON(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		})

		r.Post("/history/clear", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				SessionID string `json:"session_id"`
			}
			if req.Body != nil {
				_ = json.NewDecoder(req.Body).Decode(&body)
			}
			svc.ClearHistory(body.SessionID)
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		})
	})

	// Optional MCP surface on the same listener.
	if env("MCP_TRANSPORT", "") == "http" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "askboard",
			Version: "1.0.0",
		}, nil)
		svc.RegisterMCP(mcpSrv)
		r.Handle("/mcp", mcp.NewStreamableHTTPHandler(
			func(*http.Request) *mcp.Server { return mcpSrv }, nil))
		slog.Info("MCP tools mounted", "path", "/mcp")
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", port, "backend", cfg.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// requirePassword checks the Basic Auth password against the bcrypt hash
// derived at startup. The username is ignored.
func requirePassword(hash []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, pw, ok := r.BasicAuth()
			if !ok || bcrypt.CompareHashAndPassword(hash, []byte(pw)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="askboard"`)
				errJSON(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func errJSON(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
