package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nicebartender/bothost/bot"
	"github.com/nicebartender/bothost/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"available_bots":   s.registry.Names(),
		"total_requests":   s.requests.Load(),
		"bot_descriptions": s.registry.Descriptions(),
	})
}

func (s *Server) handleBot(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	entry, ok := s.registry.Get(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":          fmt.Sprintf("Bot '%s' not found", name),
			"available_bots": s.registry.Names(),
		})
		return
	}

	// Counted as soon as the request reaches a known bot, whether or not
	// the bot call itself succeeds.
	s.requests.Add(1)

	var conv bot.Conversation
	if err := json.NewDecoder(r.Body).Decode(&conv); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}
	if len(conv.Query) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "conversation must contain at least one message",
		})
		return
	}

	reqID := uuid.NewString()
	slog.Info("dispatching", "request", reqID, "bot", name)

	frags, err := s.drain(r.Context(), entry, conv)
	if err != nil {
		slog.Error("bot request failed", "request", reqID, "bot", name, "err", err)
		s.record(reqID, name, conv, "error", len(frags))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Error processing request: " + err.Error(),
		})
		return
	}

	// Callers never see an empty reply.
	if len(frags) == 0 {
		frags = []bot.Fragment{{Text: "No response generated"}}
	}

	s.record(reqID, name, conv, "ok", len(frags))
	writeJSON(w, http.StatusOK, frags)
}

// drain runs the bot and collects its full reply, converting panics into
// errors so one misbehaving bot cannot take the server down.
func (s *Server) drain(ctx context.Context, entry Entry, conv bot.Conversation) (frags []bot.Fragment, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("bot %s panicked: %v", entry.Name, rec)
		}
	}()

	stream := entry.New().Respond(ctx, conv)
	for {
		f, ok := stream.Next()
		if !ok {
			return frags, stream.Err()
		}
		slog.Info("bot response", "bot", entry.Name, "text", f.Text)
		frags = append(frags, f)
	}
}

func (s *Server) record(id, botName string, conv bot.Conversation, status string, fragments int) {
	if s.store == nil {
		return
	}
	if err := s.store.RecordRequest(id, botName, conv.LastMessage().Content, status, fragments); err != nil {
		slog.Warn("failed to record request", "request", id, "err", err)
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	entry, ok := s.registry.Get(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":          fmt.Sprintf("Bot '%s' not found", name),
			"available_bots": s.registry.Names(),
		})
		return
	}

	settings := map[string]any{}
	if sp, ok := entry.New().(bot.SettingsProvider); ok {
		settings = sp.Settings()
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []store.Request{})
		return
	}

	requests, err := s.store.RecentRequests(50)
	if err != nil {
		slog.Error("failed to load request log", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "failed to load request log",
		})
		return
	}
	if requests == nil {
		requests = []store.Request{}
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	page, err := os.ReadFile(filepath.Join(s.public, "admin.html"))
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "Admin interface not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to read admin page", "err", err)
		http.Error(w, "Error serving admin interface", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
