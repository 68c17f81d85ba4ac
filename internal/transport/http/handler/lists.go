package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/movietrack-api/internal/application/watch"
	"github.com/movietrack-api/internal/domain"
	"github.com/movietrack-api/internal/transport/http/middleware"
)

// ListHandler serves one movie list. The uid source differs between the two
// mounts: the watchlist reads it from the bearer claims, the watched list
// takes it from the body or query string. Both sit behind the same auth
// middleware.
type ListHandler struct {
	svc       watch.Service
	fromToken bool
	timeField string
}

// NewWatchlistHandler builds the handler whose uid comes from bearer claims.
func NewWatchlistHandler(svc watch.Service) *ListHandler {
	return &ListHandler{svc: svc, fromToken: true, timeField: "addedAt"}
}

// NewWatchedHandler builds the handler whose uid is caller-supplied.
func NewWatchedHandler(svc watch.Service) *ListHandler {
	return &ListHandler{svc: svc, fromToken: false, timeField: "watchedAt"}
}

type addEntryRequest struct {
	UID string `json:"uid"`
	watch.AddEntryRequest
}

// view renames the timestamp field per list kind: the watchlist speaks
// addedAt, the watched list watchedAt.
func (h *ListHandler) view(entries []domain.ListEntry) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]interface{}{
			"id":        e.MovieID,
			"title":     e.Title,
			"poster":    e.Poster,
			h.timeField: e.AddedAt,
		})
	}
	return out
}

func (h *ListHandler) uid(r *http.Request, bodyUID string) string {
	if h.fromToken {
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			return claims.UserID
		}
		return ""
	}
	if bodyUID != "" {
		return bodyUID
	}
	return r.URL.Query().Get("uid")
}

func (h *ListHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	uid := h.uid(r, req.UID)
	if uid == "" {
		writeError(w, http.StatusBadRequest, "uid is required")
		return
	}
	if err := h.svc.Add(r.Context(), uid, req.AddEntryRequest); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Movie added to list"})
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := h.uid(r, "")
	if uid == "" {
		writeError(w, http.StatusBadRequest, "uid is required")
		return
	}
	entries, err := h.svc.List(r.Context(), uid)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(entries))
}

func (h *ListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	uid := h.uid(r, "")
	if uid == "" {
		writeError(w, http.StatusBadRequest, "uid is required")
		return
	}
	movieID, err := strconv.Atoi(r.URL.Query().Get("movieId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "movieId must be an integer")
		return
	}
	if err := h.svc.Remove(r.Context(), uid, movieID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Movie removed from list"})
}

func (h *ListHandler) Clear(w http.ResponseWriter, r *http.Request) {
	uid := h.uid(r, "")
	if uid == "" {
		writeError(w, http.StatusBadRequest, "uid is required")
		return
	}
	if err := h.svc.Clear(r.Context(), uid); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "List cleared"})
}
