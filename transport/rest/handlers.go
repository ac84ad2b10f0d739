package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/gramtop961/tictactoe-rooms-backend/internal/apperror"
	"github.com/gramtop961/tictactoe-rooms-backend/internal/entity"
)

type gameManager interface {
	JoinGame(ctx context.Context, gameID, playerID string) (string, *entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID, role string, cell int, playerID string) (*entity.Game, error)
	ResetRound(ctx context.Context, gameID string) (*entity.Game, error)
	ResetScores(ctx context.Context, gameID string) (*entity.Game, error)
	StorageAlive(ctx context.Context) error
}

type Handler struct {
	logger  *slog.Logger
	manager gameManager
}

func NewHandler(logger *slog.Logger, manager gameManager) *Handler {
	return &Handler{
		logger:  logger.With("component", "rest-handlers"),
		manager: manager,
	}
}

func (that *Handler) SetRoutes(router *chi.Mux) {
	router.Route("/api/game", func(router chi.Router) {
		router.Post("/join", that.handleJoin)
		router.Get("/{gameID}", that.handleGetGame)
		router.Post("/{gameID}/move", that.handleMove)
		router.Post("/{gameID}/reset-round", that.handleResetRound)
		router.Post("/{gameID}/reset-scores", that.handleResetScores)
	})

	router.Get("/", that.handleRoot)
	router.Get("/test", that.handleStatus)
	router.Get("/ping", that.handlePing)
}

type joinRequest struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type joinResponse struct {
	Role string       `json:"role"`
	Game *entity.Game `json:"game"`
}

type moveRequest struct {
	Index    int    `json:"index"`
	Role     string `json:"role"`
	PlayerID string `json:"player_id"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (that *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, game, err := that.manager.JoinGame(r.Context(), req.GameID, req.PlayerID)
	if err != nil {
		that.respondAppError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, joinResponse{Role: role, Game: game})
}

func (that *Handler) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.manager.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.respondAppError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, game)
}

func (that *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := that.manager.MakeTurn(r.Context(), chi.URLParam(r, "gameID"), req.Role, req.Index, req.PlayerID)
	if err != nil {
		that.respondAppError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, game)
}

func (that *Handler) handleResetRound(w http.ResponseWriter, r *http.Request) {
	game, err := that.manager.ResetRound(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.respondAppError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, game)
}

func (that *Handler) handleResetScores(w http.ResponseWriter, r *http.Request) {
	game, err := that.manager.ResetScores(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.respondAppError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, game)
}

func (that *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	that.respondJSON(w, http.StatusOK, map[string]string{"message": "Tic Tac Toe API running"})
}

// handleStatus - store connectivity summary; a degraded store is reported
// in the body, never as an error status.
func (that *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"backend":           "running",
		"storage":           "connected",
		"connection_status": "Connected",
	}

	if err := that.manager.StorageAlive(r.Context()); err != nil {
		that.logger.Warn("storage liveness check failed", "error", err)
		status["storage"] = "not available"
		status["connection_status"] = "Not Connected"
	}

	that.respondJSON(w, http.StatusOK, status)
}

func (that *Handler) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *Handler) respondError(w http.ResponseWriter, status int, detail string) {
	that.respondJSON(w, status, errorResponse{Detail: detail})
}

// respondAppError - maps the error taxonomy onto HTTP statuses. Store
// failures fall through to a generic 500.
func (that *Handler) respondAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperror.ErrMalformedGameID),
		errors.Is(err, apperror.ErrInvalidRole),
		errors.Is(err, apperror.ErrInvalidCell):
		that.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperror.ErrNotAuthorized):
		that.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperror.ErrGameFull),
		errors.Is(err, apperror.ErrRoundFinished),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied):
		that.respondError(w, http.StatusConflict, err.Error())
	default:
		that.logger.Error("request failed", "error", err)
		that.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
