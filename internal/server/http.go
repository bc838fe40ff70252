// Package server exposes the turn engine over REST and pushes game
// notifications to connected clients over websockets.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/thefirstspine/arena-server-go/internal/game"
)

// userHeader carries the authenticated user id, set by the gateway in
// front of this service.
const userHeader = "X-User-Id"

// Handler serves the REST API of the turn engine.
type Handler struct {
	manager *game.Manager
	logger  *zap.Logger
}

// NewHandler builds the REST handler.
func NewHandler(manager *game.Manager, logger *zap.Logger) *Handler {
	return &Handler{manager: manager, logger: logger}
}

// Router assembles the chi router with the API routes.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", userHeader},
	}))

	r.Get("/health", h.health)
	r.Route("/games", func(r chi.Router) {
		r.Post("/", h.createGame)
		r.Route("/{gameId}", func(r chi.Router) {
			r.Get("/", h.getGame)
			r.Get("/cards", h.getCards)
			r.Get("/actions", h.getActions)
			r.Post("/actions/{actionType}", h.respondToAction)
			r.Post("/concede", h.concede)
		})
	})
	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handler) requestUser(r *http.Request) (int, bool) {
	user, err := strconv.Atoi(r.Header.Get(userHeader))
	if err != nil || user <= 0 {
		return 0, false
	}
	return user, true
}

func (h *Handler) gameID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "gameId"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createGameRequest struct {
	GameTypeID string           `json:"gameTypeId"`
	Users      []game.User      `json:"users"`
	Modifiers  game.ModifierSet `json:"modifiers"`
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	inst, err := h.manager.CreateInstance(r.Context(), req.GameTypeID, req.Users, req.Modifiers)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, gameView(inst))
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	id, ok := h.gameID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	var view any
	err := h.manager.View(id, func(inst *game.Instance) error {
		view = gameView(inst)
		return nil
	})
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) getCards(w http.ResponseWriter, r *http.Request) {
	id, ok := h.gameID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	user, ok := h.requestUser(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "missing user header")
		return
	}
	var cards []*game.Card
	err := h.manager.View(id, func(inst *game.Instance) error {
		cards = visibleCards(inst, user)
		return nil
	})
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) getActions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.gameID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	user, ok := h.requestUser(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "missing user header")
		return
	}
	var actions []*game.Action
	err := h.manager.View(id, func(inst *game.Instance) error {
		actions = game.VisibleActions(inst, user)
		return nil
	})
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if actions == nil {
		actions = []*game.Action{}
	}
	h.writeJSON(w, http.StatusOK, actions)
}

type actionRequest struct {
	Response json.RawMessage `json:"response"`
}

func (h *Handler) respondToAction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.gameID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	user, ok := h.requestUser(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "missing user header")
		return
	}
	actionType := chi.URLParam(r, "actionType")

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var kind string
	err := h.manager.View(id, func(inst *game.Instance) error {
		for _, a := range game.VisibleActions(inst, user) {
			if a.Type == actionType {
				kind = a.Interaction.Kind
				return nil
			}
		}
		return game.ErrActionNotFound
	})
	if err != nil {
		h.writeActionError(w, err)
		return
	}

	response, err := game.DecodeResponse(kind, req.Response)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.manager.RespondToAction(r.Context(), id, user, actionType, response); err != nil {
		h.writeActionError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) concede(w http.ResponseWriter, r *http.Request) {
	id, ok := h.gameID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	user, ok := h.requestUser(r)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "missing user header")
		return
	}
	if err := h.manager.Concede(r.Context(), id, user); err != nil {
		h.writeActionError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrActionNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrInvalidResponse), errors.Is(err, game.ErrGameEnded):
		h.writeError(w, http.StatusConflict, err.Error())
	default:
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// gameInfo is the public projection of an instance. Cards are exposed
// through the dedicated endpoint, which filters per requester.
type gameInfo struct {
	ID         int              `json:"id"`
	Status     game.Status      `json:"status"`
	GameTypeID string           `json:"gameTypeId"`
	Theme      string           `json:"theme,omitempty"`
	Users      []game.User      `json:"users"`
	Modifiers  game.ModifierSet `json:"modifiers"`
	Result     []game.Result    `json:"result,omitempty"`
}

func gameView(inst *game.Instance) gameInfo {
	return gameInfo{
		ID:         inst.ID,
		Status:     inst.Status,
		GameTypeID: inst.GameTypeID,
		Theme:      inst.Theme,
		Users:      inst.Users,
		Modifiers:  inst.Modifiers,
		Result:     inst.Result,
	}
}

// visibleCards returns the cards a user is allowed to see: everything on
// the board or in a discard pile, plus their own hand. Decks and the
// other hands stay hidden.
func visibleCards(inst *game.Instance, user int) []*game.Card {
	out := []*game.Card{}
	for _, c := range inst.Cards {
		switch c.Location {
		case game.LocationBoard, game.LocationDiscard:
			out = append(out, c)
		case game.LocationHand:
			if c.User == user {
				out = append(out, c)
			}
		}
	}
	return out
}
