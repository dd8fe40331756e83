package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/eaglezone/eaglezone-bot/internal/api/request"
	"github.com/eaglezone/eaglezone-bot/internal/api/response"
	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/services/onboarding"
	"github.com/eaglezone/eaglezone-bot/internal/services/referral"
	"github.com/eaglezone/eaglezone-bot/internal/storage"
)

// PlayerHandler handles admin player endpoints
type PlayerHandler struct {
	storage    storage.PlayerStore
	onboarding *onboarding.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(storage storage.PlayerStore, onboarding *onboarding.Service) *PlayerHandler {
	return &PlayerHandler{
		storage:    storage,
		onboarding: onboarding,
	}
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := playerIDFromPath(r)
	if !ok {
		WriteError(w, model.ErrInvalidPlayer)
		return
	}

	player, err := h.storage.GetPlayer(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Start handles POST /api/v1/players/{id}/start
// It replays a start command, sending the same replies the bot would.
func (h *PlayerHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := playerIDFromPath(r)
	if !ok {
		WriteError(w, model.ErrInvalidPlayer)
		return
	}

	var req request.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	outcome, err := h.onboarding.HandleStart(r.Context(), onboarding.StartEvent{
		PlayerID: id,
		ChatID:   req.ChatID,
		Profile: model.Profile{
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		},
		ReferralToken: req.ReferralToken,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if outcome.Created {
		status = http.StatusCreated
	}
	response.JSON(w, status, response.StartResponseFromOutcome(outcome))
}

func playerIDFromPath(r *http.Request) (model.PlayerID, bool) {
	id := model.PlayerID(mux.Vars(r)["id"])
	return id, referral.ValidPlayerID(id)
}
