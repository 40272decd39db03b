package game

import (
	"encoding/json"
	"net/http"

	"github.com/KILATIV100/perks-ua-bot-sub000/rewards"
	"github.com/KILATIV100/perks-ua-bot-sub000/utils"
)

var engine *rewards.Engine

func Init(e *rewards.Engine) {
	engine = e
}

type creditRequest struct {
	UserID uint   `json:"user_id"`
	Amount uint   `json:"amount"`
	Source string `json:"source"`
}

// POST /api/internal/credit
// CreditHandler is the inbound hook for the real-time game service. The
// award goes through the same daily-limit ledger as every other source.
func CreditHandler(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request body"})
		return
	}

	granted, err := engine.CreditPoints(r.Context(), req.UserID, req.Amount, rewards.Source(req.Source))
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Credited",
		Data: map[string]interface{}{
			"points_granted": granted,
		},
	})
}
