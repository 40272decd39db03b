package users

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/KILATIV100/perks-ua-bot-sub000/rewards"
	"github.com/KILATIV100/perks-ua-bot-sub000/utils"
)

var engine *rewards.Engine

func Init(e *rewards.Engine) {
	engine = e
}

type spinRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// POST /api/users/spin
// Coordinates are optional in the body; allowlisted users spin without
// them. The Idempotency-Key header makes retries safe.
func SpinHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req spinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request body"})
		return
	}

	result, err := engine.Spin(r.Context(), uid, rewards.SpinRequest{
		Lat:            req.Lat,
		Lon:            req.Lon,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: result.PrizeLabel,
		Data:    result,
	})
}
