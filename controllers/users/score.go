package users

import (
	"encoding/json"
	"net/http"

	"github.com/KILATIV100/perks-ua-bot-sub000/rewards"
	"github.com/KILATIV100/perks-ua-bot-sub000/utils"
)

type scoreRequest struct {
	Score       uint   `json:"score"`
	ClaimedAtMs int64  `json:"claimed_at_ms"`
	Hash        string `json:"hash"`
	DurationMs  *int64 `json:"duration_ms,omitempty"`
}

// POST /api/users/score
// ScoreHandler accepts an arcade result. The score is verified (hash,
// freshness, plausibility) before any points are considered.
func ScoreHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Hash == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request body"})
		return
	}

	result, err := engine.SubmitScore(r.Context(), uid, rewards.ScoreRequest{
		Score:       req.Score,
		ClaimedAtMs: req.ClaimedAtMs,
		Hash:        req.Hash,
		DurationMs:  req.DurationMs,
	})
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Score accepted",
		Data:    result,
	})
}
