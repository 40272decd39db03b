package users

import (
	"net/http"

	"github.com/KILATIV100/perks-ua-bot-sub000/utils"
)

// POST /api/users/redeem
// RedeemHandler exchanges points for a single-use drink code.
func RedeemHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	result, err := engine.Redeem(r.Context(), uid)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Show this code at the counter",
		Data:    result,
	})
}
