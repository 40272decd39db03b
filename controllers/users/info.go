package users

import (
	"net/http"

	"github.com/KILATIV100/perks-ua-bot-sub000/utils"
)

// GET /api/users/me
// MeHandler returns balance, cooldown state and any live redemption code
// for the mini-app's home screen.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	status, err := engine.Status(r.Context(), uid)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "OK",
		Data:    status,
	})
}
