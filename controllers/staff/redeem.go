package staff

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/KILATIV100/perks-ua-bot-sub000/rewards"
	"github.com/KILATIV100/perks-ua-bot-sub000/utils"
)

var engine *rewards.Engine

func Init(e *rewards.Engine) {
	engine = e
}

// POST /api/staff/redeem/{code}
// VerifyCodeHandler is used at the counter: it atomically marks a code as
// used so the same code can never be honored twice.
func VerifyCodeHandler(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if code == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "code is required"})
		return
	}

	rc, err := engine.VerifyCode(r.Context(), code)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Code accepted",
		Data: map[string]interface{}{
			"user_id":      rc.UserID,
			"points_spent": rc.PointsSpent,
			"used_at":      rc.UsedAt,
		},
	})
}
