package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/KILATIV100/perks-ua-bot-sub000/config"
	"github.com/KILATIV100/perks-ua-bot-sub000/logger"
	"github.com/KILATIV100/perks-ua-bot-sub000/rewards"
	"github.com/KILATIV100/perks-ua-bot-sub000/utils"
)

var (
	engine *rewards.Engine
	cfg    *config.Config
)

func Init(e *rewards.Engine, c *config.Config) {
	engine = e
	cfg = c
}

// initData older than this is refused even when correctly signed
const initDataMaxAge = time.Hour

type telegramAuthRequest struct {
	InitData string `json:"init_data"`
}

// POST /auth/telegram
// TelegramAuthHandler verifies Mini App initData, upserts the user
// (capturing the referrer on first contact) and returns a session token.
func TelegramAuthHandler(w http.ResponseWriter, r *http.Request) {
	var req telegramAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.InitData == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "init_data is required"})
		return
	}

	data, err := utils.VerifyInitData(req.InitData, cfg.Telegram.BotToken, initDataMaxAge)
	if err != nil {
		logger.Warn("rejected init data: ", err)
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid Telegram credentials"})
		return
	}

	var username *string
	if data.User.Username != "" {
		username = &data.User.Username
	}
	user, err := engine.AuthUser(r.Context(), data.User.ID, data.User.FirstName, username, data.StartParam)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	ttl := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	token, err := utils.GenerateAccessToken(cfg.Auth.JWTSecret, user.ID, ttl)
	if err != nil {
		utils.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Authenticated",
		Data: map[string]interface{}{
			"token": token,
			"user":  user,
		},
	})
}
