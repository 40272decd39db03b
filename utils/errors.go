package utils

import (
	"net/http"

	"github.com/KILATIV100/perks-ua-bot-sub000/logger"
	"github.com/KILATIV100/perks-ua-bot-sub000/rewards"
)

// WriteEngineError maps a rewards error to an HTTP response. Business
// rejections become 4xx with a machine-readable kind; anything else is an
// infrastructure failure, logged and surfaced generically.
func WriteEngineError(w http.ResponseWriter, err error) {
	if rej, ok := rewards.AsRejection(err); ok {
		status := http.StatusBadRequest
		switch rej.Kind {
		case rewards.KindConcurrencyBusy:
			status = http.StatusTooManyRequests
		case rewards.KindUserNotFound, rewards.KindCodeNotFound:
			status = http.StatusNotFound
		}
		data := map[string]interface{}{"kind": string(rej.Kind)}
		for k, v := range rej.Data {
			data[k] = v
		}
		WriteJSON(w, status, APIResponse{Success: false, Message: rej.Message, Data: data})
		return
	}
	logger.Error("request failed: ", err)
	WriteJSON(w, http.StatusInternalServerError, APIResponse{
		Success: false,
		Message: "Something went wrong, please try again",
	})
}
