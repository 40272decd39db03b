package rewards

import (
	"errors"
	"fmt"
)

// Kind identifies a business-rule rejection. Rejections are expected
// outcomes mapped to user-facing responses by the caller; infrastructure
// errors are returned as plain errors and must never be confused with them.
type Kind string

const (
	KindConcurrencyBusy      Kind = "CONCURRENCY_BUSY"
	KindCooldown             Kind = "COOLDOWN"
	KindOutOfRange           Kind = "OUT_OF_RANGE"
	KindNoLocation           Kind = "NO_LOCATION"
	KindInsufficientPoints   Kind = "INSUFFICIENT_POINTS"
	KindActiveCodeExists     Kind = "ACTIVE_CODE_EXISTS"
	KindCodeGenerationFailed Kind = "CODE_GENERATION_FAILED"
	KindInvalidHash          Kind = "INVALID_HASH"
	KindExpiredScore         Kind = "EXPIRED_SCORE"
	KindUnrealisticScore     Kind = "UNREALISTIC_SCORE"
	KindUserNotFound         Kind = "USER_NOT_FOUND"
	KindCodeNotFound         Kind = "CODE_NOT_FOUND"
	KindCodeExpired          Kind = "CODE_EXPIRED"
	KindCodeAlreadyUsed      Kind = "CODE_ALREADY_USED"
	KindInvalidSource        Kind = "INVALID_SOURCE"
)

type Rejection struct {
	Kind    Kind
	Message string
	Data    map[string]interface{}
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("[%s] %s", r.Kind, r.Message)
}

func Reject(kind Kind, message string) *Rejection {
	return &Rejection{Kind: kind, Message: message}
}

// With attaches a machine-readable detail for the caller's response.
func (r *Rejection) With(key string, value interface{}) *Rejection {
	if r.Data == nil {
		r.Data = make(map[string]interface{})
	}
	r.Data[key] = value
	return r
}

// AsRejection unwraps a business rejection from an error chain.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
