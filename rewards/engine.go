package rewards

import (
	"time"

	"gorm.io/gorm"

	"github.com/KILATIV100/perks-ua-bot-sub000/config"
	"github.com/KILATIV100/perks-ua-bot-sub000/logger"
)

// Source is the closed set of reward origins. The daily-limit ledger only
// accepts these, so cap logic cannot be bypassed by an unexpected payload.
type Source string

const (
	SourceWheel   Source = "wheel"
	SourceGameWin Source = "game_win"
	SourceArcade  Source = "arcade"
)

// Notifier delivers best-effort user notifications. Failures are swallowed;
// they never affect an operation's outcome.
type Notifier interface {
	Send(chatID int64, text string) error
}

// Engine serializes every balance-affecting operation: spins, redemptions,
// arcade scores and game-win credits all funnel through it.
type Engine struct {
	db       *gorm.DB
	coord    Coordinator
	clock    *CivilClock
	prizes   *PrizeTable
	notifier Notifier
	cfg      config.RewardsConfig

	geoBypass map[int64]bool
	caps      map[Source]uint
}

func NewEngine(db *gorm.DB, coord Coordinator, clock *CivilClock, prizes *PrizeTable, notifier Notifier, cfg config.RewardsConfig) *Engine {
	e := &Engine{
		db:        db,
		coord:     coord,
		clock:     clock,
		prizes:    prizes,
		notifier:  notifier,
		cfg:       cfg,
		geoBypass: make(map[int64]bool),
		caps: map[Source]uint{
			// the wheel is limited by the one-spin-per-day cooldown, not a
			// point cap, so it has no entry here
			SourceGameWin: cfg.GamePointsPerWin * cfg.GameMaxWinsPerDay,
			SourceArcade:  cfg.ArcadeDailyCap,
		},
	}
	for _, id := range cfg.GeoBypassTelegramID {
		e.geoBypass[id] = true
	}
	return e
}

// notify fires a notification without blocking or failing the caller.
func (e *Engine) notify(chatID int64, text string) {
	if e.notifier == nil || chatID == 0 {
		return
	}
	go func() {
		if err := e.notifier.Send(chatID, text); err != nil {
			logger.WithFields(map[string]interface{}{
				"chat_id": chatID,
			}).Warnf("notification failed: %v", err)
		}
	}()
}

func (e *Engine) lockTTL() time.Duration {
	return time.Duration(e.cfg.SpinLockTTLSeconds) * time.Second
}

func (e *Engine) idempotencyTTL() time.Duration {
	return time.Duration(e.cfg.IdempotencyTTLHours) * time.Hour
}
