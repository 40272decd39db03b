package rewards

import (
	"context"
	"testing"

	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

func TestCreditPointsWithinCap(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 111, 0)
	ctx := context.Background()

	granted, err := e.CreditPoints(ctx, user.ID, 10, SourceGameWin)
	if err != nil {
		t.Fatalf("CreditPoints failed: %v", err)
	}
	if granted != 10 {
		t.Fatalf("expected 10 granted, got %d", granted)
	}

	fresh, _ := e.FindUser(ctx, user.ID)
	if fresh.Points != 10 {
		t.Fatalf("expected balance 10, got %d", fresh.Points)
	}
}

func TestCreditPointsClampsAtDailyCap(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 112, 0)
	ctx := context.Background()

	// game cap is points-per-win * max wins = 30
	for i := 0; i < 3; i++ {
		if _, err := e.CreditPoints(ctx, user.ID, 10, SourceGameWin); err != nil {
			t.Fatalf("CreditPoints failed: %v", err)
		}
	}
	granted, err := e.CreditPoints(ctx, user.ID, 10, SourceGameWin)
	if err != nil {
		t.Fatalf("CreditPoints failed: %v", err)
	}
	if granted != 0 {
		t.Fatalf("expected 0 granted past the cap, got %d", granted)
	}

	fresh, _ := e.FindUser(ctx, user.ID)
	if fresh.Points != 30 {
		t.Fatalf("expected balance clamped at 30, got %d", fresh.Points)
	}
}

func TestCreditPointsPartialClamp(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 113, 0)
	ctx := context.Background()

	if _, err := e.CreditPoints(ctx, user.ID, 25, SourceGameWin); err != nil {
		t.Fatalf("CreditPoints failed: %v", err)
	}
	granted, err := e.CreditPoints(ctx, user.ID, 10, SourceGameWin)
	if err != nil {
		t.Fatalf("CreditPoints failed: %v", err)
	}
	if granted != 5 {
		t.Fatalf("expected partial grant of 5, got %d", granted)
	}
}

func TestCreditPointsLedgerRowIsLazy(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 114, 0)
	ctx := context.Background()

	var count int64
	e.db.Model(&models.DailyLimitEntry{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no ledger rows before first award, got %d", count)
	}

	if _, err := e.CreditPoints(ctx, user.ID, 10, SourceGameWin); err != nil {
		t.Fatalf("CreditPoints failed: %v", err)
	}
	e.db.Model(&models.DailyLimitEntry{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one ledger row after first award, got %d", count)
	}
}

func TestCreditPointsSourcesAreIndependent(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 115, 0)
	ctx := context.Background()

	if _, err := e.CreditPoints(ctx, user.ID, 30, SourceGameWin); err != nil {
		t.Fatalf("CreditPoints failed: %v", err)
	}
	granted, err := e.CreditPoints(ctx, user.ID, 20, SourceArcade)
	if err != nil {
		t.Fatalf("CreditPoints failed: %v", err)
	}
	if granted != 20 {
		t.Fatalf("expected arcade cap to be independent of game cap, got %d", granted)
	}
}

func TestCreditPointsRejectsUnknownSource(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 116, 0)

	_, err := e.CreditPoints(context.Background(), user.ID, 10, Source("checkout_bonus"))
	expectRejection(t, err, KindInvalidSource)
}

func TestCreditPointsUnknownUser(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.CreditPoints(context.Background(), 9999, 10, SourceGameWin)
	expectRejection(t, err, KindUserNotFound)
}
