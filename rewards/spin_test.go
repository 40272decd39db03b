package rewards

import (
	"context"
	"testing"
	"time"

	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

func ptr(f float64) *float64 { return &f }

func spinAtSite(site *models.Site) SpinRequest {
	return SpinRequest{Lat: site.Lat, Lon: site.Lon}
}

func TestSpinHappyPath(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 401, 0)
	site := createTestSite(t, e, "Podil", 50.4501, 30.5234)
	ctx := context.Background()

	res, err := e.Spin(ctx, user.ID, spinAtSite(site))
	if err != nil {
		t.Fatalf("Spin failed: %v", err)
	}

	fresh, _ := e.FindUser(ctx, user.ID)
	if fresh.Points != res.PrizeValue {
		t.Fatalf("expected balance %d, got %d", res.PrizeValue, fresh.Points)
	}
	if fresh.TotalSpins != 1 {
		t.Fatalf("expected totalSpins 1, got %d", fresh.TotalSpins)
	}
	if fresh.LastSpinDate == nil || *fresh.LastSpinDate != e.clock.TodayString(time.Now()) {
		t.Fatalf("expected lastSpinDate set to today, got %v", fresh.LastSpinDate)
	}

	var records int64
	e.db.Model(&models.SpinRecord{}).Where("user_id = ?", user.ID).Count(&records)
	if records != 1 {
		t.Fatalf("expected one spin record, got %d", records)
	}
}

func TestSpinCooldownSameCivilDay(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 402, 0)
	site := createTestSite(t, e, "Podil", 50.4501, 30.5234)
	ctx := context.Background()

	if _, err := e.Spin(ctx, user.ID, spinAtSite(site)); err != nil {
		t.Fatalf("first spin failed: %v", err)
	}

	_, err := e.Spin(ctx, user.ID, spinAtSite(site))
	rej := expectRejection(t, err, KindCooldown)

	next, ok := rej.Data["next_spin_available_at"].(time.Time)
	if !ok {
		t.Fatalf("expected next_spin_available_at in rejection data, got %v", rej.Data)
	}
	expected := e.clock.NextMidnight(time.Now())
	if !next.Equal(expected) {
		t.Fatalf("expected next spin at local midnight %s, got %s", expected, next)
	}

	fresh, _ := e.FindUser(ctx, user.ID)
	if fresh.TotalSpins != 1 {
		t.Fatalf("cooldown spin must not increment totalSpins, got %d", fresh.TotalSpins)
	}
}

func TestSpinNoLocation(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 403, 0)
	createTestSite(t, e, "Podil", 50.4501, 30.5234)

	_, err := e.Spin(context.Background(), user.ID, SpinRequest{})
	expectRejection(t, err, KindNoLocation)
}

func TestSpinOutOfRange(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 404, 0)
	createTestSite(t, e, "Podil", 50.4501, 30.5234)

	// roughly 700m east of the site
	_, err := e.Spin(context.Background(), user.ID, SpinRequest{
		Lat: ptr(50.4501), Lon: ptr(30.5334),
	})
	rej := expectRejection(t, err, KindOutOfRange)
	if rej.Data["nearest_site"] != "Podil" {
		t.Fatalf("expected nearest site name in rejection, got %v", rej.Data)
	}
}

func TestSpinGeoBypassAllowlist(t *testing.T) {
	e := newTestEngine(t)
	cfg := testRewardsConfig()
	cfg.GeoBypassTelegramID = []int64{405}
	e = NewEngine(e.db, e.coord, e.clock, e.prizes, nil, cfg)
	user := createTestUser(t, e, 405, 0)

	// no coordinates and no sites at all: allowlisted users still spin
	if _, err := e.Spin(context.Background(), user.ID, SpinRequest{}); err != nil {
		t.Fatalf("expected allowlisted spin to succeed: %v", err)
	}
}

func TestSpinConcurrencyBusyWhileLockHeld(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 406, 0)
	site := createTestSite(t, e, "Podil", 50.4501, 30.5234)
	ctx := context.Background()

	// simulate an in-flight spin holding the per-user lock
	ok, err := e.coord.TryLock(ctx, spinLockKey(user.ID), time.Minute)
	if err != nil || !ok {
		t.Fatalf("failed to pre-acquire lock: ok=%v err=%v", ok, err)
	}

	_, err = e.Spin(ctx, user.ID, spinAtSite(site))
	expectRejection(t, err, KindConcurrencyBusy)

	// after release the spin proceeds
	_ = e.coord.Unlock(ctx, spinLockKey(user.ID))
	if _, err := e.Spin(ctx, user.ID, spinAtSite(site)); err != nil {
		t.Fatalf("expected spin to succeed after lock release: %v", err)
	}
}

func TestSpinLockReleasedAfterRejection(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 407, 0)
	createTestSite(t, e, "Podil", 50.4501, 30.5234)
	ctx := context.Background()

	_, err := e.Spin(ctx, user.ID, SpinRequest{})
	expectRejection(t, err, KindNoLocation)

	// the lock must not leak on the error path
	ok, _ := e.coord.TryLock(ctx, spinLockKey(user.ID), time.Minute)
	if !ok {
		t.Fatal("expected lock to be released after a rejected spin")
	}
}

func TestSpinIdempotentReplay(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e, 408, 0)
	site := createTestSite(t, e, "Podil", 50.4501, 30.5234)
	ctx := context.Background()

	req := spinAtSite(site)
	req.IdempotencyKey = "client-key-1"
	first, err := e.Spin(ctx, user.ID, req)
	if err != nil {
		t.Fatalf("Spin failed: %v", err)
	}

	replay, err := e.Spin(ctx, user.ID, req)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if replay.PrizeValue != first.PrizeValue ||
		replay.PrizeLabel != first.PrizeLabel ||
		replay.NewBalance != first.NewBalance ||
		!replay.NextSpinAvailableAt.Equal(first.NextSpinAvailableAt) {
		t.Fatalf("expected identical replay result, got %+v vs %+v", replay, first)
	}

	fresh, _ := e.FindUser(ctx, user.ID)
	if fresh.TotalSpins != 1 {
		t.Fatalf("replay must not re-run side effects, totalSpins=%d", fresh.TotalSpins)
	}
	if fresh.Points != first.NewBalance {
		t.Fatalf("replay must not change the balance, got %d", fresh.Points)
	}
}

func TestSpinReferralBonusPaidExactlyOnce(t *testing.T) {
	e := newTestEngine(t)
	referrer := createTestUser(t, e, 409, 10)
	site := createTestSite(t, e, "Podil", 50.4501, 30.5234)
	ctx := context.Background()

	invitee := models.User{TelegramID: 410, FirstName: "Invitee", ReferredBy: &referrer.ID}
	if err := e.db.Create(&invitee).Error; err != nil {
		t.Fatalf("failed to create invitee: %v", err)
	}

	if _, err := e.Spin(ctx, invitee.ID, spinAtSite(site)); err != nil {
		t.Fatalf("first spin failed: %v", err)
	}

	freshReferrer, _ := e.FindUser(ctx, referrer.ID)
	if freshReferrer.Points != 10+e.cfg.ReferralBonus {
		t.Fatalf("expected referrer balance %d, got %d", 10+e.cfg.ReferralBonus, freshReferrer.Points)
	}
	freshInvitee, _ := e.FindUser(ctx, invitee.ID)
	if !freshInvitee.ReferralBonusPaid {
		t.Fatal("expected referralBonusPaid flag to be set")
	}

	// a second spin (next civil day) must never credit again
	e.db.Model(&models.User{}).Where("id = ?", invitee.ID).
		UpdateColumn("last_spin_date", "2000-01-01")
	if _, err := e.Spin(ctx, invitee.ID, spinAtSite(site)); err != nil {
		t.Fatalf("second spin failed: %v", err)
	}
	freshReferrer, _ = e.FindUser(ctx, referrer.ID)
	if freshReferrer.Points != 10+e.cfg.ReferralBonus {
		t.Fatalf("referrer must be credited exactly once, balance %d", freshReferrer.Points)
	}
}

func TestSpinUnknownUser(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Spin(context.Background(), 9999, SpinRequest{Lat: ptr(50.0), Lon: ptr(30.0)})
	expectRejection(t, err, KindUserNotFound)
}
