package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"
)

const testBotToken = "12345:TEST-TOKEN"

func signInitData(t *testing.T, values url.Values) string {
	t.Helper()
	pairs := make([]string, 0, len(values))
	for k := range values {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	sort.Strings(pairs)

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(testBotToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func freshInitData(t *testing.T) url.Values {
	t.Helper()
	v := url.Values{}
	v.Set("user", `{"id":777,"first_name":"Olena","username":"olena_k"}`)
	v.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	v.Set("query_id", "AAE3kwAAAAAAAJ3q")
	return v
}

func TestVerifyInitDataValid(t *testing.T) {
	raw := signInitData(t, freshInitData(t))
	data, err := VerifyInitData(raw, testBotToken, time.Hour)
	if err != nil {
		t.Fatalf("expected valid init data, got %v", err)
	}
	if data.User.ID != 777 || data.User.FirstName != "Olena" {
		t.Fatalf("unexpected user: %+v", data.User)
	}
}

func TestVerifyInitDataStartParam(t *testing.T) {
	v := freshInitData(t)
	v.Set("start_param", "42")
	raw := signInitData(t, v)
	data, err := VerifyInitData(raw, testBotToken, time.Hour)
	if err != nil {
		t.Fatalf("expected valid init data, got %v", err)
	}
	if data.StartParam != "42" {
		t.Fatalf("expected start_param 42, got %q", data.StartParam)
	}
}

func TestVerifyInitDataTamperedRejected(t *testing.T) {
	v := freshInitData(t)
	raw := signInitData(t, v)
	tampered := strings.Replace(raw, "777", "888", 1)
	if _, err := VerifyInitData(tampered, testBotToken, time.Hour); err == nil {
		t.Fatal("expected tampered init data to be rejected")
	}
}

func TestVerifyInitDataWrongToken(t *testing.T) {
	raw := signInitData(t, freshInitData(t))
	if _, err := VerifyInitData(raw, "other:TOKEN", time.Hour); err == nil {
		t.Fatal("expected signature mismatch for wrong bot token")
	}
}

func TestVerifyInitDataTooOld(t *testing.T) {
	v := freshInitData(t)
	v.Set("auth_date", strconv.FormatInt(time.Now().Add(-2*time.Hour).Unix(), 10))
	raw := signInitData(t, v)
	if _, err := VerifyInitData(raw, testBotToken, time.Hour); err == nil {
		t.Fatal("expected stale init data to be rejected")
	}
}

func TestVerifyInitDataMissingHash(t *testing.T) {
	if _, err := VerifyInitData("user=%7B%22id%22%3A1%7D", testBotToken, time.Hour); err == nil {
		t.Fatal("expected init data without hash to be rejected")
	}
}
