package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/ecomwatch/restock/pkg/watch"
)

func TestFormatRestockMessage(t *testing.T) {
	target := watch.Target{URL: "https://shop.test/p/1", Color: "Triple Black", Size: "M"}
	obs := watch.Observation{
		InStock:     true,
		Reason:      "enabled",
		ResolvedURL: "https://shop.test/p/1?v=2",
		CheckedAt:   time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}

	got := FormatRestockMessage(target, obs)
	want := "RESTOCK DETECTED!\n" +
		"Product: https://shop.test/p/1\n" +
		"Open: https://shop.test/p/1?v=2\n" +
		"Color: Triple Black | Size: M\n" +
		"Signal: enabled\n" +
		"Time: 2026-03-14 09:26:53Z"
	if got != want {
		t.Fatalf("message mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestFormatRestockMessageAnyVariant(t *testing.T) {
	got := FormatRestockMessage(watch.Target{URL: "https://shop.test/p/1"}, watch.Observation{})
	if !strings.Contains(got, "Color: (any) | Size: (any)") {
		t.Fatalf("unselected variants should render as (any):\n%s", got)
	}
}

func TestDiscordSend(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiscord(srv.URL)
	if err := d.Send(context.Background(), "ignored", "RESTOCK DETECTED!"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotBody["content"] != "RESTOCK DETECTED!" {
		t.Fatalf("wrong content: %q", gotBody["content"])
	}
}

func TestDiscordSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	d := NewDiscord(srv.URL)
	// 4xx is not retried, so this fails fast.
	if err := d.Send(context.Background(), "", "body"); err == nil {
		t.Fatal("expected error on 400 response")
	}
}

func TestEmailConfigValidate(t *testing.T) {
	full := EmailConfig{
		Host: "smtp.test", Port: 587,
		Username: "u", Password: "p",
		From: "a@test", To: "b@test",
	}
	if err := full.Validate(); err != nil {
		t.Fatalf("complete config should validate: %v", err)
	}

	missing := EmailConfig{Host: "smtp.test", Port: 587}
	err := missing.Validate()
	if err == nil {
		t.Fatal("expected error for incomplete config")
	}
	for _, field := range []string{"username", "password", "from", "to"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error should name %q: %v", field, err)
		}
	}
}

func TestEmailSendBuildsMIME(t *testing.T) {
	e := NewEmail(EmailConfig{
		Host: "smtp.test", Port: 587,
		Username: "u", Password: "p",
		From: "alerts@test", To: "me@test",
	})
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	e.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	if err := e.Send(context.Background(), "Restock alert", "It is back."); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotAddr != "smtp.test:587" || gotFrom != "alerts@test" {
		t.Fatalf("wrong addr/from: %s / %s", gotAddr, gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "me@test" {
		t.Fatalf("wrong recipients: %v", gotTo)
	}
	msg := string(gotMsg)
	if !strings.Contains(msg, "Subject: Restock alert\r\n") {
		t.Fatalf("missing subject header:\n%s", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\nIt is back.") {
		t.Fatalf("body not separated from headers:\n%s", msg)
	}
}
