package messenger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestSendText(t *testing.T) {
	var got sendRequest
	var token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = r.URL.Query().Get("access_token")
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"recipient_id":"1","message_id":"m"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/v12.0/me/messages", "page-token", zap.NewNop())
	if err := c.SendText(context.Background(), "psid-1", "გამარჯობა"); err != nil {
		t.Fatalf("SendText error: %v", err)
	}
	if token != "page-token" || got.Recipient.ID != "psid-1" || got.Message.Text != "გამარჯობა" {
		t.Fatalf("unexpected request: token=%q body=%+v", token, got)
	}
}

func TestSendTextReportsPlatformErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", zap.NewNop())
	if err := c.SendText(context.Background(), "psid-1", "x"); err == nil {
		t.Fatalf("expected error on 400")
	}
}

func TestSignature(t *testing.T) {
	body := []byte(`{"object":"page"}`)
	header := Sign("secret", body)
	if !ValidSignature("secret", body, header) {
		t.Fatalf("own signature rejected")
	}
	for _, bad := range []string{"", "sha1=abc", "sha256=zz", Sign("other", body)} {
		if ValidSignature("secret", body, bad) {
			t.Fatalf("signature %q accepted", bad)
		}
	}
	if ValidSignature("secret", []byte(`{"object":"user"}`), header) {
		t.Fatalf("tampered body accepted")
	}
}
