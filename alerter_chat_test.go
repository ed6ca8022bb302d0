package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestWebhookChatTransport_Send(t *testing.T) {
	var received url.Values
	var query url.Values
	var headers http.Header
	var rawBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rawBody = string(body)
		received, _ = url.ParseQuery(rawBody)
		query = r.URL.Query()
		headers = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	transport := NewWebhookChatTransport(WebhookChatTransportOptions{
		URL:           server.URL,
		ApiKey:        "token",
		HmacSecret:    "secret",
		CustomHeaders: map[string]string{"X-Team": "ops"},
	})

	err := transport.Send(context.Background(), ChatMessage{
		Text:   "@bob Service Web reporting CRITICAL status",
		Room:   "ops",
		Sender: "Cabot/Payments Gateway",
		Color:  ColorRed,
		Notify: true,
	})
	if err != nil {
		t.Fatalf("failed to send chat message: %v", err)
	}

	if got := received.Get("from"); got != "Cabot/Payments " {
		t.Errorf("expected sender truncated to 15 characters, got %q", got)
	}
	if received.Get("room_id") != "ops" || received.Get("color") != "red" || received.Get("notify") != "1" {
		t.Errorf("unexpected form %v", received)
	}
	if received.Get("message") != "@bob Service Web reporting CRITICAL status" {
		t.Errorf("unexpected message %q", received.Get("message"))
	}
	if query.Get("auth_token") != "token" {
		t.Errorf("expected auth_token query parameter, got %v", query)
	}
	if headers.Get("X-Team") != "ops" {
		t.Errorf("expected custom header, got %v", headers)
	}

	signer := hmac.New(sha256.New, []byte("secret"))
	signer.Write([]byte(rawBody))
	if expected := fmt.Sprintf("%x", signer.Sum(nil)); headers.Get("X-Signature") != expected {
		t.Errorf("expected signature %s, got %s", expected, headers.Get("X-Signature"))
	}
}

func TestWebhookChatTransport_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   error
	}{
		{name: "rate limited", statusCode: http.StatusTooManyRequests, expected: ErrTransportRateLimited},
		{name: "server error", statusCode: http.StatusInternalServerError, expected: ErrTransportDropped},
		{name: "bad request", statusCode: http.StatusBadRequest, expected: ErrTransportDropped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			transport := NewWebhookChatTransport(WebhookChatTransportOptions{URL: server.URL})
			err := transport.Send(context.Background(), ChatMessage{Text: "hello", Room: "ops"})
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestWebhookChatTransport_NotConfigured(t *testing.T) {
	transport := NewWebhookChatTransport(WebhookChatTransportOptions{})
	err := transport.Send(context.Background(), ChatMessage{Text: "hello", Room: "ops"})
	if !errors.Is(err, ErrTransportNotConfigured) {
		t.Errorf("expected ErrTransportNotConfigured, got %v", err)
	}
}

func TestTruncateSender(t *testing.T) {
	tests := map[string]string{
		"Cabot/Web":                "Cabot/Web",
		"Cabot/123456789":          "Cabot/123456789",
		"Cabot/1234567890":         "Cabot/123456789",
		"Cabot/Überwachungsdienst": "Cabot/Überwach",
	}
	for input, expected := range tests {
		if got := truncateSender(input); got != expected {
			t.Errorf("truncateSender(%q): expected %q, got %q", input, expected, got)
		}
	}
}
