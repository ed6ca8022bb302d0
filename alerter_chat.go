package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const chatSenderMaxLength = 15

type WebhookChatTransportOptions struct {
	URL           string
	ApiKey        string
	HmacSecret    string
	CustomHeaders map[string]string
	HttpClient    *http.Client
}

// WebhookChatTransport posts room notifications to a HipChat compatible endpoint.
type WebhookChatTransport struct {
	url           string
	apiKey        string
	hmacSecret    string
	customHeaders map[string]string
	httpClient    *http.Client
}

func NewWebhookChatTransport(options WebhookChatTransportOptions) *WebhookChatTransport {
	if options.HttpClient == nil {
		options.HttpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookChatTransport{
		url:           options.URL,
		apiKey:        options.ApiKey,
		hmacSecret:    options.HmacSecret,
		customHeaders: options.CustomHeaders,
		httpClient:    options.HttpClient,
	}
}

func truncateSender(sender string) string {
	runes := []rune(sender)
	if len(runes) > chatSenderMaxLength {
		return string(runes[:chatSenderMaxLength])
	}
	return sender
}

func (c *WebhookChatTransport) Send(ctx context.Context, message ChatMessage) error {
	if c.url == "" || message.Room == "" {
		return fmt.Errorf("%w: chat url and room are required", ErrTransportNotConfigured)
	}

	endpoint, err := url.Parse(c.url)
	if err != nil {
		return fmt.Errorf("parsing chat url: %w", err)
	}
	if c.apiKey != "" {
		query := endpoint.Query()
		query.Set("auth_token", c.apiKey)
		endpoint.RawQuery = query.Encode()
	}

	notify := "0"
	if message.Notify {
		notify = "1"
	}
	form := url.Values{
		"room_id":        {message.Room},
		"from":           {truncateSender(message.Sender)},
		"message":        {message.Text},
		"notify":         {notify},
		"color":          {string(message.Color)},
		"message_format": {"text"},
	}
	requestBody := form.Encode()

	var signature string
	if c.hmacSecret != "" {
		signer := hmac.New(sha256.New, []byte(c.hmacSecret))
		signer.Write([]byte(requestBody))
		signature = fmt.Sprintf("%x", signer.Sum(nil))
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(requestBody))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("User-Agent", "cabot-alert/1.0")
	for key, value := range c.customHeaders {
		request.Header.Set(key, value)
	}
	if signature != "" {
		request.Header.Set("X-Signature", signature)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer func() {
		if response.Body != nil {
			_ = response.Body.Close()
		}
	}()
	if response.StatusCode == http.StatusTooManyRequests {
		return ErrTransportRateLimited
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("%w: received non-2xx response code %d", ErrTransportDropped, response.StatusCode)
	}

	return nil
}
