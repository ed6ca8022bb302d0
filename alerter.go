package main

import (
	"context"
	"errors"
)

// ErrTransportNotConfigured is returned when a transport is used without the
// credentials or addresses it needs.
var ErrTransportNotConfigured = errors.New("transport not configured")

// ErrTransportRateLimited is returned when the remote API rate limited the
// transport and the message was not accepted.
var ErrTransportRateLimited = errors.New("transport rate limited")

// ErrTransportDropped is returned when the remote end refused the message, for
// example with a non-2xx HTTP response.
var ErrTransportDropped = errors.New("transport message dropped")

type EmailMessage struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// EmailTransport delivers one message to all of its recipients in a single call.
type EmailTransport interface {
	Send(ctx context.Context, message EmailMessage) error
}

type ChatMessage struct {
	Text string
	Room string
	// Sender is shown as the author of the message. Chat rooms only keep the
	// first 15 characters.
	Sender string
	Color  Color
	Notify bool
}

type ChatTransport interface {
	Send(ctx context.Context, message ChatMessage) error
}

type SMS struct {
	To   string
	From string
	Body string
}

// SMSTransport sends a single text message to a single phone number.
type SMSTransport interface {
	Send(ctx context.Context, message SMS) error
}

type Call struct {
	To   string
	From string
	// CallbackURL is fetched with GET by the telephony provider to obtain what
	// is spoken during the call.
	CallbackURL string
}

// VoiceTransport places a single phone call.
type VoiceTransport interface {
	PlaceCall(ctx context.Context, call Call) error
}
