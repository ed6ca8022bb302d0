package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// twilioAPI is the subset of the Twilio REST API used for alerting.
type twilioAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
	CreateCall(params *twilioApi.CreateCallParams) (*twilioApi.ApiV2010Call, error)
}

type TwilioTransportOptions struct {
	AccountSid string
	AuthToken  string
}

// TwilioTransport sends text messages and places phone calls through Twilio.
type TwilioTransport struct {
	api twilioAPI
}

func NewTwilioTransport(options TwilioTransportOptions) *TwilioTransport {
	if options.AccountSid == "" || options.AuthToken == "" {
		return &TwilioTransport{}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: options.AccountSid,
		Password: options.AuthToken,
	})
	return &TwilioTransport{api: client.Api}
}

func (t *TwilioTransport) Send(ctx context.Context, message SMS) error {
	if t.api == nil || message.From == "" {
		return fmt.Errorf("%w: twilio credentials and outgoing number are required", ErrTransportNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(message.To)
	params.SetFrom(message.From)
	params.SetBody(message.Body)

	if _, err := t.api.CreateMessage(params); err != nil {
		return fmt.Errorf("creating twilio message: %w", err)
	}
	return nil
}

func (t *TwilioTransport) PlaceCall(ctx context.Context, call Call) error {
	if t.api == nil || call.From == "" {
		return fmt.Errorf("%w: twilio credentials and outgoing number are required", ErrTransportNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateCallParams{}
	params.SetTo(call.To)
	params.SetFrom(call.From)
	params.SetUrl(call.CallbackURL)
	params.SetMethod(http.MethodGet)

	if _, err := t.api.CreateCall(params); err != nil {
		return fmt.Errorf("creating twilio call: %w", err)
	}
	return nil
}
