package service

import (
	"context"
	"fmt"
	"strings"

	"craftcurio/internal/entity"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// ResendEmailSender delivers passcodes through the Resend API. When
// unconfigured, or when Resend rejects the send, the code is written to
// the log instead so the flow always has a local fallback.
type ResendEmailSender struct {
	Client *resend.Client
	From   string
	Logger logrus.FieldLogger
}

func NewResendEmailSender(apiKey string, from string, logger logrus.FieldLogger) *ResendEmailSender {
	sender := &ResendEmailSender{Logger: logger}
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return sender
	}
	sender.Client = resend.NewClient(apiKey)
	sender.From = from
	return sender
}

func (s *ResendEmailSender) SendPasscode(ctx context.Context, email string, code string, purpose entity.PasscodePurpose) error {
	if s.Client == nil {
		s.logPasscode(email, code, purpose, "email delivery not configured")
		return nil
	}

	subject := "Your CraftCurio sign-in code"
	action := "sign in"
	if purpose == entity.PurposeSignup {
		subject = "Confirm your CraftCurio account"
		action = "finish creating your account"
	}
	html := fmt.Sprintf("<p>Use this code to %s:</p><h2>%s</h2><p>It expires in 10 minutes.</p>", action, code)
	text := fmt.Sprintf("Use this code to %s: %s (expires in 10 minutes)", action, code)

	_, err := s.Client.Emails.Send(&resend.SendEmailRequest{
		From:    s.From,
		To:      []string{email},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	if err != nil {
		s.logPasscode(email, code, purpose, err.Error())
		return err
	}
	return nil
}

func (s *ResendEmailSender) logPasscode(email string, code string, purpose entity.PasscodePurpose, reason string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithFields(logrus.Fields{
		"email":   email,
		"code":    code,
		"purpose": purpose,
		"reason":  reason,
	}).Warn("passcode not emailed")
}
