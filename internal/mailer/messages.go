// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"context"
	"fmt"
)

// SendContactNotification forwards a contact form submission to the church
// office. Reply-To is set to the visitor so staff can answer directly.
func (c *Client) SendContactNotification(ctx context.Context, officeEmail, visitorName, visitorEmail, message string) error {
	body := fmt.Sprintf(
		"New message from the website contact form.\n\n"+
			"Name: %s\nEmail: %s\n\n%s\n",
		visitorName, visitorEmail, message,
	)

	return c.Send(ctx, Message{
		To:       officeEmail,
		ReplyTo:  visitorEmail,
		Subject:  "Website contact form: " + visitorName,
		TextBody: body,
	})
}

// SendContactAcknowledgment confirms receipt to the visitor.
func (c *Client) SendContactAcknowledgment(ctx context.Context, visitorName, visitorEmail string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Thank you for reaching out to Grace Chapel. We received your message "+
			"and someone from our office will get back to you soon.\n\n"+
			"Blessings,\nGrace Chapel\n",
		visitorName,
	)

	return c.Send(ctx, Message{
		To:       visitorEmail,
		Subject:  "We received your message",
		TextBody: body,
	})
}

// SendAdminInvite emails a new administrator a link to set their password.
func (c *Client) SendAdminInvite(ctx context.Context, toEmail, toName, inviteURL string) error {
	name := toName
	if name == "" {
		name = toEmail
	}

	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"You have been invited to help manage the Grace Chapel website.\n\n"+
			"Set your password using the link below to activate your account:\n\n"+
			"%s\n\n"+
			"If you were not expecting this invitation you can ignore this email.\n",
		name, inviteURL,
	)

	return c.Send(ctx, Message{
		To:       toEmail,
		Subject:  "You're invited to manage the Grace Chapel website",
		TextBody: body,
	})
}
