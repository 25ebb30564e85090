// Package notify tells users about level changes by email.
package notify

import (
	"context"
	"fmt"

	"github.com/dtroode/levelkeeper/internal/model"
)

// UpgradeSubject is the subject line of every upgrade notice.
const UpgradeSubject = "Upgrade notice"

// Message is a single plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// MailSender delivers one message to one address.
type MailSender interface {
	Send(ctx context.Context, msg Message) error
}

var _ model.Notifier = (*EmailNotifier)(nil)

// EmailNotifier sends an upgrade notice to the user's email address.
type EmailNotifier struct {
	sender MailSender
	from   string
}

func NewEmailNotifier(sender MailSender, from string) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from}
}

func (n *EmailNotifier) Notify(ctx context.Context, user model.User) error {
	if user.Email == "" {
		return fmt.Errorf("user %q has no email address", user.ID)
	}

	msg := Message{
		From:    n.from,
		To:      user.Email,
		Subject: UpgradeSubject,
		Body:    fmt.Sprintf("Dear %s, your membership level has been upgraded to %s (user id: %s).", displayName(user), user.Level, user.ID),
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send upgrade notice: %w", err)
	}
	return nil
}

func displayName(user model.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.ID
}
