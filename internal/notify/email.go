// Package notify holds the post-checkout notification consumers. Actual
// delivery (email, WhatsApp) happens in external collaborators; this layer
// only records what would be sent.
package notify

import (
	"log/slog"

	"github.com/hanastore/checkout-api/internal/event"
)

// EmailNotifier logs an order-confirmation notification for each created
// order. It stands in for the real mail sender; failures here are invisible
// to the checkout pipeline.
type EmailNotifier struct {
	log *slog.Logger
}

// NewEmailNotifier creates a notifier writing to the given logger.
func NewEmailNotifier(log *slog.Logger) *EmailNotifier {
	return &EmailNotifier{log: log}
}

// Handle implements event.Handler.
func (n *EmailNotifier) Handle(e event.Event) {
	created, ok := e.(event.OrderCreated)
	if !ok {
		return
	}

	if created.CustomerEmail == "" {
		n.log.Debug("order confirmation skipped, no email on order",
			"order_number", created.OrderNumber,
		)
		return
	}

	n.log.Info("order confirmation queued",
		"order_number", created.OrderNumber,
		"email", created.CustomerEmail,
		"total", created.Total,
	)
}
