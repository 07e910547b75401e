package notify

import (
	"context"
	"fmt"
	"time"

	"bais_express/internal/model"

	"github.com/rs/zerolog"
)

const (
	subjectReset      = "Reset Password"
	subjectNewRequest = "New Transport Request"
)

// Notifier composes the service's transactional emails
type Notifier struct {
	mailer        Mailer
	dispatcher    *Dispatcher
	operatorEmail string
	resetValidFor time.Duration
	log           zerolog.Logger
}

func NewNotifier(mailer Mailer, dispatcher *Dispatcher, operatorEmail string, resetValidFor time.Duration, log zerolog.Logger) *Notifier {
	return &Notifier{
		mailer:        mailer,
		dispatcher:    dispatcher,
		operatorEmail: operatorEmail,
		resetValidFor: resetValidFor,
		log:           log,
	}
}

// SendPasswordReset delivers the reset link synchronously so the caller can report failure
func (n *Notifier) SendPasswordReset(ctx context.Context, email, link string) error {
	body, err := renderReset(link, humanDuration(n.resetValidFor))
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, Message{To: email, Subject: subjectReset, HTMLBody: body})
}

// NotifyNewRequest queues the operator email for a freshly stored request
func (n *Notifier) NotifyNewRequest(rc model.RequestCall) {
	if n.operatorEmail == "" {
		n.log.Warn().Int64("request_id", rc.ID).Msg("no operator email configured, request notification skipped")
		return
	}
	body, err := renderRequest(rc)
	if err != nil {
		n.log.Error().Err(err).Int64("request_id", rc.ID).Msg("render request notification")
		return
	}
	n.dispatcher.Enqueue(Message{To: n.operatorEmail, Subject: subjectNewRequest, HTMLBody: body})
}

func humanDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return pluralize(int(d/time.Hour), "hour")
	}
	if d >= time.Minute && d%time.Minute == 0 {
		return pluralize(int(d/time.Minute), "minute")
	}
	return d.String()
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
