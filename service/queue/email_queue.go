package queue

import (
	"context"
	"encoding/json"

	"github.com/antinvestor/service-catalogue/service/mailer"
	"github.com/pitabwire/frame"
)

// EmailQueueHandler drains the outbound email queue. Delivery is best
// effort; a failed send is logged and dropped rather than redelivered.
type EmailQueueHandler struct {
	service *frame.Service
	mailer  mailer.Mailer
}

func (eq *EmailQueueHandler) Handle(ctx context.Context, _ map[string]string, payload []byte) error {

	logger := eq.service.Log(ctx)

	message := &mailer.EmailMessage{}
	err := json.Unmarshal(payload, message)
	if err != nil {
		return err
	}

	err = eq.mailer.Send(ctx, message)
	if err != nil {
		logger.WithError(err).
			WithField("subject", message.Subject).
			Warn("Error sending queued email")
	}

	return nil
}

func NewEmailQueueHandler(service *frame.Service, emailSender mailer.Mailer) EmailQueueHandler {
	return EmailQueueHandler{
		service: service,
		mailer:  emailSender,
	}
}
