package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"staysure-portal-be/internal/dto"
	"staysure-portal-be/internal/pkg/mailer"
	"staysure-portal-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// INotifierService drains status-change messages off the in-process bus and
// fans them out: email to the applicant, live push to their dashboard.
type INotifierService interface {
	Consume(ctx context.Context) error
}

type notifierService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
	wsHub        *websocket.Hub
}

func NewNotifierService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	wsHub *websocket.Hub,
) INotifierService {
	return &notifierService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
		wsHub:        wsHub,
	}
}

func (ns *notifierService) Consume(ctx context.Context) error {
	messages, err := ns.pubSub.Subscribe(ctx, ns.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ns.processMessage(msg)
		}
	}()

	return nil
}

func (ns *notifierService) processMessage(msg *message.Message) {
	var payload dto.StatusChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal status message: %v", err)
		msg.Ack() // malformed, retrying won't help
		return
	}

	log.Printf("[INFO] Notifying %s about %s -> %s", payload.UserEmail, payload.ApplicationId, payload.ToStatus)

	if ns.emailService != nil && payload.UserEmail != "" {
		if err := ns.emailService.SendStatusUpdate(payload.UserEmail, payload.ApplicationId, payload.ToStatus); err != nil {
			log.Printf("[ERROR] Failed to send status email for %s: %v", payload.ApplicationId, err)
			// Email failure doesn't block the live push; don't Nack.
		}
	}

	if ns.wsHub != nil {
		if uid, err := uuid.Parse(payload.UserId); err == nil {
			ns.wsHub.Send(uid, websocket.StatusUpdate{
				ApplicationId: payload.ApplicationId,
				FromStatus:    payload.FromStatus,
				ToStatus:      payload.ToStatus,
				Message:       fmt.Sprintf("Application %s is now %s", payload.ApplicationId, payload.ToStatus),
			})
		}
	}

	msg.Ack()
}
