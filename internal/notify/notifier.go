package notify

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"

	"github.com/carelink-app/backend/internal/models"
	"github.com/carelink-app/backend/internal/repositories"
)

// Notifier writes in-app notification rows after relationship mutations and,
// when an FCM client is configured, pushes to the counterparty's device.
// Notification delivery is best effort: failures are logged and never fail
// the mutation that triggered them.
type Notifier struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	messaging     *messaging.Client // nil disables push
	logger        *logrus.Logger
}

// NewNotifier creates a Notifier. messagingClient may be nil when push is
// not configured.
func NewNotifier(notifications repositories.NotificationRepository, users repositories.UserRepository, messagingClient *messaging.Client, logger *logrus.Logger) *Notifier {
	return &Notifier{
		notifications: notifications,
		users:         users,
		messaging:     messagingClient,
		logger:        logger,
	}
}

// RelationshipRequested notifies the recipient that a caregiver asked to be
// linked.
func (n *Notifier) RelationshipRequested(ctx context.Context, rel *models.CareRelationship) {
	if n == nil {
		return
	}
	cg, err := n.users.GetCaregiverByID(rel.CaregiverID)
	if err != nil {
		n.logger.WithError(err).Warn("skipping request notification, caregiver lookup failed")
		return
	}
	rc, err := n.users.GetRecipientByID(rel.RecipientID)
	if err != nil {
		n.logger.WithError(err).Warn("skipping request notification, recipient lookup failed")
		return
	}

	msg := fmt.Sprintf("%s wants to be your caregiver", cg.User.Name)
	n.deliver(ctx, models.NotificationCareRequest, cg.User.ID, &rc.User, "New care request", msg)
}

// RelationshipDecided notifies the caregiver of the recipient's decision.
func (n *Notifier) RelationshipDecided(ctx context.Context, rel *models.CareRelationship) {
	if n == nil {
		return
	}
	cg, err := n.users.GetCaregiverByID(rel.CaregiverID)
	if err != nil {
		n.logger.WithError(err).Warn("skipping response notification, caregiver lookup failed")
		return
	}
	rc, err := n.users.GetRecipientByID(rel.RecipientID)
	if err != nil {
		n.logger.WithError(err).Warn("skipping response notification, recipient lookup failed")
		return
	}

	msg := fmt.Sprintf("%s %s your care request", rc.User.Name, rel.Status)
	n.deliver(ctx, models.NotificationCareResponse, rc.User.ID, &cg.User, "Care request update", msg)
}

func (n *Notifier) deliver(ctx context.Context, notifType string, actorID uint, to *models.User, title, body string) {
	notification := &models.Notification{
		Type:    notifType,
		ActorID: actorID,
		UserID:  to.ID,
		Message: body,
	}
	if err := n.notifications.CreateNotification(notification); err != nil {
		n.logger.WithError(err).Warn("failed to store notification")
	}

	if n.messaging == nil || to.DeviceToken == "" {
		return
	}
	_, err := n.messaging.Send(ctx, &messaging.Message{
		Token: to.DeviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		n.logger.WithFields(logrus.Fields{
			"user_id": to.ID,
			"error":   err,
		}).Warn("failed to send push notification")
	}
}
