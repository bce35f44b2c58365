package services

import (
	"context"
	"errors"

	"github.com/VedantNarayan/champaran-meat-house/internal/lifecycle"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/notification"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
	"github.com/VedantNarayan/champaran-meat-house/pkg/whatsapp"
)

// kitchenActor is who chat commands act as. Commands are applied with admin rights.
var kitchenActor = lifecycle.Actor{ID: "kitchen-chat", Role: models.RoleAdmin}

type NotificationService interface {
	NotifyOrderCreated(ctx context.Context, orderID string) error
	// HandleInbound applies a chat command. It returns nil, nil when the message is not a
	// command or names no order.
	HandleInbound(ctx context.Context, from, text string) (*models.Order, error)
}

type notificationService struct {
	orderRepo repository.OrderRepository
	orders    OrderService
	relay     notification.Relay
	chefPhone string
	log       *logger.Logger
}

// NewNotificationService builds the relay service. When chefPhone is set, inbound commands from
// any other number are ignored.
func NewNotificationService(orderRepo repository.OrderRepository, orders OrderService, relay notification.Relay, chefPhone string, log *logger.Logger) NotificationService {
	return &notificationService{orderRepo: orderRepo, orders: orders, relay: relay, chefPhone: chefPhone, log: log}
}

func (s *notificationService) NotifyOrderCreated(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	return s.relay.Send(ctx, notification.Message{
		Event:   notification.EventOrderCreated,
		OrderID: order.ID,
		Status:  order.Status,
		Text:    notification.FormatOrderSummary(order),
		Order:   order,
	})
}

func (s *notificationService) HandleInbound(ctx context.Context, from, text string) (*models.Order, error) {
	cmd, ok := notification.ParseCommand(text)
	if !ok {
		return nil, nil
	}
	if s.chefPhone != "" && whatsapp.NormalizePhone(from) != whatsapp.NormalizePhone(s.chefPhone) {
		s.log.Warn("ignoring command from unknown sender", "from", from)
		return nil, nil
	}

	order, err := s.orderRepo.FindByIDPrefix(ctx, cmd.Prefix)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Info("no order matches command", "prefix", cmd.Prefix)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return s.orders.ChangeStatus(ctx, kitchenActor, order.ID, lifecycle.Request{Target: cmd.Status})
}
