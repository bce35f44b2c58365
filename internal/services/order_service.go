package services

import (
	"context"
	"fmt"

	"github.com/VedantNarayan/champaran-meat-house/internal/lifecycle"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/notification"
	"github.com/VedantNarayan/champaran-meat-house/internal/realtime"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
)

// DriverBoard is the three delivery views a driver works from.
type DriverBoard struct {
	Available []models.Order `json:"available"`
	Active    []models.Order `json:"active"`
	History   []models.Order `json:"history"`
}

// Tracking is what the customer order page shows.
type Tracking struct {
	Order *models.Order    `json:"order"`
	Steps []lifecycle.Step `json:"steps"`
}

type OrderService interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	Track(ctx context.Context, id string) (*Tracking, error)
	GetOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	// ChangeStatus runs the role guard and applies the resulting single-row update.
	ChangeStatus(ctx context.Context, actor lifecycle.Actor, orderID string, req lifecycle.Request) (*models.Order, error)
	DriverBoard(ctx context.Context, driverID string) (*DriverBoard, error)
	DeleteOrder(ctx context.Context, id string) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	events    EventPublisher
	relay     notification.Relay
	log       *logger.Logger
}

// NewOrderService builds the service. relay may be nil.
func NewOrderService(orderRepo repository.OrderRepository, events EventPublisher, relay notification.Relay, log *logger.Logger) OrderService {
	return &orderService{orderRepo: orderRepo, events: events, relay: relay, log: log}
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) Track(ctx context.Context, id string) (*Tracking, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Tracking{Order: order, Steps: lifecycle.Progress(order.Status)}, nil
}

func (s *orderService) GetOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(ctx, userID)
}

func (s *orderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

func (s *orderService) ChangeStatus(ctx context.Context, actor lifecycle.Actor, orderID string, req lifecycle.Request) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	change, err := lifecycle.Authorize(actor, order, req)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, change.Status, change.DriverID); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	previous := order.Status
	order.Status = change.Status
	if change.DriverID != nil {
		order.DriverID = change.DriverID
	}

	s.log.Info("order status changed", "order_id", order.ID, "from", previous, "to", order.Status, "role", actor.Role)

	if s.events != nil {
		s.events.Publish(realtime.Event{Table: realtime.TableOrders, Type: realtime.EventUpdate, ID: order.ID, Record: order})
	}
	if s.relay != nil {
		msg := notification.Message{Event: notification.EventStatusChanged, OrderID: order.ID, Status: order.Status, Order: order}
		if err := s.relay.Send(ctx, msg); err != nil {
			s.log.Warn("status change relay failed", "order_id", order.ID, "error", err)
		}
	}

	return order, nil
}

func (s *orderService) DriverBoard(ctx context.Context, driverID string) (*DriverBoard, error) {
	orders, err := s.orderRepo.GetDriverFeed(ctx)
	if err != nil {
		return nil, err
	}
	return &DriverBoard{
		Available: lifecycle.AvailableForPickup(orders),
		Active:    lifecycle.ActiveDeliveries(orders, driverID),
		History:   lifecycle.DeliveryHistory(orders, driverID),
	}, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.events != nil {
		s.events.Publish(realtime.Event{Table: realtime.TableOrders, Type: realtime.EventDelete, ID: id})
	}
	return nil
}
