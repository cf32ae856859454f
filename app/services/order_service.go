package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/orm"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderConfirmed = "order.confirmed"
)

// OrderEvent is the payload fired for order events.
type OrderEvent struct {
	Event       string             `json:"event"`
	OrderID     uint               `json:"order_id"`
	ProductName string             `json:"product_name,omitempty"`
	Quantity    int                `json:"quantity,omitempty"`
	TotalPrice  float64            `json:"total_price,omitempty"`
	Status      models.OrderStatus `json:"status"`
}

// OrderRequest is a checkout as submitted by a customer.
type OrderRequest struct {
	ProductID       uint
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CustomerNotes   *string
	CustomerColor   *string
	CustomerSize    *string
	Quantity        int
}

// PlacedOrder summarises an accepted order.
type PlacedOrder struct {
	OrderID      uint
	ProductName  string
	ProductPrice float64
	TotalPrice   float64
	Status       models.OrderStatus
}

type OrderService struct {
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
	events   *event.Dispatcher
}

// NewOrderService fires order events on events; a nil dispatcher gets a
// private one with no listeners. Events are delivered asynchronously so a
// slow listener never holds up checkout.
func NewOrderService(orders *repositories.OrderRepository, products *repositories.ProductRepository, events *event.Dispatcher) *OrderService {
	if events == nil {
		events = event.NewDispatcher()
	}
	return &OrderService{orders: orders, products: products, events: events}
}

// Place prices the order from the product's current price and stores it as
// pending. The price and total are a snapshot: later product edits do not
// touch them.
func (s *OrderService) Place(ctx context.Context, req OrderRequest) (PlacedOrder, error) {
	if err := req.validate(); err != nil {
		return PlacedOrder{}, err
	}

	product, err := s.products.Find(ctx, req.ProductID)
	if errors.Is(err, orm.ErrNotFound) {
		return PlacedOrder{}, ErrProductNotFound
	}
	if err != nil {
		return PlacedOrder{}, fmt.Errorf("find product: %w", err)
	}

	o := models.Order{
		ProductID:       product.ID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CustomerAddress: strings.TrimSpace(req.CustomerAddress),
		CustomerNotes:   req.CustomerNotes,
		CustomerColor:   req.CustomerColor,
		CustomerSize:    req.CustomerSize,
		Quantity:        req.Quantity,
		ProductPrice:    product.Price,
		TotalPrice:      product.Price * float64(req.Quantity),
		Status:          models.OrderPending,
	}
	if err := s.orders.Create(ctx, &o); err != nil {
		return PlacedOrder{}, err
	}

	metrics.OrdersPlaced.Inc()
	logger.WithCtx(ctx).Info("order placed", "order_id", o.ID, "product_id", o.ProductID, "total_price", o.TotalPrice)
	s.events.FireAsync(ctx, EventOrderCreated, OrderEvent{
		Event:       EventOrderCreated,
		OrderID:     o.ID,
		ProductName: product.Name,
		Quantity:    o.Quantity,
		TotalPrice:  o.TotalPrice,
		Status:      o.Status,
	})

	return PlacedOrder{
		OrderID:      o.ID,
		ProductName:  product.Name,
		ProductPrice: o.ProductPrice,
		TotalPrice:   o.TotalPrice,
		Status:       o.Status,
	}, nil
}

func (r OrderRequest) validate() error {
	errs := validate.Errors{}
	if r.ProductID == 0 {
		errs["product_id"] = "The product_id field is required."
	}
	for field, v := range map[string]string{
		"customer_name":    r.CustomerName,
		"customer_phone":   r.CustomerPhone,
		"customer_address": r.CustomerAddress,
	} {
		if strings.TrimSpace(v) == "" {
			errs[field] = fmt.Sprintf("The %s field is required.", field)
		}
	}
	if r.Quantity <= 0 {
		errs["quantity"] = "The quantity must be greater than 0."
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// List returns every order newest first. Orders whose product is gone carry
// the deleted-product placeholder as product name.
func (s *OrderService) List(ctx context.Context) ([]models.OrderRow, error) {
	rows, err := s.orders.AllWithProduct(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		name := rows[i].DisplayName()
		rows[i].ProductName = &name
	}
	return rows, nil
}

// Confirm moves the order to confirmed. Confirming again, or confirming an
// id that does not exist, is not an error.
func (s *OrderService) Confirm(ctx context.Context, id uint) error {
	if err := s.orders.SetStatus(ctx, id, models.OrderConfirmed); err != nil {
		return err
	}
	s.events.FireAsync(ctx, EventOrderConfirmed, OrderEvent{
		Event:   EventOrderConfirmed,
		OrderID: id,
		Status:  models.OrderConfirmed,
	})
	return nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	return s.orders.Delete(ctx, id)
}
