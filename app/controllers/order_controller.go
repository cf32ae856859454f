package controllers

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

// orderRequest is the checkout form. The storefront posts the chosen
// variant as "color" and "size".
type orderRequest struct {
	ProductID       bind.Text `json:"product_id"       validate:"required,integer,gt=0"`
	CustomerName    bind.Text `json:"customer_name"    validate:"required"`
	CustomerPhone   bind.Text `json:"customer_phone"   validate:"required"`
	CustomerAddress bind.Text `json:"customer_address" validate:"required"`
	Quantity        bind.Text `json:"quantity"         validate:"required,integer,gt=0"`
	CustomerNotes   bind.Text `json:"customer_notes"`
	Color           bind.Text `json:"color"`
	Size            bind.Text `json:"size"`
}

type orderPlacedResponse struct {
	Message      string             `json:"message"`
	OrderID      uint               `json:"order_id"`
	ProductName  string             `json:"product_name"`
	ProductPrice float64            `json:"product_price"`
	TotalPrice   float64            `json:"total_price"`
	Status       models.OrderStatus `json:"status"`
}

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (oc *OrderController) Store(c *ctx.Context) {
	var req orderRequest
	if !c.Bind(&req) {
		return
	}
	productID, _ := req.ProductID.Int()
	quantity, _ := req.Quantity.Int()

	placed, err := oc.orders.Place(c.Context(), services.OrderRequest{
		ProductID:       uint(productID),
		CustomerName:    req.CustomerName.String(),
		CustomerPhone:   req.CustomerPhone.String(),
		CustomerAddress: req.CustomerAddress.String(),
		CustomerNotes:   req.CustomerNotes.Ptr(),
		CustomerColor:   req.Color.Ptr(),
		CustomerSize:    req.Size.Ptr(),
		Quantity:        int(quantity),
	})
	if err != nil {
		fail(c, "order", err)
		return
	}

	c.Success(orderPlacedResponse{
		Message:      "Order placed",
		OrderID:      placed.OrderID,
		ProductName:  placed.ProductName,
		ProductPrice: placed.ProductPrice,
		TotalPrice:   placed.TotalPrice,
		Status:       placed.Status,
	})
}

// Index lists orders newest first.
func (oc *OrderController) Index(c *ctx.Context) {
	rows, err := oc.orders.List(c.Context())
	if err != nil {
		fail(c, "order", err)
		return
	}
	c.Success(rows)
}

func (oc *OrderController) Confirm(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := oc.orders.Confirm(c.Context(), id); err != nil {
		fail(c, "order", err)
		return
	}
	audit(c, "order confirmed", "order_id", id)
	c.Message("Order confirmed")
}

func (oc *OrderController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := oc.orders.Delete(c.Context(), id); err != nil {
		fail(c, "order", err)
		return
	}
	audit(c, "order deleted", "order_id", id)
	c.Message("Order deleted")
}
