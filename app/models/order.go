package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
)

// DeletedProductName stands in for the product name of orders whose product
// row is gone.
const DeletedProductName = "Deleted product"

// Order is a checkout. ProductPrice and TotalPrice are copied at creation
// and never recomputed.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	ProductID       uint        `gorm:"not null;index" json:"product_id"`
	CustomerName    string      `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone   string      `gorm:"size:50;not null" json:"customer_phone"`
	CustomerAddress string      `gorm:"type:text;not null" json:"customer_address"`
	CustomerNotes   *string     `gorm:"type:text" json:"customer_notes"`
	CustomerColor   *string     `gorm:"size:100" json:"customer_color"`
	CustomerSize    *string     `gorm:"size:100" json:"customer_size"`
	Quantity        int         `gorm:"not null" json:"quantity"`
	ProductPrice    float64     `gorm:"not null" json:"product_price"`
	TotalPrice      float64     `gorm:"not null" json:"total_price"`
	Status          OrderStatus `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt       time.Time   `gorm:"index" json:"created_at"`
}

func (Order) TableName() string { return "orders" }

// OrderRow is an order with its product name left-joined in.
type OrderRow struct {
	Order
	ProductName *string `json:"product_name"`
}

// DisplayName returns the joined product name or the deleted-product
// placeholder.
func (r OrderRow) DisplayName() string {
	if r.ProductName == nil {
		return DeletedProductName
	}
	return *r.ProductName
}
