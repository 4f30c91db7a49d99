package domain

import (
	"time"
)

// Customer represents a customer row from the extended customers workbook.
type Customer struct {
	ID               int64     `json:"customer_id" validate:"required"`
	Name             string    `json:"name"`
	Age              int       `json:"age" validate:"min=0"`
	Gender           string    `json:"gender"`
	Location         string    `json:"location"`
	JoinDate         time.Time `json:"join_date"`
	TotalSpent       float64   `json:"total_spent"`
	Income           float64   `json:"income"`
	PreferredChannel string    `json:"preferred_channel"`
	EmailOpenRate    float64   `json:"email_open_rate"`
}

// Sale represents a sale row from the extended sales workbook.
type Sale struct {
	ID              int64     `json:"sale_id" validate:"required"`
	ProductID       int64     `json:"product_id"`
	CustomerID      int64     `json:"customer_id" validate:"required"`
	Date            time.Time `json:"date"`
	Quantity        int       `json:"quantity" validate:"min=1"`
	SalePrice       float64   `json:"sale_price" validate:"min=0"`
	Channel         string    `json:"channel"`
	DiscountApplied bool      `json:"discount_applied"`
}
