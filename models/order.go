package models

// Order is a purchase of a product by a user identified by email
type Order struct {
	ID          string `json:"id"`
	ProductName string `json:"productName"`
	Email       string `json:"email"`
	Amount      int    `json:"amount"`
	Place       int    `json:"place"`
}

// OrderRequest represents the request body for creating or replacing an order.
// An empty ID is assigned by the service.
type OrderRequest struct {
	ID          string `json:"id" validate:"omitempty,max=128"`
	ProductName string `json:"productName" validate:"required,min=1,max=256"`
	Email       string `json:"email" validate:"required,email"`
	Amount      int    `json:"amount" validate:"min=0"`
	Place       int    `json:"place" validate:"min=0"`
}

// ToOrder converts the request into an Order
func (r *OrderRequest) ToOrder() Order {
	return Order{
		ID:          r.ID,
		ProductName: r.ProductName,
		Email:       r.Email,
		Amount:      r.Amount,
		Place:       r.Place,
	}
}

// OrderWithEventRequest saves an order and an event atomically
type OrderWithEventRequest struct {
	Order OrderRequest `json:"order" validate:"required"`
	Event EventRequest `json:"event" validate:"required"`
}

// BatchOrderEventRequest lists the orders and events to read in one batch
type BatchOrderEventRequest struct {
	OrderIDs []string       `json:"orderIds" validate:"dive,required"`
	Events   []EventRequest `json:"events" validate:"dive"`
}

// OrdersAndEvents is the result of a combined batch read
type OrdersAndEvents struct {
	Orders []Order `json:"orders"`
	Events []Event `json:"events"`
}
