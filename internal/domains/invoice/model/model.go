package model

import (
	"hotel/shared/model"
	"time"
)

const (
	TableName  = "invoices"
	EntityName = "invoice"

	FieldID               = "id"
	FieldBookingID        = "booking_id"
	FieldRoomCharge       = "room_charge"
	FieldServiceCharge    = "service_charge"
	FieldRestaurantCharge = "restaurant_charge"
	FieldTotalAmount      = "total_amount"
	FieldPaymentStatus    = "payment_status"
	FieldPaymentMethod    = "payment_method"
	FieldPaymentDate      = "payment_date"
)

const (
	PaymentStatusUnpaid = "Unpaid"
	PaymentStatusPaid   = "Paid"

	PaymentMethodCash = "Cash"
	PaymentMethodCard = "Card"
)

const CacheKeyGet = "invoice:get"

const (
	EventDerived = "invoice.derived"
	EventCharged = "invoice.charged"
	EventPaid    = "invoice.paid"
)

// Invoice references exactly one booking. The booking never points back, the relation is looked
// up by booking id.
type Invoice struct {
	ID               string     `db:"id"`
	BookingID        string     `db:"booking_id"`
	RoomCharge       int64      `db:"room_charge"`
	ServiceCharge    int64      `db:"service_charge"`
	RestaurantCharge int64      `db:"restaurant_charge"`
	TotalAmount      int64      `db:"total_amount"`
	PaymentStatus    string     `db:"payment_status"`
	PaymentMethod    *string    `db:"payment_method"`
	PaymentDate      *time.Time `db:"payment_date"`
	model.Metadata
}

func (i Invoice) IsPaid() bool {
	return i.PaymentStatus == PaymentStatusPaid
}

// Reference is what a conflict reports about the invoice blocking an operation.
type Reference struct {
	ID            string `json:"invoice_id"`
	TotalAmount   int64  `json:"total_amount"`
	PaymentStatus string `json:"payment_status"`
}

func (i Invoice) Reference() Reference {
	return Reference{
		ID:            i.ID,
		TotalAmount:   i.TotalAmount,
		PaymentStatus: i.PaymentStatus,
	}
}

const (
	ItemTableName  = "invoice_items"
	ItemEntityName = "invoice_item"

	FieldItemID        = "id"
	FieldItemInvoiceID = "invoice_id"
	FieldItemOrderedAt = "ordered_at"
)

// Item is a restaurant order line charged to the invoice.
type Item struct {
	ID         string    `db:"id"`
	InvoiceID  string    `db:"invoice_id"`
	MenuItemID string    `db:"menu_item_id"`
	Name       string    `db:"name"`
	UnitPrice  int64     `db:"unit_price"`
	Quantity   int       `db:"quantity"`
	LineTotal  int64     `db:"line_total"`
	OrderedAt  time.Time `db:"ordered_at"`
}
