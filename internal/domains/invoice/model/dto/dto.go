package dto

import (
	"hotel/internal/domains/invoice/model"
	menuModel "hotel/internal/domains/menu/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
	"time"
)

type RestaurantItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity"     validate:"required,min=1"`
}

// RestaurantChargeRequest adds restaurant orders to an unpaid invoice.
type RestaurantChargeRequest struct {
	Items []RestaurantItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r RestaurantChargeRequest) MenuItemIDs() []string {
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(r.Items))

	for _, item := range r.Items {
		if _, ok := seen[item.MenuItemID]; ok {
			continue
		}

		seen[item.MenuItemID] = struct{}{}
		ids = append(ids, item.MenuItemID)
	}

	return ids
}

// ToItems prices every order line against the menu and returns the lines with their sum. A menu
// item missing from the menu is reported as NotFound.
func (r RestaurantChargeRequest) ToItems(invoiceID string, menu map[string]menuModel.MenuItem, orderedAt time.Time, newID func() string) ([]model.Item, int64, error) {
	items := make([]model.Item, len(r.Items))

	var total int64

	for i, line := range r.Items {
		if line.Quantity < 1 {
			return nil, 0, failure.Validation("quantity must be at least 1", "items") //nolint:wrapcheck
		}

		menuItem, ok := menu[line.MenuItemID]
		if !ok {
			return nil, 0, failure.NotFound("menu item " + line.MenuItemID + " not found") //nolint:wrapcheck
		}

		lineTotal := menuItem.Price * int64(line.Quantity)
		total += lineTotal

		items[i] = model.Item{
			ID:         newID(),
			InvoiceID:  invoiceID,
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			UnitPrice:  menuItem.Price,
			Quantity:   line.Quantity,
			LineTotal:  lineTotal,
			OrderedAt:  orderedAt,
		}
	}

	return items, total, nil
}

type PayRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=Cash Card"`
}

// UpdatePaymentRequest is the column set written when an invoice is settled.
type UpdatePaymentRequest struct {
	PaymentStatus string    `db:"payment_status"`
	PaymentMethod string    `db:"payment_method"`
	PaymentDate   time.Time `db:"payment_date"`
}

type ItemResponse struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
	LineTotal  int64  `json:"line_total"`
	OrderedAt  string `json:"ordered_at"`
}

type InvoiceResponse struct {
	ID               string         `json:"id"`
	BookingID        string         `json:"booking_id"`
	GuestID          string         `json:"guest_id"`
	RoomCharge       int64          `json:"room_charge"`
	ServiceCharge    int64          `json:"service_charge"`
	RestaurantCharge int64          `json:"restaurant_charge"`
	TotalAmount      int64          `json:"total_amount"`
	PaymentStatus    string         `json:"payment_status"`
	PaymentMethod    *string        `json:"payment_method"`
	PaymentDate      *string        `json:"payment_date"`
	Items            []ItemResponse `json:"items"`
	gDto.Metadata
}

func (r *InvoiceResponse) FromModel(invoice model.Invoice, guestID string, items []model.Item) {
	r.ID = invoice.ID
	r.BookingID = invoice.BookingID
	r.GuestID = guestID
	r.RoomCharge = invoice.RoomCharge
	r.ServiceCharge = invoice.ServiceCharge
	r.RestaurantCharge = invoice.RestaurantCharge
	r.TotalAmount = invoice.TotalAmount
	r.PaymentStatus = invoice.PaymentStatus
	r.PaymentMethod = invoice.PaymentMethod
	r.PaymentDate = nil

	if invoice.PaymentDate != nil {
		paidAt := timezone.Format(*invoice.PaymentDate, constant.DateFormat)
		r.PaymentDate = &paidAt
	}

	r.Metadata.FromModel(invoice.Metadata)

	r.Items = make([]ItemResponse, len(items))
	for i, item := range items {
		r.Items[i] = ItemResponse{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			LineTotal:  item.LineTotal,
			OrderedAt:  timezone.Format(item.OrderedAt, constant.DateFormat),
		}
	}
}

// Event is published after an invoice write commits.
type Event struct {
	Type          string `json:"type"`
	InvoiceID     string `json:"invoice_id"`
	BookingID     string `json:"booking_id"`
	TotalAmount   int64  `json:"total_amount"`
	PaymentStatus string `json:"payment_status"`
	OccurredAt    string `json:"occurred_at"`
}

func NewEvent(eventType string, invoice model.Invoice, at time.Time) Event {
	return Event{
		Type:          eventType,
		InvoiceID:     invoice.ID,
		BookingID:     invoice.BookingID,
		TotalAmount:   invoice.TotalAmount,
		PaymentStatus: invoice.PaymentStatus,
		OccurredAt:    timezone.Format(at, constant.DateFormat),
	}
}
