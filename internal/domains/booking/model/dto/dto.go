package dto

import (
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/pricing"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
	"time"
)

type ServiceLineRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

// CreateBookingRequest is the input of booking creation. Guests booking for themselves may omit
// guest_id and staff_id, staff must name the guest.
type CreateBookingRequest struct {
	GuestID  string               `json:"guest_id"  validate:"omitempty,uuid"`
	StaffID  string               `json:"staff_id"  validate:"omitempty,uuid"`
	RoomID   string               `json:"room_id"   validate:"required,uuid"`
	Mode     string               `json:"mode"      validate:"required,oneof=Daily Hourly"`
	CheckIn  string               `json:"check_in"  validate:"required,rfc3339"`
	CheckOut string               `json:"check_out" validate:"required,rfc3339"`
	Services []ServiceLineRequest `json:"services"  validate:"omitempty,dive"`
}

// UpdateBookingRequest replaces every editable field of a booking. Status may only move forward.
type UpdateBookingRequest struct {
	GuestID  string               `json:"guest_id"  validate:"required,uuid"`
	StaffID  string               `json:"staff_id"  validate:"omitempty,uuid"`
	RoomID   string               `json:"room_id"   validate:"required,uuid"`
	Mode     string               `json:"mode"      validate:"required,oneof=Daily Hourly"`
	CheckIn  string               `json:"check_in"  validate:"required,rfc3339"`
	CheckOut string               `json:"check_out" validate:"required,rfc3339"`
	Services []ServiceLineRequest `json:"services"  validate:"omitempty,dive"`
	Status   string               `json:"status"    validate:"omitempty,oneof=Pending Confirmed"`
}

// Period parses the stay and rejects a check-out that is not after check-in.
func Period(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(time.RFC3339, checkIn)
	if err != nil {
		return in, in, failure.Validation("check_in must be an RFC3339 timestamp", "check_in") //nolint:wrapcheck
	}

	out, err := time.Parse(time.RFC3339, checkOut)
	if err != nil {
		return in, out, failure.Validation("check_out must be an RFC3339 timestamp", "check_out") //nolint:wrapcheck
	}

	if !out.After(in) {
		return in, out, failure.Validation("check_out must be after check_in", "check_out") //nolint:wrapcheck
	}

	return in, out, nil
}

func PricingLines(lines []ServiceLineRequest) []pricing.Line {
	res := make([]pricing.Line, len(lines))
	for i, line := range lines {
		res[i] = pricing.Line{ServiceID: line.ServiceID, Quantity: line.Quantity}
	}

	return res
}

func ServiceIDs(lines []ServiceLineRequest) []string {
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(lines))

	for _, line := range lines {
		if _, ok := seen[line.ServiceID]; ok {
			continue
		}

		seen[line.ServiceID] = struct{}{}
		ids = append(ids, line.ServiceID)
	}

	return ids
}

func ToServiceLines(bookingID string, priced []pricing.PricedLine, newID func() string) []model.ServiceLine {
	lines := make([]model.ServiceLine, len(priced))
	for i, line := range priced {
		lines[i] = model.ServiceLine{
			ID:          newID(),
			BookingID:   bookingID,
			Position:    i + 1,
			ServiceID:   line.ServiceID,
			ServiceName: line.ServiceName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal,
		}
	}

	return lines
}

type ServiceLineResponse struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   int64  `json:"line_total"`
}

type BookingResponse struct {
	ID            string                `json:"id"`
	GuestID       string                `json:"guest_id"`
	StaffID       *string               `json:"staff_id"`
	RoomID        string                `json:"room_id"`
	Mode          string                `json:"mode"`
	CheckIn       string                `json:"check_in"`
	CheckOut      string                `json:"check_out"`
	BilledUnits   int                   `json:"billed_units"`
	RoomCharge    int64                 `json:"room_charge"`
	ServiceCharge int64                 `json:"service_charge"`
	TotalPrice    int64                 `json:"total_price"`
	Status        string                `json:"status"`
	Services      []ServiceLineResponse `json:"services"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking, lines []model.ServiceLine) {
	r.ID = booking.ID
	r.GuestID = booking.GuestID
	r.StaffID = booking.StaffID
	r.RoomID = booking.RoomID
	r.Mode = booking.Mode
	r.CheckIn = formatTime(booking.CheckIn)
	r.CheckOut = formatTime(booking.CheckOut)
	r.BilledUnits = booking.BilledUnits
	r.RoomCharge = booking.RoomCharge
	r.ServiceCharge = booking.ServiceCharge
	r.TotalPrice = booking.TotalPrice
	r.Status = booking.Status
	r.Metadata.FromModel(booking.Metadata)

	r.Services = make([]ServiceLineResponse, len(lines))
	for i, line := range lines {
		r.Services[i] = ServiceLineResponse{
			ServiceID:   line.ServiceID,
			ServiceName: line.ServiceName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal,
		}
	}
}

// Event is published after a booking write commits.
type Event struct {
	Type       string `json:"type"`
	BookingID  string `json:"booking_id"`
	RoomID     string `json:"room_id"`
	GuestID    string `json:"guest_id"`
	Status     string `json:"status"`
	TotalPrice int64  `json:"total_price"`
	OccurredAt string `json:"occurred_at"`
}

func NewEvent(eventType string, booking model.Booking, at time.Time) Event {
	return Event{
		Type:       eventType,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		GuestID:    booking.GuestID,
		Status:     booking.Status,
		TotalPrice: booking.TotalPrice,
		OccurredAt: formatTime(at),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return constant.Empty
	}

	return timezone.Format(t, constant.DateFormat)
}
