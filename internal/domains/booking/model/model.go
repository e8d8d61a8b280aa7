package model

import (
	"hotel/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldGuestID       = "guest_id"
	FieldStaffID       = "staff_id"
	FieldRoomID        = "room_id"
	FieldMode          = "mode"
	FieldCheckIn       = "check_in"
	FieldCheckOut      = "check_out"
	FieldBilledUnits   = "billed_units"
	FieldRoomCharge    = "room_charge"
	FieldServiceCharge = "service_charge"
	FieldTotalPrice    = "total_price"
	FieldStatus        = "status"
)

const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCompleted = "Completed"
)

const (
	ModeDaily  = "Daily"
	ModeHourly = "Hourly"
)

const CacheKeyGet = "booking:get"

// ActiveStatuses are the states that hold a room.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

type Booking struct {
	ID            string    `db:"id"`
	GuestID       string    `db:"guest_id"`
	StaffID       *string   `db:"staff_id"`
	RoomID        string    `db:"room_id"`
	Mode          string    `db:"mode"`
	CheckIn       time.Time `db:"check_in"`
	CheckOut      time.Time `db:"check_out"`
	BilledUnits   int       `db:"billed_units"`
	RoomCharge    int64     `db:"room_charge"`
	ServiceCharge int64     `db:"service_charge"`
	TotalPrice    int64     `db:"total_price"`
	Status        string    `db:"status"`
	model.Metadata
}

func (b Booking) IsCompleted() bool {
	return b.Status == StatusCompleted
}

const (
	ServiceLineTableName  = "booking_services"
	ServiceLineEntityName = "booking_service"

	FieldLineID        = "id"
	FieldLineBookingID = "booking_id"
	FieldLinePosition  = "position"
)

// ServiceLine is a priced service owned by its booking. Name and unit price are a snapshot taken
// when the booking was priced.
type ServiceLine struct {
	ID          string `db:"id"`
	BookingID   string `db:"booking_id"`
	Position    int    `db:"position"`
	ServiceID   string `db:"service_id"`
	ServiceName string `db:"service_name"`
	UnitPrice   int64  `db:"unit_price"`
	Quantity    int    `db:"quantity"`
	LineTotal   int64  `db:"line_total"`
}

const (
	EventCreated   = "booking.created"
	EventUpdated   = "booking.updated"
	EventDeleted   = "booking.deleted"
	EventCompleted = "booking.completed"
)
