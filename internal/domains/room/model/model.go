package model

import "hotel/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID           = "id"
	FieldRoomNumber   = "room_number"
	FieldRoomType     = "room_type"
	FieldDailyRate    = "daily_rate"
	FieldHourlyRate   = "hourly_rate"
	FieldMinimumHours = "minimum_hours"
	FieldMaxOccupancy = "max_occupancy"
	FieldStatus       = "status"
	FieldImage        = "image"
)

const (
	StatusAvailable   = "Available"
	StatusOccupied    = "Occupied"
	StatusMaintenance = "Maintenance"
	StatusReserved    = "Reserved"
)

const (
	TypeStandard = "Standard"
	TypeDeluxe   = "Deluxe"
	TypeSuite    = "Suite"
	TypeFamily   = "Family"
)

// MinDailyToHourlyRatio keeps a full day at least as expensive as twenty hours.
const MinDailyToHourlyRatio = 20

const CacheKeyGet = "room:get"

type Room struct {
	ID           string `db:"id"`
	RoomNumber   string `db:"room_number"`
	RoomType     string `db:"room_type"`
	DailyRate    int64  `db:"daily_rate"`
	HourlyRate   int64  `db:"hourly_rate"`
	MinimumHours int    `db:"minimum_hours"`
	MaxOccupancy int    `db:"max_occupancy"`
	Status       string `db:"status"`
	Image        string `db:"image"`
	model.Metadata
}

func (r Room) RatesConsistent() bool {
	return RatesConsistent(r.DailyRate, r.HourlyRate)
}

func RatesConsistent(daily, hourly int64) bool {
	return daily >= MinDailyToHourlyRatio*hourly
}
