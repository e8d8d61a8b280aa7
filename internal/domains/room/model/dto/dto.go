package dto

import (
	"hotel/internal/domains/room/model"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"mime/multipart"
)

const defaultMinimumHours = 1

// CreateRoomRequest arrives as a multipart form: the fields as JSON in the payload part and an
// optional image part.
type CreateRoomRequest struct {
	RoomNumber   string                `json:"room_number"   validate:"required,max=20"`
	RoomType     string                `json:"room_type"     validate:"required,oneof=Standard Deluxe Suite Family"`
	DailyRate    int64                 `json:"daily_rate"    validate:"required,min=1"`
	HourlyRate   int64                 `json:"hourly_rate"   validate:"required,min=1"`
	MinimumHours int                   `json:"minimum_hours" validate:"omitempty,min=1,max=24"`
	MaxOccupancy int                   `json:"max_occupancy" validate:"required,min=1"`
	Status       string                `json:"status"        validate:"omitempty,oneof=Available Maintenance"`
	Image        *multipart.FileHeader `json:"image"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFile    multipart.File        `json:"-"`
}

func (c *CreateRoomRequest) ToModel(id, user, imageURL string) model.Room {
	minimumHours := c.MinimumHours
	if minimumHours == 0 {
		minimumHours = defaultMinimumHours
	}

	status := c.Status
	if status == "" {
		status = model.StatusAvailable
	}

	return model.Room{
		ID:           id,
		RoomNumber:   c.RoomNumber,
		RoomType:     c.RoomType,
		DailyRate:    c.DailyRate,
		HourlyRate:   c.HourlyRate,
		MinimumHours: minimumHours,
		MaxOccupancy: c.MaxOccupancy,
		Status:       status,
		Image:        imageURL,
		Metadata:     gModel.NewMetadata(timezone.Now(), user),
	}
}

// UpdateRoomRequest changes only the fields that are set. Status has its own operation.
type UpdateRoomRequest struct {
	RoomNumber   *string               `db:"room_number"   json:"room_number"   validate:"omitempty,max=20"`
	RoomType     *string               `db:"room_type"     json:"room_type"     validate:"omitempty,oneof=Standard Deluxe Suite Family"`
	DailyRate    *int64                `db:"daily_rate"    json:"daily_rate"    validate:"omitempty,min=1"`
	HourlyRate   *int64                `db:"hourly_rate"   json:"hourly_rate"   validate:"omitempty,min=1"`
	MinimumHours *int                  `db:"minimum_hours" json:"minimum_hours" validate:"omitempty,min=1,max=24"`
	MaxOccupancy *int                  `db:"max_occupancy" json:"max_occupancy" validate:"omitempty,min=1"`
	Image        *multipart.FileHeader `json:"image"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFile    multipart.File        `json:"-"`
}

// Merge returns the room as it would be stored after the update.
func (u *UpdateRoomRequest) Merge(room model.Room) model.Room {
	if u.RoomNumber != nil {
		room.RoomNumber = *u.RoomNumber
	}

	if u.RoomType != nil {
		room.RoomType = *u.RoomType
	}

	if u.DailyRate != nil {
		room.DailyRate = *u.DailyRate
	}

	if u.HourlyRate != nil {
		room.HourlyRate = *u.HourlyRate
	}

	if u.MinimumHours != nil {
		room.MinimumHours = *u.MinimumHours
	}

	if u.MaxOccupancy != nil {
		room.MaxOccupancy = *u.MaxOccupancy
	}

	return room
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Available Maintenance"`
}

type RoomResponse struct {
	ID           string `json:"id"`
	RoomNumber   string `json:"room_number"`
	RoomType     string `json:"room_type"`
	DailyRate    int64  `json:"daily_rate"`
	HourlyRate   int64  `json:"hourly_rate"`
	MinimumHours int    `json:"minimum_hours"`
	MaxOccupancy int    `json:"max_occupancy"`
	Status       string `json:"status"`
	Image        string `json:"image"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.DailyRate = model.DailyRate
	r.HourlyRate = model.HourlyRate
	r.MinimumHours = model.MinimumHours
	r.MaxOccupancy = model.MaxOccupancy
	r.Status = model.Status
	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)
}
