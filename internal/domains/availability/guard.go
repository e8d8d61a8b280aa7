// Package availability decides whether a room can take a booking or be released, and keeps the
// stored room status in line with the bookings that hold it.
//
// Every method that takes a *sqlx.Tx expects the caller to hold the room row lock, so two
// requests for the same room are checked one after the other.
package availability

//go:generate go run go.uber.org/mock/mockgen -source=./guard.go -destination=./mocks/guard_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepo "hotel/internal/domains/booking/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepo "hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Candidate is a stay about to be written. ExcludeBookingID is set when an existing booking is
// being moved so it does not collide with itself.
type Candidate struct {
	GuestID          string
	CheckIn          time.Time
	CheckOut         time.Time
	ExcludeBookingID string
}

// BlockingBooking is reported to staff when a booking prevents an operation.
type BlockingBooking struct {
	ID       string `json:"booking_id"`
	GuestID  string `json:"guest_id"`
	RoomID   string `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Status   string `json:"status"`
}

type RoomConflict struct {
	RoomID     string `json:"room_id"`
	RoomNumber string `json:"room_number"`
	Status     string `json:"status"`
}

type DuplicateBooking struct {
	BookingID string `json:"booking_id"`
}

type Guard interface {
	EnsureBookable(ctx context.Context, sqltx *sqlx.Tx, room roomModel.Room, candidate Candidate) error
	EnsureReleasable(ctx context.Context, sqltx *sqlx.Tx, roomID string) error
	ActiveBookings(ctx context.Context, roomID string) ([]BlockingBooking, error)
	SyncRoomStatus(ctx context.Context, sqltx *sqlx.Tx, roomID string) (string, error)
}

type guardImpl struct {
	bookingRepo bookingRepo.Booking
	roomRepo    roomRepo.Room
	otel        otel.Otel
}

func New(bookingRepo bookingRepo.Booking, roomRepo roomRepo.Room, otel otel.Otel) Guard {
	return &guardImpl{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		otel:        otel,
	}
}

func toBlocking(bookings []bookingModel.Booking) []BlockingBooking {
	res := make([]BlockingBooking, len(bookings))
	for i, booking := range bookings {
		res[i] = BlockingBooking{
			ID:       booking.ID,
			GuestID:  booking.GuestID,
			RoomID:   booking.RoomID,
			CheckIn:  timezone.Format(booking.CheckIn, constant.DateFormat),
			CheckOut: timezone.Format(booking.CheckOut, constant.DateFormat),
			Status:   booking.Status,
		}
	}

	return res
}

func filterEq(field string, value any) gDto.Filter {
	return gDto.Filter{
		Field:    field,
		Operator: gDto.FilterOperatorEq,
		Value:    value,
		Table:    bookingModel.TableName,
	}
}

func filterActive() gDto.Filter {
	return gDto.Filter{
		Field:    bookingModel.FieldStatus,
		Operator: gDto.FilterOperatorIn,
		Value:    bookingModel.ActiveStatuses,
		Table:    bookingModel.TableName,
	}
}

func withoutBooking(group gDto.FilterGroup, bookingID string) gDto.FilterGroup {
	if bookingID == constant.Empty {
		return group
	}

	group.Filters = append(group.Filters, gDto.Filter{
		ArgName:  "exclude_id",
		Field:    bookingModel.FieldID,
		Operator: gDto.FilterOperatorNotEq,
		Value:    bookingID,
		Table:    bookingModel.TableName,
	})

	return group
}

// DuplicateFilter matches bookings of the same guest, room and check-in instant in any status,
// the same tuple the storage unique index covers.
func DuplicateFilter(roomID string, candidate Candidate) gDto.FilterGroup {
	return withoutBooking(gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			filterEq(bookingModel.FieldGuestID, candidate.GuestID),
			filterEq(bookingModel.FieldRoomID, roomID),
			filterEq(bookingModel.FieldCheckIn, candidate.CheckIn),
		},
	}, candidate.ExcludeBookingID)
}

// OverlapFilter matches active bookings on the room whose [check_in, check_out) intersects the
// candidate stay.
func OverlapFilter(roomID string, candidate Candidate) gDto.FilterGroup {
	return withoutBooking(gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			filterEq(bookingModel.FieldRoomID, roomID),
			filterActive(),
			gDto.Filter{
				ArgName:  "window_end",
				Field:    bookingModel.FieldCheckIn,
				Operator: gDto.FilterOperatorLess,
				Value:    candidate.CheckOut,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				ArgName:  "window_start",
				Field:    bookingModel.FieldCheckOut,
				Operator: gDto.FilterOperatorGreater,
				Value:    candidate.CheckIn,
				Table:    bookingModel.TableName,
			},
		},
	}, candidate.ExcludeBookingID)
}

// ActiveFilter matches bookings that still hold the room at or after now.
func ActiveFilter(roomID string, now time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			filterEq(bookingModel.FieldRoomID, roomID),
			filterActive(),
			gDto.Filter{
				ArgName:  "now",
				Field:    bookingModel.FieldCheckOut,
				Operator: gDto.FilterOperatorGreater,
				Value:    now,
				Table:    bookingModel.TableName,
			},
		},
	}
}

var byCheckIn = gDto.SortedBy(bookingModel.TableName+"."+bookingModel.FieldCheckIn, gDto.SortDirAsc)

func (g *guardImpl) EnsureBookable(ctx context.Context, sqltx *sqlx.Tx, room roomModel.Room, candidate Candidate) (err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EnsureBookable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if room.Status == roomModel.StatusMaintenance {
		return failure.ConflictWithDetails("room is under maintenance", RoomConflict{ // nolint:wrapcheck
			RoomID:     room.ID,
			RoomNumber: room.RoomNumber,
			Status:     room.Status,
		})
	}

	duplicates, err := g.bookingRepo.GetAllTx(ctx, sqltx, gDto.QueryParams{Limit: 1}, DuplicateFilter(room.ID, candidate), bookingModel.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check duplicate booking")

		return fmt.Errorf("failed to check duplicate booking: %w", err)
	}

	if len(duplicates) > 0 {
		return failure.ConflictWithDetails("guest already has a booking for this room at this check-in", DuplicateBooking{ // nolint:wrapcheck
			BookingID: duplicates[0].ID,
		})
	}

	overlapping, err := g.bookingRepo.GetAllTx(ctx, sqltx, byCheckIn, OverlapFilter(room.ID, candidate))
	if err != nil {
		log.Error().Err(err).Msg("failed to check overlapping bookings")

		return fmt.Errorf("failed to check overlapping bookings: %w", err)
	}

	if len(overlapping) > 0 {
		return failure.ConflictWithDetails("room is already booked for this period", toBlocking(overlapping)) // nolint:wrapcheck
	}

	return nil
}

func (g *guardImpl) EnsureReleasable(ctx context.Context, sqltx *sqlx.Tx, roomID string) (err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EnsureReleasable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	active, err := g.bookingRepo.GetAllTx(ctx, sqltx, byCheckIn, ActiveFilter(roomID, timezone.Now()))
	if err != nil {
		log.Error().Err(err).Msg("failed to get active bookings")

		return fmt.Errorf("failed to get active bookings: %w", err)
	}

	if len(active) > 0 {
		log.Warn().Str("room_id", roomID).Int("bookings", len(active)).Msg("room is held by active bookings")

		return failure.ConflictWithDetails("room has active bookings", toBlocking(active)) // nolint:wrapcheck
	}

	return nil
}

func (g *guardImpl) ActiveBookings(ctx context.Context, roomID string) (res []BlockingBooking, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ActiveBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	active, err := g.bookingRepo.GetAll(ctx, byCheckIn, ActiveFilter(roomID, timezone.Now()))
	if err != nil {
		log.Error().Err(err).Msg("failed to get active bookings")

		return nil, fmt.Errorf("failed to get active bookings: %w", err)
	}

	return toBlocking(active), nil
}

// DeriveStatus is the status a room in operation should show at now. A confirmed stay that has
// started occupies the room, any other active booking still ahead reserves it.
func DeriveStatus(active []bookingModel.Booking, now time.Time) string {
	status := roomModel.StatusAvailable

	for _, booking := range active {
		if !booking.CheckOut.After(now) {
			continue
		}

		if booking.Status == bookingModel.StatusConfirmed && !booking.CheckIn.After(now) {
			return roomModel.StatusOccupied
		}

		status = roomModel.StatusReserved
	}

	return status
}

// SyncRoomStatus recomputes the room status from its active bookings. Maintenance is only ever
// lifted by staff and is left untouched.
func (g *guardImpl) SyncRoomStatus(ctx context.Context, sqltx *sqlx.Tx, roomID string) (status string, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SyncRoomStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName)

	room, err := g.roomRepo.GetForUpdateTx(ctx, sqltx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return constant.Empty, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return constant.Empty, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if room.Status == roomModel.StatusMaintenance {
		return room.Status, nil
	}

	now := timezone.Now()

	active, err := g.bookingRepo.GetAllTx(ctx, sqltx, byCheckIn, ActiveFilter(roomID, now))
	if err != nil {
		log.Error().Err(err).Msg("failed to get active bookings")

		return constant.Empty, fmt.Errorf("failed to get active bookings: %w", err)
	}

	status = DeriveStatus(active, now)
	if status == room.Status {
		return status, nil
	}

	updatedFields := shared.TransformFields(struct {
		Status string `db:"status"`
	}{Status: status}, constant.ContextSystem)

	if err = g.roomRepo.UpdateTx(ctx, sqltx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update room status")

		return constant.Empty, fmt.Errorf("failed to update room status: %w", err)
	}

	log.Info().Str("room_id", roomID).Str("from", room.Status).Str("to", status).Msg("room status synced")

	return status, nil
}
