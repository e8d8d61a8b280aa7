package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	amenityModel "hotel/internal/domains/amenity/model"
	amenityRepo "hotel/internal/domains/amenity/repository"
	"hotel/internal/domains/availability"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/repository"
	invoiceModel "hotel/internal/domains/invoice/model"
	invoiceRepo "hotel/internal/domains/invoice/repository"
	"hotel/internal/domains/pricing"
	roomModel "hotel/internal/domains/room/model"
	roomRepo "hotel/internal/domains/room/repository"
	userModel "hotel/internal/domains/user/model"
	userRepo "hotel/internal/domains/user/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/identity"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"hotel/shared/transaction"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest, caller identity.Identity) (dto.BookingResponse, error)
	Get(ctx context.Context, id string, caller identity.Identity) (dto.BookingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest, caller identity.Identity) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string, caller identity.Identity) error
	// MarkCompletedTx runs inside the caller's transaction. It is only used by invoice payment.
	MarkCompletedTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error)
}

type serviceImpl struct {
	repo        repository.Booking
	lineRepo    repository.ServiceLine
	roomRepo    roomRepo.Room
	userRepo    userRepo.User
	amenityRepo amenityRepo.Service
	invoiceRepo invoiceRepo.Invoice
	guard       availability.Guard
	tx          transaction.Transactor
	cache       cache.RedisCache
	kafka       kafka.Client
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	lineRepo repository.ServiceLine,
	roomRepo roomRepo.Room,
	userRepo userRepo.User,
	amenityRepo amenityRepo.Service,
	invoiceRepo invoiceRepo.Invoice,
	guard availability.Guard,
	tx transaction.Transactor,
	cache cache.RedisCache,
	kafka kafka.Client,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		lineRepo:    lineRepo,
		roomRepo:    roomRepo,
		userRepo:    userRepo,
		amenityRepo: amenityRepo,
		invoiceRepo: invoiceRepo,
		guard:       guard,
		tx:          tx,
		cache:       cache,
		kafka:       kafka,
		cfg:         cfg,
		otel:        otel,
	}
}

var statusRank = map[string]int{
	model.StatusPending:   0,
	model.StatusConfirmed: 1,
	model.StatusCompleted: 2,
}

// parties decides who the booking is for. Guests always book for themselves without a staff
// reference, staff must name the guest and are recorded as the handling staff unless another
// member of staff is given.
func parties(caller identity.Identity, guestID, staffID string) (string, *string, error) {
	switch {
	case caller.IsGuest():
		if guestID != constant.Empty && guestID != caller.SubjectID {
			return constant.Empty, nil, failure.Forbidden("guests can only book for themselves") // nolint:wrapcheck
		}

		if staffID != constant.Empty {
			return constant.Empty, nil, failure.Forbidden("guests cannot assign staff") // nolint:wrapcheck
		}

		return caller.SubjectID, nil, nil
	case caller.IsStaff():
		if guestID == constant.Empty {
			return constant.Empty, nil, failure.Validation("guest_id is required", "guest_id") // nolint:wrapcheck
		}

		if staffID == constant.Empty {
			staffID = caller.SubjectID
		}

		return guestID, &staffID, nil
	default:
		return constant.Empty, nil, failure.ForbiddenError
	}
}

func nextStatus(current, requested string) (string, error) {
	if requested == constant.Empty {
		return current, nil
	}

	if statusRank[requested] < statusRank[current] {
		return constant.Empty, failure.Validation("booking status cannot move from "+current+" to "+requested, "status") // nolint:wrapcheck
	}

	return requested, nil
}

func quote(room roomModel.Room, mode string, checkIn, checkOut time.Time, lines []dto.ServiceLineRequest, catalog map[string]pricing.Service) (pricing.Quote, error) {
	res, err := pricing.Calculate(pricing.Request{
		Rates: pricing.Rates{
			Daily:        room.DailyRate,
			Hourly:       room.HourlyRate,
			MinimumHours: room.MinimumHours,
		},
		Mode:     pricing.Mode(mode),
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Lines:    dto.PricingLines(lines),
		Catalog:  catalog,
	})
	if err == nil {
		return res, nil
	}

	var unknown *pricing.UnknownServiceError

	switch {
	case errors.As(err, &unknown):
		return res, failure.NotFound("service " + unknown.ServiceID + " not found") // nolint:wrapcheck
	case errors.Is(err, pricing.ErrInvalidPeriod):
		return res, failure.Validation(err.Error(), "check_out") // nolint:wrapcheck
	case errors.Is(err, pricing.ErrUnknownMode):
		return res, failure.Validation(err.Error(), "mode") // nolint:wrapcheck
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return res, failure.Validation(err.Error(), "services") // nolint:wrapcheck
	}

	return res, fmt.Errorf("failed to price booking: %w", err)
}

// storageConflict maps constraint violations raised at commit time, when two writers passed the
// guard concurrently, to the same Conflict the guard would have reported.
func storageConflict(err error) error {
	switch shared.PqErrorCode(err) {
	case constant.PqErrorCodeUniqueViolation:
		return failure.Conflict("guest already has a booking for this room at this check-in") // nolint:wrapcheck
	case constant.PqErrorCodeExclusionViolation:
		return failure.Conflict("room is already booked for this period") // nolint:wrapcheck
	case constant.PqErrorCodeFkViolation:
		return failure.Conflict("booking is still referenced") // nolint:wrapcheck
	}

	return err
}

func byBookingID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func linesOf(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldLineBookingID, model.ServiceLineTableName)
}

func (s *serviceImpl) resolveParties(ctx context.Context, guestID string, staffID *string) error {
	guest, err := s.userRepo.Get(ctx, shared.FilterByID(guestID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get guest")

		return fmt.Errorf("failed to get guest: %w", err)
	}

	if guest.ID == constant.Empty || guest.Role != constant.RoleGuest {
		return failure.NotFound("guest not found") // nolint:wrapcheck
	}

	if staffID == nil {
		return nil
	}

	staff, err := s.userRepo.Get(ctx, shared.FilterByID(*staffID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == constant.Empty || (staff.Role != constant.RoleStaff && staff.Role != constant.RoleAdmin) {
		return failure.NotFound("staff not found") // nolint:wrapcheck
	}

	return nil
}

// catalog loads the active services the request names. Inactive or unknown ids are left out so
// pricing reports them.
func (s *serviceImpl) catalog(ctx context.Context, ids []string) (map[string]pricing.Service, error) {
	res := map[string]pricing.Service{}
	if len(ids) == 0 {
		return res, nil
	}

	filter := shared.FilterByIDs(ids, amenityModel.FieldID, amenityModel.TableName)
	filter.Operator = gDto.FilterGroupOperatorAnd
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    amenityModel.FieldActive,
		Operator: gDto.FilterOperatorEq,
		Value:    true,
		Table:    amenityModel.TableName,
	})

	services, err := s.amenityRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get services")

		return nil, fmt.Errorf("failed to get services: %w", err)
	}

	for _, service := range services {
		res[service.ID] = pricing.Service{ID: service.ID, Name: service.Name, Price: service.Price}
	}

	return res, nil
}

func (s *serviceImpl) lockBooking(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error) {
	booking, err := s.repo.GetForUpdateTx(ctx, sqltx, byBookingID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// lockRooms takes the row locks of every room in ascending id order.
func (s *serviceImpl) lockRooms(ctx context.Context, sqltx *sqlx.Tx, ids ...string) (map[string]roomModel.Room, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	rooms := make(map[string]roomModel.Room, len(sorted))

	for _, id := range sorted {
		room, err := s.roomRepo.GetForUpdateTx(ctx, sqltx, shared.FilterByID(id, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get room")

			return nil, fmt.Errorf("failed to get room: %w", err)
		}

		if room.ID == constant.Empty {
			return nil, failure.NotFound("room not found") // nolint:wrapcheck
		}

		rooms[id] = room
	}

	return rooms, nil
}

func (s *serviceImpl) invoiceOf(ctx context.Context, sqltx *sqlx.Tx, bookingID string) (invoiceModel.Invoice, error) {
	invoice, err := s.invoiceRepo.GetTx(ctx, sqltx, shared.FilterByID(bookingID, invoiceModel.FieldBookingID, invoiceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return invoice, fmt.Errorf("failed to get invoice: %w", err)
	}

	return invoice, nil
}

func (s *serviceImpl) syncRooms(ctx context.Context, sqltx *sqlx.Tx, ids ...string) error {
	for _, id := range slices.Compact(slices.Sorted(slices.Values(ids))) {
		if _, err := s.guard.SyncRoomStatus(ctx, sqltx, id); err != nil {
			return fmt.Errorf("failed to sync room status: %w", err)
		}
	}

	return nil
}

// afterCommit drops the cached reads the write made stale and publishes the lifecycle event.
// Both are best effort, the write is already durable.
func (s *serviceImpl) afterCommit(ctx context.Context, eventType string, booking model.Booking, staleKeys ...string) {
	staleKeys = append(staleKeys, shared.BuildCacheKey(model.CacheKeyGet, booking.ID))

	for _, key := range staleKeys {
		if err := cache.Invalidate(ctx, s.cache, key, s.cfg.Cache.TTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to invalidate cache")
		}
	}

	msg := kafka.Message{Key: booking.ID, Value: dto.NewEvent(eventType, booking, timezone.Now())}
	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.Booking, msg); err != nil {
		log.Warn().Err(err).Str("event", eventType).Str("booking_id", booking.ID).Msg("failed to publish booking event")
	}
}

func roomKey(id string) string {
	return shared.BuildCacheKey(roomModel.CacheKeyGet, id)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, caller identity.Identity) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	guestID, staffID, err := parties(caller, req.GuestID, req.StaffID)
	if err != nil {
		return res, err
	}

	checkIn, checkOut, err := dto.Period(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = s.resolveParties(ctx, guestID, staffID); err != nil {
		return res, err
	}

	catalog, err := s.catalog(ctx, dto.ServiceIDs(req.Services))
	if err != nil {
		return res, err
	}

	var (
		booking model.Booking
		lines   []model.ServiceLine
	)

	err = s.tx.WithinTx(ctx, "booking.create", func(ctx context.Context, sqltx *sqlx.Tx) error {
		rooms, err := s.lockRooms(ctx, sqltx, req.RoomID)
		if err != nil {
			return err
		}

		room := rooms[req.RoomID]

		priced, err := quote(room, req.Mode, checkIn, checkOut, req.Services, catalog)
		if err != nil {
			return err
		}

		candidate := availability.Candidate{GuestID: guestID, CheckIn: checkIn, CheckOut: checkOut}
		if err = s.guard.EnsureBookable(ctx, sqltx, room, candidate); err != nil {
			return err //nolint:wrapcheck
		}

		booking = model.Booking{
			ID:            uuid.NewString(),
			GuestID:       guestID,
			StaffID:       staffID,
			RoomID:        room.ID,
			Mode:          req.Mode,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			BilledUnits:   priced.BilledUnits,
			RoomCharge:    priced.RoomCharge,
			ServiceCharge: priced.ServiceCharge,
			TotalPrice:    priced.Total,
			Status:        model.StatusPending,
			Metadata:      gModel.NewMetadata(timezone.Now(), caller.SubjectID),
		}

		if err = s.repo.InsertTx(ctx, sqltx, booking); err != nil {
			log.Error().Err(err).Msg("failed to create booking")

			return fmt.Errorf("failed to create booking: %w", err)
		}

		lines = dto.ToServiceLines(booking.ID, priced.Lines, uuid.NewString)
		if err = s.lineRepo.InsertBulkTx(ctx, sqltx, lines); err != nil {
			log.Error().Err(err).Msg("failed to create booking services")

			return fmt.Errorf("failed to create booking services: %w", err)
		}

		if err = s.syncRooms(ctx, sqltx, room.ID); err != nil {
			return err
		}

		transaction.OnCommit(ctx, func(ctx context.Context) {
			s.afterCommit(ctx, model.EventCreated, booking, roomKey(room.ID))
		})

		return nil
	})
	if err != nil {
		return res, storageConflict(err)
	}

	log.Info().Str("booking_id", booking.ID).Str("room_id", booking.RoomID).Int64("total_price", booking.TotalPrice).Msg("booking created")

	res.FromModel(booking, lines)

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	booking, err := s.repo.Get(ctx, byBookingID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	lines, err := s.lineRepo.GetAll(ctx, gDto.SortedBy(model.ServiceLineTableName+"."+model.FieldLinePosition, gDto.SortDirAsc), linesOf(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking services")

		return res, fmt.Errorf("failed to get booking services: %w", err)
	}

	res.FromModel(booking, lines)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string, caller identity.Identity) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = cache.ReadThrough(ctx, s.cache, shared.BuildCacheKey(model.CacheKeyGet, id), s.cfg.Cache.TTL, func(ctx context.Context) (dto.BookingResponse, error) {
		return s.load(ctx, id)
	})
	if err != nil {
		return res, err
	}

	if !caller.CanAccessGuestResource(res.GuestID) {
		return dto.BookingResponse{}, failure.Forbidden("booking belongs to another guest") // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest, caller identity.Identity) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !caller.IsStaff() {
		return res, failure.Forbidden("only staff can modify bookings") // nolint:wrapcheck
	}

	guestID, staffID, err := parties(caller, req.GuestID, req.StaffID)
	if err != nil {
		return res, err
	}

	// an omitted staff_id keeps the staff already on record
	if req.StaffID == constant.Empty {
		staffID = nil
	}

	checkIn, checkOut, err := dto.Period(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = s.resolveParties(ctx, guestID, staffID); err != nil {
		return res, err
	}

	catalog, err := s.catalog(ctx, dto.ServiceIDs(req.Services))
	if err != nil {
		return res, err
	}

	var (
		booking model.Booking
		lines   []model.ServiceLine
	)

	err = s.tx.WithinTx(ctx, "booking.update", func(ctx context.Context, sqltx *sqlx.Tx) error {
		current, err := s.lockBooking(ctx, sqltx, id)
		if err != nil {
			return err
		}

		if current.IsCompleted() {
			return failure.TerminalState("booking is completed") // nolint:wrapcheck
		}

		status, err := nextStatus(current.Status, req.Status)
		if err != nil {
			return err
		}

		rooms, err := s.lockRooms(ctx, sqltx, current.RoomID, req.RoomID)
		if err != nil {
			return err
		}

		room := rooms[req.RoomID]

		priced, err := quote(room, req.Mode, checkIn, checkOut, req.Services, catalog)
		if err != nil {
			return err
		}

		candidate := availability.Candidate{GuestID: guestID, CheckIn: checkIn, CheckOut: checkOut, ExcludeBookingID: id}
		if err = s.guard.EnsureBookable(ctx, sqltx, room, candidate); err != nil {
			return err //nolint:wrapcheck
		}

		invoice, err := s.invoiceOf(ctx, sqltx, id)
		if err != nil {
			return err
		}

		if invoice.ID != constant.Empty && (invoice.RoomCharge != priced.RoomCharge || invoice.ServiceCharge != priced.ServiceCharge) {
			return failure.ConflictWithDetails("booking is invoiced and the new price would change the invoice", invoice.Reference()) // nolint:wrapcheck
		}

		now := timezone.Now()

		booking = current
		booking.GuestID = guestID
		booking.RoomID = room.ID
		booking.Mode = req.Mode
		booking.CheckIn = checkIn
		booking.CheckOut = checkOut
		booking.BilledUnits = priced.BilledUnits
		booking.RoomCharge = priced.RoomCharge
		booking.ServiceCharge = priced.ServiceCharge
		booking.TotalPrice = priced.Total
		booking.Status = status
		booking.ModifiedAt = now
		booking.ModifiedBy = caller.SubjectID

		if staffID != nil {
			booking.StaffID = staffID
		}

		// explicit columns: zero charges must be written too
		updatedFields := map[string]any{
			model.FieldGuestID:       booking.GuestID,
			model.FieldStaffID:       booking.StaffID,
			model.FieldRoomID:        booking.RoomID,
			model.FieldMode:          booking.Mode,
			model.FieldCheckIn:       booking.CheckIn,
			model.FieldCheckOut:      booking.CheckOut,
			model.FieldBilledUnits:   booking.BilledUnits,
			model.FieldRoomCharge:    booking.RoomCharge,
			model.FieldServiceCharge: booking.ServiceCharge,
			model.FieldTotalPrice:    booking.TotalPrice,
			model.FieldStatus:        booking.Status,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: caller.SubjectID,
		}

		if err = s.repo.UpdateTx(ctx, sqltx, updatedFields, byBookingID(id)); err != nil {
			log.Error().Err(err).Msg("failed to update booking")

			return fmt.Errorf("failed to update booking: %w", err)
		}

		if err = s.lineRepo.DeleteTx(ctx, sqltx, linesOf(id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking services")

			return fmt.Errorf("failed to delete booking services: %w", err)
		}

		lines = dto.ToServiceLines(id, priced.Lines, uuid.NewString)
		if err = s.lineRepo.InsertBulkTx(ctx, sqltx, lines); err != nil {
			log.Error().Err(err).Msg("failed to create booking services")

			return fmt.Errorf("failed to create booking services: %w", err)
		}

		if err = s.syncRooms(ctx, sqltx, current.RoomID, room.ID); err != nil {
			return err
		}

		staleKeys := []string{roomKey(current.RoomID), roomKey(room.ID)}
		if invoice.ID != constant.Empty {
			staleKeys = append(staleKeys, shared.BuildCacheKey(invoiceModel.CacheKeyGet, invoice.ID))
		}

		transaction.OnCommit(ctx, func(ctx context.Context) {
			s.afterCommit(ctx, model.EventUpdated, booking, staleKeys...)
		})

		return nil
	})
	if err != nil {
		return res, storageConflict(err)
	}

	res.FromModel(booking, lines)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string, caller identity.Identity) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !caller.IsStaff() {
		return failure.Forbidden("only staff can delete bookings") // nolint:wrapcheck
	}

	err = s.tx.WithinTx(ctx, "booking.delete", func(ctx context.Context, sqltx *sqlx.Tx) error {
		current, err := s.lockBooking(ctx, sqltx, id)
		if err != nil {
			return err
		}

		invoice, err := s.invoiceOf(ctx, sqltx, id)
		if err != nil {
			return err
		}

		if invoice.ID != constant.Empty {
			return failure.ConflictWithDetails("booking is referenced by an invoice", invoice.Reference()) // nolint:wrapcheck
		}

		if _, err = s.lockRooms(ctx, sqltx, current.RoomID); err != nil {
			return err
		}

		if err = s.lineRepo.DeleteTx(ctx, sqltx, linesOf(id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking services")

			return fmt.Errorf("failed to delete booking services: %w", err)
		}

		if err = s.repo.DeleteTx(ctx, sqltx, byBookingID(id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking")

			return fmt.Errorf("failed to delete booking: %w", err)
		}

		if err = s.syncRooms(ctx, sqltx, current.RoomID); err != nil {
			return err
		}

		transaction.OnCommit(ctx, func(ctx context.Context) {
			s.afterCommit(ctx, model.EventDeleted, current, roomKey(current.RoomID))
		})

		return nil
	})
	if err != nil {
		return storageConflict(err)
	}

	log.Info().Str("booking_id", id).Msg("booking deleted")

	return nil
}

func (s *serviceImpl) MarkCompletedTx(ctx context.Context, sqltx *sqlx.Tx, id string) (booking model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkCompletedTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err = s.lockBooking(ctx, sqltx, id)
	if err != nil {
		return booking, err
	}

	if booking.IsCompleted() {
		return booking, failure.TerminalState("booking is already completed") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(struct {
		Status string `db:"status"`
	}{Status: model.StatusCompleted}, constant.ContextSystem)

	if err = s.repo.UpdateTx(ctx, sqltx, updatedFields, byBookingID(id)); err != nil {
		log.Error().Err(err).Msg("failed to complete booking")

		return booking, fmt.Errorf("failed to complete booking: %w", err)
	}

	booking.Status = model.StatusCompleted

	if err = s.syncRooms(ctx, sqltx, booking.RoomID); err != nil {
		return booking, err
	}

	completed := booking

	transaction.OnCommit(ctx, func(ctx context.Context) {
		s.afterCommit(ctx, model.EventCompleted, completed, roomKey(completed.RoomID))
	})

	return booking, nil
}
