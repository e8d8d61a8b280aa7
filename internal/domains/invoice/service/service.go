package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Invoice=MockInvoiceService

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepo "hotel/internal/domains/booking/repository"
	bookingService "hotel/internal/domains/booking/service"
	"hotel/internal/domains/invoice/model"
	"hotel/internal/domains/invoice/model/dto"
	"hotel/internal/domains/invoice/repository"
	menuModel "hotel/internal/domains/menu/model"
	menuRepo "hotel/internal/domains/menu/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/identity"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"hotel/shared/transaction"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Invoice interface {
	Derive(ctx context.Context, bookingID string, caller identity.Identity) (dto.InvoiceResponse, error)
	AppendRestaurantCharge(ctx context.Context, id string, req dto.RestaurantChargeRequest, caller identity.Identity) (dto.InvoiceResponse, error)
	Pay(ctx context.Context, id string, req dto.PayRequest, caller identity.Identity) (dto.InvoiceResponse, error)
	Get(ctx context.Context, id string, caller identity.Identity) (dto.InvoiceResponse, error)
}

type serviceImpl struct {
	repo        repository.Invoice
	itemRepo    repository.Item
	bookingRepo bookingRepo.Booking
	menuRepo    menuRepo.MenuItem
	bookings    bookingService.Booking
	tx          transaction.Transactor
	cache       cache.RedisCache
	kafka       kafka.Client
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	repo repository.Invoice,
	itemRepo repository.Item,
	bookingRepo bookingRepo.Booking,
	menuRepo menuRepo.MenuItem,
	bookings bookingService.Booking,
	tx transaction.Transactor,
	cache cache.RedisCache,
	kafka kafka.Client,
	cfg *config.Config,
	otel otel.Otel,
) Invoice {
	return &serviceImpl{
		repo:        repo,
		itemRepo:    itemRepo,
		bookingRepo: bookingRepo,
		menuRepo:    menuRepo,
		bookings:    bookings,
		tx:          tx,
		cache:       cache,
		kafka:       kafka,
		cfg:         cfg,
		otel:        otel,
	}
}

func byInvoiceID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func byBookingID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, bookingModel.FieldID, bookingModel.TableName)
}

func (s *serviceImpl) lockInvoice(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Invoice, error) {
	invoice, err := s.repo.GetForUpdateTx(ctx, sqltx, byInvoiceID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return invoice, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return invoice, failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	return invoice, nil
}

// menu loads the available menu items the order names. Unknown or unavailable ids are left out
// so pricing the order reports them.
func (s *serviceImpl) menu(ctx context.Context, ids []string) (map[string]menuModel.MenuItem, error) {
	filter := shared.FilterByIDs(ids, menuModel.FieldID, menuModel.TableName)
	filter.Operator = gDto.FilterGroupOperatorAnd
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    menuModel.FieldAvailable,
		Operator: gDto.FilterOperatorEq,
		Value:    true,
		Table:    menuModel.TableName,
	})

	items, err := s.menuRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get menu items")

		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}

	res := make(map[string]menuModel.MenuItem, len(items))
	for _, item := range items {
		res[item.ID] = item
	}

	return res, nil
}

func (s *serviceImpl) afterCommit(ctx context.Context, eventType string, invoice model.Invoice) {
	key := shared.BuildCacheKey(model.CacheKeyGet, invoice.ID)
	if err := cache.Invalidate(ctx, s.cache, key, s.cfg.Cache.TTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to invalidate cache")
	}

	msg := kafka.Message{Key: invoice.ID, Value: dto.NewEvent(eventType, invoice, timezone.Now())}
	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.Invoice, msg); err != nil {
		log.Warn().Err(err).Str("event", eventType).Str("invoice_id", invoice.ID).Msg("failed to publish invoice event")
	}
}

func (s *serviceImpl) Derive(ctx context.Context, bookingID string, caller identity.Identity) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Derive")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !caller.IsStaff() {
		return res, failure.Forbidden("only staff can issue invoices") // nolint:wrapcheck
	}

	var (
		invoice model.Invoice
		guestID string
	)

	err = s.tx.WithinTx(ctx, "invoice.derive", func(ctx context.Context, sqltx *sqlx.Tx) error {
		booking, err := s.bookingRepo.GetForUpdateTx(ctx, sqltx, byBookingID(bookingID))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		existing, err := s.repo.GetTx(ctx, sqltx, shared.FilterByID(bookingID, model.FieldBookingID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get invoice")

			return fmt.Errorf("failed to get invoice: %w", err)
		}

		if existing.ID != constant.Empty {
			return failure.ConflictWithDetails("booking already has an invoice", existing.Reference()) // nolint:wrapcheck
		}

		invoice = model.Invoice{
			ID:            uuid.NewString(),
			BookingID:     booking.ID,
			RoomCharge:    booking.RoomCharge,
			ServiceCharge: booking.ServiceCharge,
			TotalAmount:   booking.RoomCharge + booking.ServiceCharge,
			PaymentStatus: model.PaymentStatusUnpaid,
			Metadata:      gModel.NewMetadata(timezone.Now(), caller.SubjectID),
		}
		guestID = booking.GuestID

		if err = s.repo.InsertTx(ctx, sqltx, invoice); err != nil {
			log.Error().Err(err).Msg("failed to create invoice")

			return fmt.Errorf("failed to create invoice: %w", err)
		}

		transaction.OnCommit(ctx, func(ctx context.Context) {
			s.afterCommit(ctx, model.EventDerived, invoice)
		})

		return nil
	})
	if err != nil {
		if shared.PqErrorCode(err) == constant.PqErrorCodeUniqueViolation {
			return res, failure.Conflict("booking already has an invoice") // nolint:wrapcheck
		}

		return res, err //nolint:wrapcheck
	}

	log.Info().Str("invoice_id", invoice.ID).Str("booking_id", bookingID).Int64("total_amount", invoice.TotalAmount).Msg("invoice derived")

	res.FromModel(invoice, guestID, nil)

	return res, nil
}

func (s *serviceImpl) AppendRestaurantCharge(ctx context.Context, id string, req dto.RestaurantChargeRequest, caller identity.Identity) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AppendRestaurantCharge")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if len(req.Items) == 0 {
		return res, failure.Validation("at least one item is required", "items") // nolint:wrapcheck
	}

	menu, err := s.menu(ctx, req.MenuItemIDs())
	if err != nil {
		return res, err
	}

	var (
		invoice model.Invoice
		guestID string
	)

	err = s.tx.WithinTx(ctx, "invoice.charge", func(ctx context.Context, sqltx *sqlx.Tx) error {
		locked, err := s.lockInvoice(ctx, sqltx, id)
		if err != nil {
			return err
		}

		invoice = locked

		booking, err := s.bookingRepo.GetTx(ctx, sqltx, byBookingID(invoice.BookingID))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return fmt.Errorf("failed to get booking: %w", err)
		}

		if !caller.CanAccessGuestResource(booking.GuestID) {
			return failure.Forbidden("invoice belongs to another guest") // nolint:wrapcheck
		}

		if invoice.IsPaid() {
			return failure.TerminalState("invoice is already paid") // nolint:wrapcheck
		}

		items, charge, err := req.ToItems(invoice.ID, menu, timezone.Now(), uuid.NewString)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err = s.itemRepo.InsertBulkTx(ctx, sqltx, items); err != nil {
			log.Error().Err(err).Msg("failed to create invoice items")

			return fmt.Errorf("failed to create invoice items: %w", err)
		}

		invoice.RestaurantCharge += charge
		invoice.TotalAmount += charge
		invoice.ModifiedAt = timezone.Now()
		invoice.ModifiedBy = caller.SubjectID
		guestID = booking.GuestID

		updatedFields := map[string]any{
			model.FieldRestaurantCharge: invoice.RestaurantCharge,
			model.FieldTotalAmount:      invoice.TotalAmount,
			constant.FieldModifiedAt:    invoice.ModifiedAt,
			constant.FieldModifiedBy:    invoice.ModifiedBy,
		}

		if err = s.repo.UpdateTx(ctx, sqltx, updatedFields, byInvoiceID(id)); err != nil {
			log.Error().Err(err).Msg("failed to update invoice")

			return fmt.Errorf("failed to update invoice: %w", err)
		}

		charged := invoice

		transaction.OnCommit(ctx, func(ctx context.Context) {
			s.afterCommit(ctx, model.EventCharged, charged)
		})

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	items, err := s.items(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(invoice, guestID, items)

	return res, nil
}

func (s *serviceImpl) Pay(ctx context.Context, id string, req dto.PayRequest, caller identity.Identity) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Pay")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !caller.IsStaff() {
		return res, failure.Forbidden("only staff can settle invoices") // nolint:wrapcheck
	}

	if req.PaymentMethod != model.PaymentMethodCash && req.PaymentMethod != model.PaymentMethodCard {
		return res, failure.Validation("payment_method must be one of Cash Card", "payment_method") // nolint:wrapcheck
	}

	var (
		invoice model.Invoice
		booking bookingModel.Booking
	)

	err = s.tx.WithinTx(ctx, "invoice.pay", func(ctx context.Context, sqltx *sqlx.Tx) error {
		locked, err := s.lockInvoice(ctx, sqltx, id)
		if err != nil {
			return err
		}

		invoice = locked

		if invoice.IsPaid() {
			return failure.TerminalState("invoice is already paid") // nolint:wrapcheck
		}

		paidAt := timezone.Now()
		updatedFields := shared.TransformFields(dto.UpdatePaymentRequest{
			PaymentStatus: model.PaymentStatusPaid,
			PaymentMethod: req.PaymentMethod,
			PaymentDate:   paidAt,
		}, caller.SubjectID)

		if err = s.repo.UpdateTx(ctx, sqltx, updatedFields, byInvoiceID(id)); err != nil {
			log.Error().Err(err).Msg("failed to settle invoice")

			return fmt.Errorf("failed to settle invoice: %w", err)
		}

		booking, err = s.bookings.MarkCompletedTx(ctx, sqltx, invoice.BookingID)
		if err != nil {
			return fmt.Errorf("failed to complete booking: %w", err)
		}

		invoice.PaymentStatus = model.PaymentStatusPaid
		invoice.PaymentMethod = &req.PaymentMethod
		invoice.PaymentDate = &paidAt
		invoice.ModifiedAt = paidAt
		invoice.ModifiedBy = caller.SubjectID

		paid := invoice

		transaction.OnCommit(ctx, func(ctx context.Context) {
			s.afterCommit(ctx, model.EventPaid, paid)
		})

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	log.Info().Str("invoice_id", id).Str("booking_id", booking.ID).Str("method", req.PaymentMethod).Msg("invoice paid")

	items, err := s.items(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(invoice, booking.GuestID, items)

	return res, nil
}

func (s *serviceImpl) items(ctx context.Context, id string) ([]model.Item, error) {
	items, err := s.itemRepo.GetAll(ctx,
		gDto.SortedBy(model.ItemTableName+"."+model.FieldItemOrderedAt, gDto.SortDirAsc),
		shared.FilterByID(id, model.FieldItemInvoiceID, model.ItemTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice items")

		return nil, fmt.Errorf("failed to get invoice items: %w", err)
	}

	return items, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (res dto.InvoiceResponse, err error) {
	invoice, err := s.repo.Get(ctx, byInvoiceID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return res, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return res, failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	booking, err := s.bookingRepo.Get(ctx, byBookingID(invoice.BookingID), bookingModel.FieldID, bookingModel.FieldGuestID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		log.Error().Str("invoice_id", id).Str("booking_id", invoice.BookingID).Msg("invoice references a missing booking")

		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	items, err := s.items(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(invoice, booking.GuestID, items)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string, caller identity.Identity) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !caller.IsStaff() && !caller.IsGuest() {
		return res, failure.ForbiddenError
	}

	res, err = cache.ReadThrough(ctx, s.cache, shared.BuildCacheKey(model.CacheKeyGet, id), s.cfg.Cache.TTL, func(ctx context.Context) (dto.InvoiceResponse, error) {
		return s.load(ctx, id)
	})
	if err != nil {
		return res, err
	}

	if !caller.CanAccessGuestResource(res.GuestID) {
		return dto.InvoiceResponse{}, failure.Forbidden("invoice belongs to another guest") // nolint:wrapcheck
	}

	return res, nil
}
