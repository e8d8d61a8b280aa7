package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/kafka"
	kafkaMocks "hotel/infras/kafka/mocks"
	"hotel/infras/otel/mocks"
	"hotel/infras/postgres"
	bookingMocks "hotel/internal/domains/booking/mocks"
	bookingModel "hotel/internal/domains/booking/model"
	invoiceMocks "hotel/internal/domains/invoice/mocks"
	"hotel/internal/domains/invoice/model"
	"hotel/internal/domains/invoice/model/dto"
	"hotel/internal/domains/invoice/service"
	menuMocks "hotel/internal/domains/menu/mocks"
	menuModel "hotel/internal/domains/menu/model"
	"hotel/shared/cache"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/identity"
	"hotel/shared/transaction"
	txMocks "hotel/shared/transaction/mocks"
)

var (
	staffCaller = identity.Identity{SubjectID: "staff-1", Role: constant.RoleStaff}
	guestCaller = identity.Identity{SubjectID: "guest-1", Role: constant.RoleGuest}

	booking = bookingModel.Booking{
		ID:            "booking-1",
		GuestID:       "guest-1",
		RoomID:        "room-1",
		RoomCharge:    2_000_000,
		ServiceCharge: 700_000,
		TotalPrice:    2_700_000,
		Status:        bookingModel.StatusConfirmed,
	}

	unpaid = model.Invoice{
		ID:            "invoice-1",
		BookingID:     "booking-1",
		RoomCharge:    2_000_000,
		ServiceCharge: 700_000,
		TotalAmount:   2_700_000,
		PaymentStatus: model.PaymentStatusUnpaid,
	}

	coffee = menuModel.MenuItem{ID: "menu-1", Name: "Coffee", Price: 45_000, Available: true}
	steak  = menuModel.MenuItem{ID: "menu-2", Name: "Steak", Price: 250_000, Available: true}
)

type fixture struct {
	repo        *invoiceMocks.MockInvoice
	itemRepo    *invoiceMocks.MockItem
	bookingRepo *bookingMocks.MockBooking
	menuRepo    *menuMocks.MockMenuItem
	bookings    *bookingMocks.MockBookingService
	tx          *txMocks.MockTransactor
	cache       *cacheMocks.MockRedisCache
	kafka       *kafkaMocks.MockClient
	cfg         *config.Config
	t           *testing.T
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Kafka.Topics.Invoice = "hotel.invoices"
	cfg.Cache.TTL = 60
	cfg.Hotel.TxTimeoutSeconds = 5

	return &fixture{
		repo:        invoiceMocks.NewMockInvoice(ctrl),
		itemRepo:    invoiceMocks.NewMockItem(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		menuRepo:    menuMocks.NewMockMenuItem(ctrl),
		bookings:    bookingMocks.NewMockBookingService(ctrl),
		tx:          txMocks.NewMockTransactor(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		kafka:       kafkaMocks.NewMockClient(ctrl),
		cfg:         cfg,
		t:           t,
	}
}

func (f *fixture) service(tx transaction.Transactor) service.Invoice {
	return service.New(f.repo, f.itemRepo, f.bookingRepo, f.menuRepo, f.bookings, tx, f.cache, f.kafka, f.cfg, mocks.NewOtel())
}

func (f *fixture) svc() service.Invoice {
	return f.service(f.tx)
}

func (f *fixture) expectTx(name string) {
	f.tx.EXPECT().
		WithinTx(gomock.Any(), name, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, fn transaction.Func) error {
			return fn(ctx, nil)
		})
}

func (f *fixture) expectAfterCommit(event string) {
	f.cache.ExpectInvalidate("invoice:get:invoice-1", 60)
	f.kafka.EXPECT().
		SendMessages(gomock.Any(), "hotel.invoices", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			if assert.Len(f.t, messages, 1) {
				assert.Equal(f.t, event, messages[0].Value.(dto.Event).Type)
			}

			return nil
		})
}

func TestInvoiceService_Derive(t *testing.T) {
	tests := []struct {
		name      string
		caller    identity.Identity
		setupMock func(f *fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name:   "invoice copies the booking subtotals",
			caller: staffCaller,
			setupMock: func(f *fixture) {
				f.expectTx("invoice.derive")
				f.bookingRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Invoice{}, nil)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, invoice model.Invoice) error {
						assert.Equal(f.t, "booking-1", invoice.BookingID)
						assert.Equal(f.t, int64(2_000_000), invoice.RoomCharge)
						assert.Equal(f.t, int64(700_000), invoice.ServiceCharge)
						assert.Zero(f.t, invoice.RestaurantCharge)
						assert.Equal(f.t, int64(2_700_000), invoice.TotalAmount)
						assert.Equal(f.t, model.PaymentStatusUnpaid, invoice.PaymentStatus)
						assert.Nil(f.t, invoice.PaymentMethod)
						assert.Nil(f.t, invoice.PaymentDate)

						return nil
					})
				f.cache.EXPECT().Bump(gomock.Any(), gomock.Any(), 120).Return(int64(1), nil)
				f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				f.kafka.EXPECT().SendMessages(gomock.Any(), "hotel.invoices", gomock.Any()).Return(nil)
			},
		},
		{
			name:      "guests cannot issue invoices",
			caller:    guestCaller,
			setupMock: func(_ *fixture) {},
			wantErr:   true,
			wantKind:  failure.KindForbidden,
		},
		{
			name:   "booking not found",
			caller: staffCaller,
			setupMock: func(f *fixture) {
				f.expectTx("invoice.derive")
				f.bookingRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name:   "booking already invoiced",
			caller: staffCaller,
			setupMock: func(f *fixture) {
				f.expectTx("invoice.derive")
				f.bookingRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(unpaid, nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name:   "concurrent derive hits the unique index",
			caller: staffCaller,
			setupMock: func(f *fixture) {
				f.expectTx("invoice.derive")
				f.bookingRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Invoice{}, nil)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc().Derive(context.Background(), "booking-1", tt.caller)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, res.ID)
				assert.Equal(t, "guest-1", res.GuestID)
				assert.Equal(t, int64(2_700_000), res.TotalAmount)
			}
		})
	}
}

func TestInvoiceService_AppendRestaurantCharge(t *testing.T) {
	req := dto.RestaurantChargeRequest{Items: []dto.RestaurantItemRequest{
		{MenuItemID: coffee.ID, Quantity: 2},
		{MenuItemID: steak.ID, Quantity: 1},
	}}

	tests := []struct {
		name      string
		caller    identity.Identity
		setupMock func(f *fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name:   "guest orders room service on their own invoice",
			caller: guestCaller,
			setupMock: func(f *fixture) {
				f.menuRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]menuModel.MenuItem{coffee, steak}, nil)
				f.expectTx("invoice.charge")
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(unpaid, nil)
				f.bookingRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
				f.itemRepo.EXPECT().
					InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, items []model.Item) error {
						require.Len(f.t, items, 2)
						assert.Equal(f.t, int64(90_000), items[0].LineTotal)
						assert.Equal(f.t, "Steak", items[1].Name)

						return nil
					})
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(f.t, int64(340_000), fields[model.FieldRestaurantCharge])
						assert.Equal(f.t, int64(3_040_000), fields[model.FieldTotalAmount])

						return nil
					})
				f.expectAfterCommit(model.EventCharged)
				f.itemRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Item{{Name: "Coffee"}, {Name: "Steak"}}, nil)
			},
		},
		{
			name:   "another guest's invoice",
			caller: identity.Identity{SubjectID: "guest-2", Role: constant.RoleGuest},
			setupMock: func(f *fixture) {
				f.menuRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]menuModel.MenuItem{coffee, steak}, nil)
				f.expectTx("invoice.charge")
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(unpaid, nil)
				f.bookingRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr:  true,
			wantKind: failure.KindForbidden,
		},
		{
			name:   "menu item unavailable",
			caller: staffCaller,
			setupMock: func(f *fixture) {
				f.menuRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]menuModel.MenuItem{coffee}, nil)
				f.expectTx("invoice.charge")
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(unpaid, nil)
				f.bookingRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name:   "paid invoice is terminal",
			caller: staffCaller,
			setupMock: func(f *fixture) {
				paid := unpaid
				paid.PaymentStatus = model.PaymentStatusPaid

				f.menuRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]menuModel.MenuItem{coffee, steak}, nil)
				f.expectTx("invoice.charge")
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(paid, nil)
				f.bookingRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr:  true,
			wantKind: failure.KindTerminalState,
		},
		{
			name:   "invoice not found",
			caller: staffCaller,
			setupMock: func(f *fixture) {
				f.menuRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]menuModel.MenuItem{coffee, steak}, nil)
				f.expectTx("invoice.charge")
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Invoice{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc().AppendRestaurantCharge(context.Background(), "invoice-1", req, tt.caller)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(340_000), res.RestaurantCharge)
				assert.Equal(t, int64(3_040_000), res.TotalAmount)
				assert.Len(t, res.Items, 2)
			}
		})
	}
}

func TestInvoiceService_Pay(t *testing.T) {
	tests := []struct {
		name      string
		caller    identity.Identity
		req       dto.PayRequest
		setupMock func(f *fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name:   "card payment completes the booking",
			caller: staffCaller,
			req:    dto.PayRequest{PaymentMethod: model.PaymentMethodCard},
			setupMock: func(f *fixture) {
				f.expectTx("invoice.pay")
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(unpaid, nil)
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(f.t, model.PaymentStatusPaid, fields[model.FieldPaymentStatus])
						assert.Equal(f.t, model.PaymentMethodCard, fields[model.FieldPaymentMethod])
						assert.IsType(f.t, time.Time{}, fields[model.FieldPaymentDate])

						return nil
					})

				completed := booking
				completed.Status = bookingModel.StatusCompleted

				f.bookings.EXPECT().MarkCompletedTx(gomock.Any(), gomock.Any(), "booking-1").Return(completed, nil)
				f.expectAfterCommit(model.EventPaid)
				f.itemRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
		},
		{
			name:      "guests cannot settle",
			caller:    guestCaller,
			req:       dto.PayRequest{PaymentMethod: model.PaymentMethodCash},
			setupMock: func(_ *fixture) {},
			wantErr:   true,
			wantKind:  failure.KindForbidden,
		},
		{
			name:      "unknown payment method",
			caller:    staffCaller,
			req:       dto.PayRequest{PaymentMethod: "Cheque"},
			setupMock: func(_ *fixture) {},
			wantErr:   true,
			wantKind:  failure.KindValidation,
		},
		{
			name:   "already paid",
			caller: staffCaller,
			req:    dto.PayRequest{PaymentMethod: model.PaymentMethodCash},
			setupMock: func(f *fixture) {
				paid := unpaid
				paid.PaymentStatus = model.PaymentStatusPaid

				f.expectTx("invoice.pay")
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(paid, nil)
			},
			wantErr:  true,
			wantKind: failure.KindTerminalState,
		},
		{
			name:   "booking already completed",
			caller: staffCaller,
			req:    dto.PayRequest{PaymentMethod: model.PaymentMethodCash},
			setupMock: func(f *fixture) {
				f.expectTx("invoice.pay")
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(unpaid, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.bookings.EXPECT().
					MarkCompletedTx(gomock.Any(), gomock.Any(), "booking-1").
					Return(bookingModel.Booking{}, failure.TerminalState("booking is already completed"))
			},
			wantErr:  true,
			wantKind: failure.KindTerminalState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc().Pay(context.Background(), "invoice-1", tt.req, tt.caller)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.PaymentStatusPaid, res.PaymentStatus)
				require.NotNil(t, res.PaymentMethod)
				assert.Equal(t, model.PaymentMethodCard, *res.PaymentMethod)
				assert.NotNil(t, res.PaymentDate)
			}
		})
	}
}

// A failure after the invoice row was written must roll the payment back and publish nothing.
func TestInvoiceService_Pay_RollsBackWhenBookingCannotComplete(t *testing.T) {
	f := newFixture(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)

	defer db.Close()

	conn := &postgres.Connection{Write: sqlx.NewDb(db, "sqlmock")}
	svc := f.service(transaction.New(conn, f.cfg, mocks.NewOtel()))

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Not(gomock.Nil()), gomock.Any()).Return(unpaid, nil)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Not(gomock.Nil()), gomock.Any(), gomock.Any()).Return(nil)
	f.bookings.EXPECT().
		MarkCompletedTx(gomock.Any(), gomock.Not(gomock.Nil()), "booking-1").
		Return(bookingModel.Booking{}, errors.New("connection reset"))

	_, err = svc.Pay(context.Background(), "invoice-1", dto.PayRequest{PaymentMethod: model.PaymentMethodCash}, staffCaller)

	assert.Equal(t, failure.KindTransactionAborted, failure.GetKind(err))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestInvoiceService_Get(t *testing.T) {
	tests := []struct {
		name      string
		caller    identity.Identity
		setupMock func(f *fixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name:   "owner reads through storage",
			caller: guestCaller,
			setupMock: func(f *fixture) {
				f.cache.ExpectMiss("invoice:get:invoice-1", true)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unpaid, nil)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), bookingModel.FieldID, bookingModel.FieldGuestID).Return(booking, nil)
				f.itemRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
		},
		{
			name:   "staff reads from cache",
			caller: staffCaller,
			setupMock: func(f *fixture) {
				f.cache.ExpectHit("invoice:get:invoice-1", dto.InvoiceResponse{ID: "invoice-1", GuestID: "guest-1", TotalAmount: 2_700_000})
			},
		},
		{
			name:   "another guest",
			caller: identity.Identity{SubjectID: "guest-2", Role: constant.RoleGuest},
			setupMock: func(f *fixture) {
				f.cache.ExpectMiss("invoice:get:invoice-1", true)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unpaid, nil)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
				f.itemRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantErr:  true,
			wantKind: failure.KindForbidden,
		},
		{
			name:      "unknown role",
			caller:    identity.Identity{SubjectID: "x-1", Role: "auditor"},
			setupMock: func(_ *fixture) {},
			wantErr:   true,
			wantKind:  failure.KindForbidden,
		},
		{
			name:   "invoice not found",
			caller: staffCaller,
			setupMock: func(f *fixture) {
				f.cache.ExpectMiss("invoice:get:invoice-1", false)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invoice{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name:   "booking missing",
			caller: staffCaller,
			setupMock: func(f *fixture) {
				f.cache.ExpectMiss("invoice:get:invoice-1", false)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unpaid, nil)
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc().Get(context.Background(), "invoice-1", tt.caller)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "invoice-1", res.ID)
				assert.Equal(t, int64(2_700_000), res.TotalAmount)
			}
		})
	}
}

func TestInvoiceService_Get_RepeatedReadsAgree(t *testing.T) {
	f := newFixture(t)

	var stored []byte

	coffeeLine := model.Item{
		ID:         "item-1",
		InvoiceID:  "invoice-1",
		MenuItemID: coffee.ID,
		Name:       coffee.Name,
		UnitPrice:  coffee.Price,
		Quantity:   2,
		LineTotal:  90_000,
		OrderedAt:  time.Date(2025, time.March, 1, 19, 30, 0, 0, time.UTC),
	}

	f.cache.ExpectVersion("invoice:get:invoice-1", 0).Times(2)
	gomock.InOrder(
		f.cache.EXPECT().Get(gomock.Any(), "invoice:get:invoice-1", gomock.Any()).Return(cache.Nil),
		f.cache.EXPECT().Get(gomock.Any(), "invoice:get:invoice-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				return json.Unmarshal(stored, value)
			}),
	)
	f.cache.EXPECT().
		Save(gomock.Any(), "invoice:get:invoice-1", gomock.Any(), 60).
		DoAndReturn(func(_ context.Context, _ string, value any, _ int) (err error) {
			stored, err = json.Marshal(value)

			return err
		})

	// storage is read once; the second call must be answered from the saved entry
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(unpaid, nil)
	f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
	f.itemRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Item{coffeeLine}, nil)

	first, err := f.svc().Get(context.Background(), "invoice-1", guestCaller)
	require.NoError(t, err)

	second, err := f.svc().Get(context.Background(), "invoice-1", guestCaller)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second.Items, 1)
	assert.Equal(t, int64(2_700_000), second.TotalAmount)
}
