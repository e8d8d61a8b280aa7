package invoice

import (
	"hotel/infras/otel"
	"hotel/internal/domains/invoice/model/dto"
	"hotel/internal/domains/invoice/service"
	"hotel/shared/constant"
	"hotel/shared/identity"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Invoice
	otel    otel.Otel
}

func New(service service.Invoice, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/bookings/{id}/invoice", handler.DeriveInvoice)
	router.Get("/invoices/{id}", handler.GetInvoiceByID)
	router.Post("/invoices/{id}/restaurant-charges", handler.AppendRestaurantCharge)
	router.Post("/invoices/{id}/payment", handler.PayInvoice)
}

// DeriveInvoice creates the invoice of a booking.
// @Summary Derive the invoice of a booking
// @Description Bills the booking's room and service charges. A booking has at most one invoice.
// @Tags Invoice
// @Produce json
// @Param id path string true "Booking ID"
// @Success 201 {object} response.Data[dto.InvoiceResponse] "Invoice created"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Invoice already exists, details reference it"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/invoice [post]
// @Security BearerAuth
func (handler *Handler) DeriveInvoice(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeriveInvoice")
	defer scope.End()

	caller, err := identity.Require(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	bookingID := chi.URLParam(request, constant.RequestParamID)
	if err := validator.ValidateID(bookingID); err != nil {
		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Derive(ctx, bookingID, caller)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to derive invoice")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Invoice derived by user " + caller.SubjectID)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetInvoiceByID retrieves an invoice with its restaurant items.
// @Summary Get an invoice by ID
// @Description Staff see any invoice, guests only invoices of their own bookings.
// @Tags Invoice
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Data[dto.InvoiceResponse] "Invoice details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/invoices/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetInvoiceByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvoiceByID")
	defer scope.End()

	caller, err := identity.Require(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Get(ctx, id, caller)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get invoice by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// AppendRestaurantCharge adds room-service orders to an unpaid invoice.
// @Summary Order to the room
// @Description Prices the items from the menu and adds them to the invoice total.
// @Tags Invoice
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body dto.RestaurantChargeRequest true "Ordered items"
// @Success 200 {object} response.Data[dto.InvoiceResponse] "Invoice with the new items"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error "Invoice already paid"
// @Router /v1/invoices/{id}/restaurant-charges [post]
// @Security BearerAuth
func (handler *Handler) AppendRestaurantCharge(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AppendRestaurantCharge")
	defer scope.End()

	caller, err := identity.Require(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		response.WithError(writer, err)

		return
	}
	req := dto.RestaurantChargeRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.AppendRestaurantCharge(ctx, id, req, caller)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to append restaurant charge")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// PayInvoice settles an invoice and completes its booking.
// @Summary Pay an invoice
// @Description Marks the invoice paid and the booking completed in one transaction.
// @Tags Invoice
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body dto.PayRequest true "Payment"
// @Success 200 {object} response.Data[dto.InvoiceResponse] "Paid invoice"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error "Invoice already paid"
// @Failure 500 {object} response.Error
// @Router /v1/invoices/{id}/payment [post]
// @Security BearerAuth
func (handler *Handler) PayInvoice(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PayInvoice")
	defer scope.End()

	caller, err := identity.Require(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		response.WithError(writer, err)

		return
	}
	req := dto.PayRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Pay(ctx, id, req, caller)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to pay invoice")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Invoice paid, recorded by user " + caller.SubjectID)

	response.WithJSON(writer, http.StatusOK, res)
}
