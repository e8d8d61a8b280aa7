package invoice_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/domains/invoice/mocks"
	"hotel/internal/domains/invoice/model/dto"
	"hotel/internal/handlers/invoice"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/identity"
)

const invoiceID = "2c9e1b7a-4f3d-4e8b-9a61-0d7c5e3f8b24"

var guest = identity.Identity{SubjectID: "guest-1", Role: constant.RoleGuest}

func newRouter(t *testing.T) (chi.Router, *mocks.MockInvoiceService) {
	t.Helper()

	svc := mocks.NewMockInvoiceService(gomock.NewController(t))
	handler := invoice.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(identity.NewContext(r.Context(), guest)))
		})
	})
	handler.Router(router)

	return router, svc
}

func TestHandler_MalformedID(t *testing.T) {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/bookings/booking-1/invoice"},
		{http.MethodGet, "/invoices/invoice-1"},
		{http.MethodPost, "/invoices/0/restaurant-charges"},
		{http.MethodPost, "/invoices/not-a-uuid/payment"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			router, _ := newRouter(t)
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`)))

			assert.Equal(t, http.StatusBadRequest, recorder.Code)

			var body struct {
				Kind   failure.Kind `json:"kind"`
				Fields []string     `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, failure.KindValidation, body.Kind)
			assert.Equal(t, []string{constant.RequestParamID}, body.Fields)
		})
	}
}

func TestHandler_GetInvoiceByID(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().Get(gomock.Any(), invoiceID, guest).Return(dto.InvoiceResponse{ID: invoiceID, GuestID: guest.SubjectID}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/invoices/"+invoiceID, nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), invoiceID)
}
