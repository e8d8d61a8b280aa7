package room_test

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
	"hotel/internal/domains/room/mocks"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/handlers/room"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/identity"
)

const roomID = "6a1f0c3e-9b2d-4c7a-8e5f-3d4b2a1c0e9f"

var staff = identity.Identity{SubjectID: "staff-1", Role: constant.RoleStaff}

func newRouter(t *testing.T) (chi.Router, *mocks.MockRoomService) {
	t.Helper()

	svc := mocks.NewMockRoomService(gomock.NewController(t))
	handler := room.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(identity.NewContext(r.Context(), staff)))
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
		{http.MethodGet, "/rooms/101"},
		{http.MethodPatch, "/rooms/room-1"},
		{http.MethodDelete, "/rooms/not-a-uuid"},
		{http.MethodPatch, "/rooms/xyz/status"},
		{http.MethodGet, "/rooms/6a1f0c3e9b2d/active-bookings"},
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

func TestHandler_GetRoomByID(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().Get(gomock.Any(), roomID).Return(dto.RoomResponse{ID: roomID}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/rooms/"+roomID, nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), roomID)
}
