package middleware_test

import (
	"encoding/json"
	"hotel/config"
	"hotel/infras/jwt"
	jwtMocks "hotel/infras/jwt/mocks"
	"hotel/infras/otel/mocks"
	"hotel/permissions"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/identity"
	"hotel/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const apiKey = "internal-key"

type errorBody struct {
	Error string       `json:"error"`
	Kind  failure.Kind `json:"kind"`
}

func newRouter(t *testing.T) (*chi.Mux, *jwtMocks.MockJWT) {
	t.Helper()

	ctrl := gomock.NewController(t)
	jwtService := jwtMocks.NewMockJWT(ctrl)

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	perms := permissions.Get()
	require.NotNil(t, perms)

	authRole := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), perms, cfg)

	whoami := func(writer http.ResponseWriter, request *http.Request) {
		caller, err := identity.Require(request.Context())
		if err != nil {
			writer.WriteHeader(http.StatusInternalServerError)

			return
		}

		_ = json.NewEncoder(writer).Encode(caller)
	}

	mux := chi.NewRouter()
	mux.Route("/v1", func(r chi.Router) {
		r.Group(func(protected chi.Router) {
			protected.Use(authRole.APIKey)
			protected.Use(authRole.Auth)
			protected.Use(authRole.RBAC)

			protected.Get("/rooms/{id}", whoami)
			protected.Delete("/rooms/{id}", whoami)
			protected.Post("/bookings", whoami)
		})
	})

	return mux, jwtService
}

func serve(mux http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, request)

	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestAuth(t *testing.T) {
	t.Run("missing header is unauthorized", func(t *testing.T) {
		mux, _ := newRouter(t)

		recorder := serve(mux, http.MethodGet, "/v1/rooms/room-1", nil)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, failure.KindUnauthorized, decodeError(t, recorder).Kind)
	})

	t.Run("malformed header is unauthorized", func(t *testing.T) {
		mux, _ := newRouter(t)

		recorder := serve(mux, http.MethodGet, "/v1/rooms/room-1", map[string]string{
			constant.RequestHeaderAuthorization: "Token abc",
		})

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Invalid authorization header format", decodeError(t, recorder).Error)
	})

	t.Run("expired token is reported as such", func(t *testing.T) {
		mux, jwtService := newRouter(t)
		jwtService.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)

		recorder := serve(mux, http.MethodGet, "/v1/rooms/room-1", map[string]string{
			constant.RequestHeaderAuthorization: "Bearer abc",
		})

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Token has expired", decodeError(t, recorder).Error)
	})

	t.Run("token without role is rejected", func(t *testing.T) {
		mux, jwtService := newRouter(t)
		jwtService.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).Return(&jwt.Claims{UserID: "guest-1"}, nil)

		recorder := serve(mux, http.MethodGet, "/v1/rooms/room-1", map[string]string{
			constant.RequestHeaderAuthorization: "Bearer abc",
		})

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("valid token attaches the caller", func(t *testing.T) {
		mux, jwtService := newRouter(t)
		jwtService.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).
			Return(&jwt.Claims{UserID: "guest-1", Role: constant.RoleGuest}, nil)

		recorder := serve(mux, http.MethodGet, "/v1/rooms/room-1", map[string]string{
			constant.RequestHeaderAuthorization: "Bearer abc",
		})

		require.Equal(t, http.StatusOK, recorder.Code)

		var caller identity.Identity
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &caller))
		assert.Equal(t, identity.Identity{SubjectID: "guest-1", Role: constant.RoleGuest}, caller)
	})
}

func TestRBAC(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		role     string
		expected int
	}{
		{name: "guest may read a room", method: http.MethodGet, path: "/v1/rooms/room-1", role: constant.RoleGuest, expected: http.StatusOK},
		{name: "guest may not delete a room", method: http.MethodDelete, path: "/v1/rooms/room-1", role: constant.RoleGuest, expected: http.StatusForbidden},
		{name: "staff may delete a room", method: http.MethodDelete, path: "/v1/rooms/room-1", role: constant.RoleStaff, expected: http.StatusOK},
		{name: "guest may book", method: http.MethodPost, path: "/v1/bookings", role: constant.RoleGuest, expected: http.StatusOK},
		{name: "unknown role is refused", method: http.MethodPost, path: "/v1/bookings", role: "auditor", expected: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, jwtService := newRouter(t)
			jwtService.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).
				Return(&jwt.Claims{UserID: "user-1", Role: tt.role}, nil)

			recorder := serve(mux, tt.method, tt.path, map[string]string{
				constant.RequestHeaderAuthorization: "Bearer abc",
			})

			assert.Equal(t, tt.expected, recorder.Code)

			if tt.expected == http.StatusForbidden {
				assert.Equal(t, failure.KindForbidden, decodeError(t, recorder).Kind)
			}
		})
	}
}

func TestAPIKey(t *testing.T) {
	t.Run("valid key acts as the system admin", func(t *testing.T) {
		mux, _ := newRouter(t)

		recorder := serve(mux, http.MethodDelete, "/v1/rooms/room-1", map[string]string{
			constant.RequestHeaderAPIKey: apiKey,
		})

		require.Equal(t, http.StatusOK, recorder.Code)

		var caller identity.Identity
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &caller))
		assert.Equal(t, constant.ContextSystem, caller.SubjectID)
		assert.Equal(t, constant.RoleAdmin, caller.Role)
	})

	t.Run("wrong key is forbidden", func(t *testing.T) {
		mux, _ := newRouter(t)

		recorder := serve(mux, http.MethodGet, "/v1/rooms/room-1", map[string]string{
			constant.RequestHeaderAPIKey: "guess",
		})

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}
