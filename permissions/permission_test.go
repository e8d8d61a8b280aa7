package permissions_test

import (
	"hotel/permissions"
	"hotel/shared/constant"
	"net/http"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	perms := permissions.Get()
	require.NotNil(t, perms)

	assert.False(t, perms.Skip)
	assert.NotEmpty(t, perms.Endpoints)

	for _, endpoint := range perms.Endpoints {
		assert.NotEmpty(t, endpoint.Permissions, "%s %s has no roles", endpoint.Method, endpoint.Path)
		assert.Contains(t, endpoint.Permissions, constant.RoleAdmin, "%s %s must allow admin", endpoint.Method, endpoint.Path)
	}
}

func TestFindPermissions(t *testing.T) {
	perms := permissions.Get()
	require.NotNil(t, perms)

	tests := []struct {
		name       string
		path       string
		method     string
		guest      bool
		registered bool
	}{
		{name: "guests book rooms", path: "/v1/bookings", method: http.MethodPost, guest: true, registered: true},
		{name: "guests order room service", path: "/v1/invoices/{id}/restaurant-charges", method: http.MethodPost, guest: true, registered: true},
		{name: "only staff take payment", path: "/v1/invoices/{id}/payment", method: http.MethodPost, registered: true},
		{name: "only staff derive invoices", path: "/v1/bookings/{id}/invoice", method: http.MethodPost, registered: true},
		{name: "only staff change room status", path: "/v1/rooms/{id}/status", method: http.MethodPatch, registered: true},
		{name: "unknown route", path: "/v1/unknown", method: http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := perms.FindPermissions(tt.path, tt.method)

			if !tt.registered {
				assert.Equal(t, permissions.Permission{}, permission)

				return
			}

			assert.Equal(t, tt.path, permission.Path)
			assert.Contains(t, permission.Permissions, constant.RoleStaff)
			assert.Equal(t, tt.guest, slices.Contains(permission.Permissions, constant.RoleGuest))
		})
	}
}


func TestAllows(t *testing.T) {
	perms := permissions.Get()
	require.NotNil(t, perms)

	assert.True(t, perms.Allows("/v1/invoices/{id}", http.MethodGet, constant.RoleGuest))
	assert.False(t, perms.Allows("/v1/invoices/{id}/payment", http.MethodPost, constant.RoleGuest))
	assert.False(t, perms.Allows("/v1/unknown", http.MethodGet, constant.RoleAdmin))

	open := &permissions.PermissionData{Skip: true}
	assert.True(t, open.Allows("/v1/unknown", http.MethodGet, constant.RoleGuest))
}
