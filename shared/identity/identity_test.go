package identity_test

import (
	"context"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/identity"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	_, ok := identity.FromContext(context.Background())
	assert.False(t, ok)

	_, err := identity.Require(context.Background())
	assert.True(t, failure.Is(err, failure.KindUnauthorized))

	ctx := identity.NewContext(context.Background(), identity.Identity{SubjectID: "u-1", Role: constant.RoleGuest})

	id, err := identity.Require(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "u-1", id.SubjectID)
	assert.Equal(t, constant.RoleGuest, id.Role)
}

func TestCanAccessGuestResource(t *testing.T) {
	tests := []struct {
		name    string
		caller  identity.Identity
		guestID string
		want    bool
	}{
		{name: "admin reads any", caller: identity.Identity{SubjectID: "a-1", Role: constant.RoleAdmin}, guestID: "g-1", want: true},
		{name: "staff reads any", caller: identity.Identity{SubjectID: "s-1", Role: constant.RoleStaff}, guestID: "g-1", want: true},
		{name: "guest reads own", caller: identity.Identity{SubjectID: "g-1", Role: constant.RoleGuest}, guestID: "g-1", want: true},
		{name: "guest cannot read others", caller: identity.Identity{SubjectID: "g-2", Role: constant.RoleGuest}, guestID: "g-1", want: false},
		{name: "unknown role refused", caller: identity.Identity{SubjectID: "g-1", Role: "auditor"}, guestID: "g-1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.caller.CanAccessGuestResource(tt.guestID))
		})
	}
}
