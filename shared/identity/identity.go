// Package identity carries the authenticated caller. The auth middleware stores it on the request
// context, handlers read it once and pass it explicitly to every service operation that authorizes.
package identity

import (
	"context"
	"hotel/shared/constant"
	"hotel/shared/failure"
)

type Identity struct {
	SubjectID string `json:"subject_id"`
	Role      string `json:"role"`
}

type contextKey struct{}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)

	return id, ok && id.SubjectID != constant.Empty
}

// Require is FromContext that fails with Unauthorized when no caller is attached.
func Require(ctx context.Context) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, failure.Unauthorized("missing caller identity") //nolint:wrapcheck
	}

	return id, nil
}

// IsStaff reports whether the caller works at the property (admin or staff).
func (i Identity) IsStaff() bool {
	return i.Role == constant.RoleAdmin || i.Role == constant.RoleStaff
}

func (i Identity) IsGuest() bool {
	return i.Role == constant.RoleGuest
}

// Owns reports whether a guest-scoped resource belongs to the caller.
func (i Identity) Owns(guestID string) bool {
	return i.IsGuest() && i.SubjectID == guestID
}

// CanAccessGuestResource is the read policy shared by bookings and invoices: staff see everything,
// guests only what they own, other roles nothing.
func (i Identity) CanAccessGuestResource(guestID string) bool {
	return i.IsStaff() || i.Owns(guestID)
}
