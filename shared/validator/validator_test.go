package validator_test

import (
	"errors"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"gte=1"`
}

type stayRequest struct {
	GuestID  string `json:"guest_id"  validate:"required,uuid"`
	Mode     string `json:"mode"      validate:"required,oneof=Daily Hourly"`
	CheckIn  string `json:"check_in"  validate:"required,rfc3339"`
	Services []line `json:"services"  validate:"omitempty,dive"`
}

func validStay() stayRequest {
	return stayRequest{
		GuestID: "7b0d1c1e-5d8c-4a53-9a3f-1f0d8f2b6c11",
		Mode:    "Daily",
		CheckIn: "2024-05-01T14:00:00Z",
		Services: []line{
			{ServiceID: "0f7c7d1c-2a3b-4c5d-8e9f-a0b1c2d3e4f5", Quantity: 2},
		},
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(r *stayRequest)
		wantFields []string
	}{
		{
			name:   "valid struct",
			mutate: func(*stayRequest) {},
		},
		{
			name:       "missing guest",
			mutate:     func(r *stayRequest) { r.GuestID = "" },
			wantFields: []string{"guest_id"},
		},
		{
			name:       "unknown mode",
			mutate:     func(r *stayRequest) { r.Mode = "Weekly" },
			wantFields: []string{"mode"},
		},
		{
			name:       "check in not rfc3339",
			mutate:     func(r *stayRequest) { r.CheckIn = "01/05/2024 14:00" },
			wantFields: []string{"check_in"},
		},
		{
			name:       "zero quantity inside a line",
			mutate:     func(r *stayRequest) { r.Services[0].Quantity = 0 },
			wantFields: []string{"services[0].quantity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validStay()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.wantFields == nil {
				assert.NoError(t, err)

				return
			}

			var fail *failure.Failure
			require.True(t, errors.As(err, &fail))
			assert.Equal(t, failure.KindValidation, fail.Kind)
			assert.Equal(t, tt.wantFields, fail.Fields)
		})
	}
}

func TestValidationMessages(t *testing.T) {
	req := validStay()
	req.GuestID = ""

	err := validator.ValidateStruct(&req)
	require.Error(t, err)
	assert.Equal(t, "guest_id is required", err.Error())

	req = validStay()
	req.Mode = "Weekly"

	err = validator.ValidateStruct(&req)
	require.Error(t, err)
	assert.Equal(t, "mode must be one of Daily Hourly", err.Error())

	req = validStay()
	req.GuestID = "guest-1"
	req.Services[0].Quantity = 0

	err = validator.ValidateStruct(&req)
	require.Error(t, err)
	assert.Equal(t, "guest_id must be a valid UUID; services[0].quantity must be greater than or equal to 1", err.Error())
}

func TestValidate(t *testing.T) {
	body := `{"guest_id":"7b0d1c1e-5d8c-4a53-9a3f-1f0d8f2b6c11","mode":"Hourly","check_in":"2024-05-01T10:00:00+07:00"}`

	var req stayRequest
	assert.NoError(t, validator.Validate(strings.NewReader(body), &req))
	assert.Equal(t, "Hourly", req.Mode)

	err := validator.Validate(strings.NewReader(`{"guest_id":`), &req)
	assert.True(t, failure.Is(err, failure.KindValidation))

	err = validator.Validate(strings.NewReader(`{"guest":"x"}`), &req)
	assert.True(t, failure.Is(err, failure.KindValidation), "unknown fields are rejected")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("Cash", "oneof=Cash Card"))
	assert.Error(t, validator.ValidateVar("Cheque", "oneof=Cash Card"))
	assert.Error(t, validator.ValidateVar("not-a-uuid", "uuid"))
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, validator.ValidateID("8f14e45f-ceea-467f-a0e6-5b5a3c6d2f10"))

	for _, id := range []string{"", "42", "booking-1", "8f14e45f-ceea-467f"} {
		err := validator.ValidateID(id)

		var fail *failure.Failure
		require.True(t, errors.As(err, &fail), id)
		assert.Equal(t, failure.KindValidation, fail.Kind)
		assert.Equal(t, []string{"id"}, fail.Fields)
		assert.Equal(t, "id must be a valid UUID", fail.Message)
	}
}
