package shared_test

import (
	"context"
	"errors"
	"fmt"
	"hotel/shared"
	"hotel/shared/cache/mocks"
	"hotel/shared/constant"
	"hotel/shared/dto"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type roomPatch struct {
	RoomNumber   *string `db:"room_number"`
	DailyRate    *int64  `db:"daily_rate"`
	MinimumHours *int    `db:"minimum_hours"`
	Status       string  `db:"status"`
	Image        string  `json:"image"`
}

func TestTransformFields(t *testing.T) {
	number := "204"
	hours := 0

	tests := []struct {
		name     string
		data     roomPatch
		expected map[string]any
	}{
		{
			name: "set pointers and non-zero values are kept",
			data: roomPatch{RoomNumber: &number, MinimumHours: &hours, Status: "Maintenance"},
			expected: map[string]any{
				"room_number":   &number,
				"minimum_hours": &hours,
				"status":        "Maintenance",
			},
		},
		{
			name:     "fields without a db tag are skipped",
			data:     roomPatch{Image: "room/204.png"},
			expected: map[string]any{},
		},
		{
			name:     "empty patch only stamps metadata",
			data:     roomPatch{},
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.TransformFields(tt.data, "staff-1")

			assert.Equal(t, "staff-1", result[constant.FieldModifiedBy])
			assert.IsType(t, time.Time{}, result[constant.FieldModifiedAt])

			delete(result, constant.FieldModifiedAt)
			delete(result, constant.FieldModifiedBy)

			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("booking-1", "id", "bookings")

	require.Len(t, result.Filters, 1)
	assert.Equal(t, dto.Filter{
		Field:    "id",
		Value:    "booking-1",
		Operator: dto.FilterOperatorEq,
		Table:    "bookings",
	}, result.Filters[0])
}

func TestFilterByIDs(t *testing.T) {
	result := shared.FilterByIDs([]string{"menu-1", "menu-2"}, "id", "menu_items")

	require.Len(t, result.Filters, 1)
	assert.Equal(t, dto.Filter{
		Field:    "id",
		Value:    []string{"menu-1", "menu-2"},
		Operator: dto.FilterOperatorIn,
		Table:    "menu_items",
	}, result.Filters[0])
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "invoice:get", shared.BuildCacheKey("invoice:get"))
	assert.Equal(t, "invoice:get:inv-1", shared.BuildCacheKey("invoice:get", "inv-1"))
	assert.Equal(t, "limiter:10.0.0.1:curl", shared.BuildCacheKey("limiter", "10.0.0.1", "curl"))
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := mocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "room:get:r-1*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "room:get:r-1")

	// errors are swallowed
	mockCache.EXPECT().Clear(gomock.Any(), "room:get*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "room:get")
}

func TestPqErrorCode(t *testing.T) {
	unique := &pq.Error{Code: constant.PqErrorCodeUniqueViolation}

	assert.Equal(t, constant.PqErrorCodeUniqueViolation, shared.PqErrorCode(unique))
	assert.Equal(t, constant.PqErrorCodeUniqueViolation, shared.PqErrorCode(fmt.Errorf("insert: %w", unique)))
	assert.Empty(t, shared.PqErrorCode(errors.New("plain")))
	assert.Empty(t, shared.PqErrorCode(nil))
}
