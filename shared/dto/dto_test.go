package dto_test

import (
	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	// Create test time values
	createdAt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC)

	modelMetadata := model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	}

	metadata := &dto.Metadata{}
	metadata.FromModel(modelMetadata)

	expectedCreatedAt := createdAt.Format(constant.DateFormat)
	expectedModifiedAt := modifiedAt.Format(constant.DateFormat)

	if metadata.CreatedAt != expectedCreatedAt {
		t.Errorf("expected CreatedAt to be %s, got %s", expectedCreatedAt, metadata.CreatedAt)
	}

	if metadata.ModifiedAt != expectedModifiedAt {
		t.Errorf("expected ModifiedAt to be %s, got %s", expectedModifiedAt, metadata.ModifiedAt)
	}

	if metadata.CreatedBy != "creator" {
		t.Errorf("expected CreatedBy to be 'creator', got %s", metadata.CreatedBy)
	}

	if metadata.ModifiedBy != "modifier" {
		t.Errorf("expected ModifiedBy to be 'modifier', got %s", metadata.ModifiedBy)
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   dto.Filter
		expected string
		args     map[string]any
	}{
		{
			name:     "eq with table",
			filter:   dto.Filter{Field: "room_id", Value: "r-1", Operator: dto.FilterOperatorEq, Table: "bookings"},
			expected: "bookings.room_id = :room_id",
			args:     map[string]any{"room_id": "r-1"},
		},
		{
			name:     "less with arg name",
			filter:   dto.Filter{ArgName: "stay_end", Field: "check_in", Value: now, Operator: dto.FilterOperatorLess},
			expected: "check_in < :stay_end",
			args:     map[string]any{"stay_end": now},
		},
		{
			name:     "greater",
			filter:   dto.Filter{Field: "check_out", Value: now, Operator: dto.FilterOperatorGreater},
			expected: "check_out > :check_out",
			args:     map[string]any{"check_out": now},
		},
		{
			name:     "in with slice",
			filter:   dto.Filter{Field: "status", Value: []string{"Pending", "Confirmed"}, Operator: dto.FilterOperatorIn},
			expected: "status IN (:status_0, :status_1) ",
			args:     map[string]any{"status_0": "Pending", "status_1": "Confirmed"},
		},
		{
			name:     "not eq",
			filter:   dto.Filter{Field: "id", Value: "b-1", Operator: dto.FilterOperatorNotEq},
			expected: "id != :id",
			args:     map[string]any{"id": "b-1"},
		},
		{
			name:     "unknown operator",
			filter:   dto.Filter{Field: "id", Value: "b-1", Operator: "between"},
			expected: "",
			args:     map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.expected, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Value: "r-1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", Value: "Pending", Operator: dto.FilterOperatorEq},
					dto.Filter{ArgName: "status_confirmed", Field: "status", Value: "Confirmed", Operator: dto.FilterOperatorEq},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_id = :room_id AND (status = :status OR status = :status_confirmed))", where)
	assert.Equal(t, map[string]any{"room_id": "r-1", "status": "Pending", "status_confirmed": "Confirmed"}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestSortedBy(t *testing.T) {
	params := dto.SortedBy("position", dto.SortDirAsc)

	assert.Equal(t, "position", params.SortBy)
	assert.Equal(t, dto.SortDirAsc, params.SortDir)
	assert.Zero(t, params.Limit)
}
