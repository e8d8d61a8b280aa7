package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/transport/http/response"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error   string         `json:"error"`
	Kind    failure.Kind   `json:"kind"`
	Fields  []string       `json:"fields"`
	Details map[string]any `json:"details"`
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	t.Run("conflict keeps its details", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		err := failure.ConflictWithDetails("booking already has an invoice", map[string]any{"invoice_id": "invoice-1"})
		response.WithError(recorder, fmt.Errorf("failed to delete booking: %w", err))

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, constant.ContentTypeJSON, recorder.Header().Get(constant.RequestHeaderContentType))

		body := decode(t, recorder)
		assert.Equal(t, failure.KindConflict, body.Kind)
		assert.Equal(t, "invoice-1", body.Details["invoice_id"])
	})

	t.Run("validation lists the offending fields", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		response.WithError(recorder, failure.Validation("daily rate too low", "daily_rate", "hourly_rate"))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		body := decode(t, recorder)
		assert.Equal(t, failure.KindValidation, body.Kind)
		assert.Equal(t, []string{"daily_rate", "hourly_rate"}, body.Fields)
	})

	t.Run("unknown errors are hidden behind a generic message", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		response.WithError(recorder, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)

		body := decode(t, recorder)
		assert.Equal(t, failure.KindInternal, body.Kind)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), body.Error)
		assert.NotContains(t, recorder.Body.String(), "connection refused")
	})
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusCreated, map[string]string{"id": "room-1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":"room-1"}}`, recorder.Body.String())
}

func TestHealthResponses(t *testing.T) {
	recorder := httptest.NewRecorder()
	response.WithPreparingShutdown(recorder)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	recorder = httptest.NewRecorder()
	response.WithRequestLimitExceeded(recorder)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
}
