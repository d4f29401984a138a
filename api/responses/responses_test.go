package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestWriteSuccessWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusCreated, map[string]string{"order_number": "ORD-0A1B2C3D"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"order_number":"ORD-0A1B2C3D"}}`, rec.Body.String())
}

func TestWriteErrorPublicShape(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		status      int
		message     string
		wantDetails bool
	}{
		{
			name:        "validation exposes message and details",
			err:         pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").WithDetails(map[string]string{"quantity": "min"}),
			status:      http.StatusBadRequest,
			message:     "quantity must be positive",
			wantDetails: true,
		},
		{
			name:    "empty cart",
			err:     pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty"),
			status:  http.StatusUnprocessableEntity,
			message: "cart is empty",
		},
		{
			name:    "persistence hides cause",
			err:     pkgerrors.Wrap(pkgerrors.CodePersistence, errors.New("pq: relation orders does not exist"), "persist order"),
			status:  http.StatusInternalServerError,
			message: "order could not be saved",
		},
		{
			name:    "untyped error becomes internal",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tc.message, body.Message)
			assert.Equal(t, tc.wantDetails, body.Details != nil)
		})
	}
}

func TestWriteErrorLogsCauseServerSide(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	rec := httptest.NewRecorder()

	WriteError(context.Background(), logg, rec, pkgerrors.Wrap(pkgerrors.CodePersistence, errors.New("pq: relation orders does not exist"), "persist order"))

	assert.NotContains(t, rec.Body.String(), "relation orders")
	assert.Contains(t, buf.String(), "relation orders")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestWriteErrorClientErrorsLogAtWarn(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	WriteError(context.Background(), logg, httptest.NewRecorder(), pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"error_code":"NOT_FOUND"`)
}

func TestWriteNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteNoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestWriteErrorQuotesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-Id", "req-42")
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))

	body := decodeError(t, rec)
	assert.Equal(t, "req-42", body.RequestID)

	rec = httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
	assert.NotContains(t, rec.Body.String(), "request_id")
}
