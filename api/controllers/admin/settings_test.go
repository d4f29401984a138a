package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySettings map[string]string

func (m memorySettings) All(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

func (m memorySettings) Set(ctx context.Context, key, value string) error {
	m[key] = value
	return nil
}

func TestPutSetting(t *testing.T) {
	store := memorySettings{}
	handler := PutSetting(store, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/settings/whatsapp_number", strings.NewReader(`{"value":"254700000000"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withParam(req, "key", "whatsapp_number"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "254700000000", store["whatsapp_number"])
	assert.Contains(t, rec.Body.String(), `"whatsapp_number":"254700000000"`)
}
