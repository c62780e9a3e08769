package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type validationEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			ValidationErrors []ValidationError `json:"validation_errors"`
		} `json:"details"`
		Timestamp string `json:"timestamp"`
	} `json:"error"`
}

func respondValidation(t *testing.T, err error) (*httptest.ResponseRecorder, validationEnvelope) {
	t.Helper()
	w := httptest.NewRecorder()
	RespondWithValidationErrors(w, FormatValidationErrors(err))

	var env validationEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func fieldNames(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidationEnvelopeReportsNestedFieldPaths(t *testing.T) {
	err := decodeMap(t, map[string]interface{}{
		"email": "",
		"items": []map[string]interface{}{
			{"id": 1, "quantity": 1, "price": 5},
			{"id": 2, "quantity": 0, "price": -1},
		},
	})
	require.Error(t, err)

	w, env := respondValidation(t, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "Bad Request", env.Error.Code)
	assert.Equal(t, "validation failed", env.Error.Message)
	assert.ElementsMatch(t,
		[]string{"email", "items[1].quantity", "items[1].price"},
		fieldNames(env.Error.Details.ValidationErrors),
	)

	_, parseErr := time.Parse(time.RFC3339, env.Error.Timestamp)
	assert.NoError(t, parseErr)
}

func TestValidationEnvelopeForMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	var tr testRequest
	err := DecodeAndValidate(req, &tr)
	require.Error(t, err)

	w, env := respondValidation(t, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.Error.Details.ValidationErrors, 1)
	assert.Equal(t, ValidationError{Field: "body", Message: "Invalid request body"}, env.Error.Details.ValidationErrors[0])
}

// Property: a bad quantity on any line is reported under that line's index
func TestProperty_LineErrorsCarryTheirIndex(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quantity errors name the offending line", prop.ForAll(
		func(lines, bad, quantity int) bool {
			bad %= lines
			items := make([]map[string]interface{}, lines)
			for i := range items {
				items[i] = map[string]interface{}{"id": i + 1, "quantity": 1, "price": "9.99"}
			}
			items[bad]["quantity"] = quantity

			err := decodeMap(t, map[string]interface{}{"email": "ada@example.com", "items": items})
			if err == nil {
				return false
			}

			_, env := respondValidation(t, err)
			got := fieldNames(env.Error.Details.ValidationErrors)
			return len(got) == 1 && got[0] == fmt.Sprintf("items[%d].quantity", bad)
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 100),
		gen.IntRange(-50, 0),
	))

	properties.TestingRun(t)
}

func TestPanicBecomesInternalServerError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	handler := ErrorHandlingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map write")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var env ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Internal Server Error", env.Error.Code)
	assert.Equal(t, "internal server error", env.Error.Message)
	assert.NotContains(t, w.Body.String(), "nil map write")

	entries := logs.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/orders", entries[0].ContextMap()["path"])
}

func TestAbortHandlerPanicPropagates(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	handler := ErrorHandlingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	w := httptest.NewRecorder()
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	})
	assert.Zero(t, logs.Len())
	assert.Empty(t, w.Body.String())
}
