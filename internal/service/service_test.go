package service

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/zephyrtronium/formula/internal/observability"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	s, err := New(opts...)
	require.NoError(t, err)
	return s
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return rec, resp
}

func TestEvaluateSuccess(t *testing.T) {
	s := newTestService(t)
	tests := []struct {
		name    string
		formula string
		want    float64
	}{
		{"precedence", "2+3*4", 14},
		{"brackets", "(2+3)*4", 20},
		{"negation", "-2*-3", 6},
		{"functions", "sqrt(16) + pow(3)", 13},
		{"trailing", "2+2 extra", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(map[string]string{"formula": tt.formula})
			require.NoError(t, err)
			rec, resp := post(t, s, string(body))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.True(t, resp.Success)
			require.NotNil(t, resp.Result)
			assert.Equal(t, tt.want, *resp.Result)
			assert.Empty(t, resp.Error)
		})
	}
}

func TestEvaluateFailure(t *testing.T) {
	s := newTestService(t)
	tests := []struct {
		name    string
		formula string
		want    string
	}{
		{"division", "5/0", "division by zero"},
		{"division-expr", "5/(2-2)", "division by zero"},
		{"unknown-function", "foo(1)", "unknown function"},
		{"empty", "", "invalid factor"},
		{"bare-ident", "x", "expected LParen"},
		{"literal", "1.2.3", "1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(map[string]string{"formula": tt.formula})
			require.NoError(t, err)
			rec, resp := post(t, s, string(body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			assert.Nil(t, resp.Result)
			assert.Contains(t, resp.Error, tt.want)
		})
	}
}

func TestEvaluateEnvelope(t *testing.T) {
	s := newTestService(t)
	rec, _ := post(t, s, `{"formula":"1+1"}`)
	assert.JSONEq(t, `{"success":true,"result":2}`, rec.Body.String())

	rec, _ = post(t, s, `{"formula":"5/0"}`)
	assert.JSONEq(t, `{"success":false,"error":"2: division by zero"}`, rec.Body.String())
}

func TestAllowList(t *testing.T) {
	s := newTestService(t)
	rec, resp := post(t, s, `{"formula":"2+&3"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "formula contains invalid characters", resp.Error)

	s = newTestService(t, WithAllowPattern(""))
	rec, resp = post(t, s, `{"formula":"2+&3"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error, "unknown character")

	s = newTestService(t, WithAllowPattern(`^[0-9+]*$`))
	rec, _ = post(t, s, `{"formula":"1+2"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = post(t, s, `{"formula":"1*2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBadAllowPattern(t *testing.T) {
	_, err := New(WithAllowPattern("("))
	assert.Error(t, err)
}

func TestVariablesIgnored(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := newTestService(t, WithLogger(logger))
	rec, resp := post(t, s, `{"formula":"1+1","variables":{"x":3}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 2.0, *resp.Result)
	assert.Contains(t, buf.String(), "ignoring variables")
}

func TestRequestValidation(t *testing.T) {
	s := newTestService(t, WithMaxFormulaLength(5))
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"formula":`, "invalid request body"},
		{"wrong-type", `{"formula":1}`, "invalid request body"},
		{"missing", `{}`, "missing formula"},
		{"too-long", `{"formula":"1+1+1+1"}`, "longer than 5 bytes"},
		{"precision", `{"formula":"1","precision":100000}`, "precision must be at most"},
		{"round-negative", `{"formula":"1","round":-1}`, "round must be between"},
		{"round-large", `{"formula":"1","round":31}`, "round must be between"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := post(t, s, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.want)
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	s := newTestService(t, WithMaxBodyBytes(16))
	rec, resp := post(t, s, `{"formula":"1+1+1+1+1+1+1+1"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, resp.Success)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestService(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/evaluate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestRound(t *testing.T) {
	s := newTestService(t)
	rec, resp := post(t, s, `{"formula":"2/3","round":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 0.67, *resp.Result)
	assert.Equal(t, "0.67", resp.Text)

	_, resp = post(t, s, `{"formula":"4","round":3}`)
	assert.Equal(t, "4.000", resp.Text)
}

func TestPrecision(t *testing.T) {
	s := newTestService(t)
	rec, resp := post(t, s, `{"formula":"1/3","precision":128}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Result)
	assert.InDelta(t, 1.0/3, *resp.Result, 1e-15)
	assert.True(t, strings.HasPrefix(resp.Text, "0."+strings.Repeat("3", 30)), resp.Text)

	_, resp = post(t, s, `{"formula":"1/3","precision":128,"round":5}`)
	assert.Equal(t, "0.33333", resp.Text)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 0.33333, *resp.Result)

	rec, resp = post(t, s, `{"formula":"sqrt(0-1)","precision":64}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error, "outside domain of sqrt")
}

func TestNaNResult(t *testing.T) {
	s := newTestService(t)
	rec, resp := post(t, s, `{"formula":"sqrt(0-1)"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Result)
	assert.Equal(t, "NaN", resp.Text)
}

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	s := newTestService(t, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	rec, _ := post(t, s, `{"formula":"1"}`)
	id := rec.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Contains(t, buf.String(), "request_id="+id)
	assert.Contains(t, buf.String(), "formula_hash="+observability.FormulaHash("1"))

	req := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(`{"formula":"1"}`))
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestServerTiming(t *testing.T) {
	s := newTestService(t)
	rec, _ := post(t, s, `{"formula":"1+1"}`)
	assert.Empty(t, rec.Header().Get(servertiming.HeaderKey))

	obs := observability.NewConfig(
		observability.WithTracerProvider(tracenoop.NewTracerProvider()),
		observability.WithMeterProvider(noop.NewMeterProvider()),
		observability.WithServerTiming(),
	)
	s = newTestService(t, WithObservability(obs))
	rec, _ = post(t, s, `{"formula":"1+1"}`)
	h := rec.Header().Get(servertiming.HeaderKey)
	assert.Contains(t, h, "parse")
	assert.Contains(t, h, "eval")

	rec, _ = post(t, s, `{"formula":"1+"}`)
	h = rec.Header().Get(servertiming.HeaderKey)
	assert.Contains(t, h, "parse")
	assert.NotContains(t, h, "eval")
}

func TestHealth(t *testing.T) {
	s := newTestService(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		formula string
		want    string
	}{
		{"1", ""},
		{"&", "unknown_character"},
		{"1.2.3", "numeric_literal"},
		{"(1", "unexpected_token"},
		{"*", "invalid_factor"},
		{"1/0", "division_by_zero"},
		{"foo(1)", "unknown_function"},
	}
	s := newTestService(t)
	for _, tt := range tests {
		_, err := s.evaluate(t.Context(), tt.formula, &Request{Formula: &tt.formula})
		assert.Equal(t, tt.want, errorType(err), tt.formula)
	}
}
