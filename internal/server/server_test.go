package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/iwvelando/ratewise/internal/calculator"
	"github.com/iwvelando/ratewise/internal/catalog"
	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/loans"
	"github.com/iwvelando/ratewise/pkg/salary"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, maxBodySize int64) http.Handler {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	service, err := calculator.NewService(cat)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return NewHandler(service, zap.NewNop(), maxBodySize, "1.2.3")
}

func performJSON(t *testing.T, handler http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected error message, got %s", rr.Body.String())
	}
	return resp["error"]
}

func TestHandleVAT(t *testing.T) {
	handler := newTestHandler(t, 0)

	rr := performJSON(t, handler, http.MethodPost, "/api/vat", map[string]interface{}{
		"amount":      100,
		"countryCode": "IE",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %s", ct)
	}

	var resp calculator.VATResult
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.VATAmount != 23 || resp.GrossAmount != 123 || resp.Rate != 23 {
		t.Fatalf("unexpected VAT result %+v", resp)
	}
	if resp.CountryName != "Ireland" {
		t.Fatalf("expected Ireland, got %q", resp.CountryName)
	}
}

func TestHandleCalculatorErrors(t *testing.T) {
	handler := newTestHandler(t, 0)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"malformed JSON", "/api/vat", `{"amount":`, http.StatusBadRequest},
		{"unknown field", "/api/vat", `{"amount":100,"rate":20,"currency":"EUR"}`, http.StatusBadRequest},
		{"validation error", "/api/vat", `{"amount":-1,"rate":20}`, http.StatusBadRequest},
		{"unknown country", "/api/vat", `{"amount":100,"countryCode":"US"}`, http.StatusNotFound},
		{"unknown state", "/api/sales-tax", `{"amount":100,"stateCode":"ZZ"}`, http.StatusNotFound},
		{"bad frequency", "/api/compound-interest", `{"principal":1000,"annualRate":5,"years":1,"compoundingFrequency":"hourly"}`, http.StatusBadRequest},
		{"loan term too long", "/api/loan", `{"principal":1000,"annualRate":5,"termYears":101}`, http.StatusBadRequest},
		{"hours above weekly limit", "/api/hourly", `{"hourlyRate":20,"hoursPerWeek":169,"weeksPerYear":52}`, http.StatusBadRequest},
		{"bad pay frequency", "/api/salary", `{"grossAnnual":50000,"countryCode":"US","payFrequency":"daily"}`, http.StatusBadRequest},
		{"compound overflow", "/api/compound-interest", `{"principal":1000,"annualRate":1e6,"years":100}`, http.StatusBadRequest},
		{"fire overflow", "/api/fire", `{"annualExpenses":40000,"safeWithdrawalRate":4,"currentSavings":1000,"expectedReturnRate":1e10}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
			decodeError(t, rr)
		})
	}
}

func TestWriteJSONEncodingFailure(t *testing.T) {
	h := &handler{logger: zap.NewNop()}
	rr := httptest.NewRecorder()

	h.writeJSON(rr, http.StatusOK, map[string]float64{"balance": math.Inf(1)})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); msg != "failed to encode response" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestHandleMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t, 0)

	rr := performJSON(t, handler, http.MethodGet, "/api/vat", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleBodyTooLarge(t *testing.T) {
	handler := newTestHandler(t, 16)

	rr := performJSON(t, handler, http.MethodPost, "/api/vat", map[string]interface{}{
		"amount":      100,
		"countryCode": "DE",
		"inclusive":   true,
	})
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
	decodeError(t, rr)
}

func TestHandleSalary(t *testing.T) {
	handler := newTestHandler(t, 0)

	rr := performJSON(t, handler, http.MethodPost, "/api/salary", salary.Input{
		GrossAnnual:  100000,
		CountryCode:  "US",
		PayFrequency: salary.PayMonthly,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp salary.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Currency != "USD" {
		t.Fatalf("expected USD, got %s", resp.Currency)
	}
	if len(resp.Breakdown) == 0 || resp.Breakdown[len(resp.Breakdown)-1].Label != salary.LabelNetTakeHome {
		t.Fatalf("expected breakdown ending with net take-home, got %+v", resp.Breakdown)
	}
}

func TestHandleLoan(t *testing.T) {
	handler := newTestHandler(t, constants.DefaultMaxBodySizeBytes)

	rr := performJSON(t, handler, http.MethodPost, "/api/loan", loans.Input{Principal: 300000, AnnualRate: 6, TermYears: 30})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp loans.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if math.Abs(resp.MonthlyPayment-1798.65) > 0.01 {
		t.Fatalf("expected monthly payment 1798.65, got %.2f", resp.MonthlyPayment)
	}
	if len(resp.Schedule) != 360 {
		t.Fatalf("expected 360 rows, got %d", len(resp.Schedule))
	}
}

func TestHandleHourlyOvertimeMultiplier(t *testing.T) {
	handler := newTestHandler(t, 0)

	tests := []struct {
		name     string
		body     string
		overtime float64
	}{
		{"omitted multiplier", `{"hourlyRate":20,"hoursPerWeek":40,"weeksPerYear":50,"overtimeHours":5}`, 7500},
		{"unpaid overtime", `{"hourlyRate":20,"hoursPerWeek":40,"weeksPerYear":50,"overtimeHours":5,"overtimeMultiplier":0}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/hourly", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}

			var resp map[string]float64
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp["overtimePay"] != tt.overtime {
				t.Fatalf("overtimePay = %v, expected %v", resp["overtimePay"], tt.overtime)
			}
		})
	}
}

func TestHandleSalaryToHourlyDefaults(t *testing.T) {
	handler := newTestHandler(t, 0)

	rr := performJSON(t, handler, http.MethodPost, "/api/salary-to-hourly", map[string]interface{}{"annualSalary": 75000})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]float64
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["hourlyRate"] != 36.06 || resp["hoursPerWeek"] != 40 || resp["weeksPerYear"] != 52 {
		t.Fatalf("unexpected conversion %+v", resp)
	}
}

func TestHandleRates(t *testing.T) {
	handler := newTestHandler(t, 0)

	t.Run("vat list", func(t *testing.T) {
		rr := performJSON(t, handler, http.MethodGet, "/api/rates/vat", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var rates []catalog.VATRate
		if err := json.Unmarshal(rr.Body.Bytes(), &rates); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(rates) != 27 || rates[0].CountryName != "Austria" {
			t.Fatalf("unexpected VAT rates: %d entries, first %q", len(rates), rates[0].CountryName)
		}
	})

	t.Run("sales tax by code", func(t *testing.T) {
		rr := performJSON(t, handler, http.MethodGet, "/api/rates/sales-tax/tx", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var rate catalog.SalesTaxRate
		if err := json.Unmarshal(rr.Body.Bytes(), &rate); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if rate.StateName != "Texas" || rate.CombinedRate != 8.19 {
			t.Fatalf("unexpected sales tax rate %+v", rate)
		}
	})

	t.Run("salary jurisdiction serializes unbounded bracket as null", func(t *testing.T) {
		rr := performJSON(t, handler, http.MethodGet, "/api/rates/salary/uk", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"max":null`) {
			t.Fatalf("expected null max in %s", rr.Body.String())
		}
		var j catalog.SalaryJurisdiction
		if err := json.Unmarshal(rr.Body.Bytes(), &j); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		last := j.Brackets[len(j.Brackets)-1]
		if j.CountryCode != "GB" || !last.Unbounded() {
			t.Fatalf("unexpected jurisdiction %+v", j)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		rr := performJSON(t, handler, http.MethodGet, "/api/rates/vat/XX", nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rr.Code)
		}
		decodeError(t, rr)
	})
}

func TestHandleVersionAndHealth(t *testing.T) {
	handler := newTestHandler(t, 0)

	rr := performJSON(t, handler, http.MethodGet, "/api/version", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "1.2.3" {
		t.Fatalf("expected version 1.2.3, got %q", resp["version"])
	}

	rr = performJSON(t, handler, http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	handler := newTestHandler(t, 0)

	rr := performJSON(t, handler, http.MethodGet, "/healthz", nil)
	generated := rr.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(generated); err != nil {
		t.Fatalf("expected generated uuid request id, got %q", generated)
	}

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got != incoming {
		t.Fatalf("expected incoming request id %q to be echoed, got %q", incoming, got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got == "not a uuid" {
		t.Fatal("expected malformed request id to be replaced")
	}
}

func TestNewHandlerDefaultVersion(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	service, err := calculator.NewService(cat)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	handler := NewHandler(service, nil, 0, "  ")

	rr := performJSON(t, handler, http.MethodGet, "/api/version", nil)
	if !strings.Contains(rr.Body.String(), `"dev"`) {
		t.Fatalf("expected dev version, got %s", rr.Body.String())
	}
}
