package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/ratewise/internal/calculator"
	"github.com/iwvelando/ratewise/internal/catalog"
	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/validation"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

type handler struct {
	service     *calculator.Service
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(service *calculator.Service, logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{service: service, logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Calculators
	mux.HandleFunc("POST /api/vat", calculate(h, "server.handleVAT", service.VAT))
	mux.HandleFunc("POST /api/sales-tax", calculate(h, "server.handleSalesTax", service.SalesTax))
	mux.HandleFunc("POST /api/salary", calculate(h, "server.handleSalary", service.Salary))
	mux.HandleFunc("POST /api/hourly", calculate(h, "server.handleHourly", service.Hourly))
	mux.HandleFunc("POST /api/salary-to-hourly", calculate(h, "server.handleSalaryToHourly", service.SalaryToHourly))
	mux.HandleFunc("POST /api/compound-interest", calculate(h, "server.handleCompoundInterest", service.CompoundInterest))
	mux.HandleFunc("POST /api/loan", calculate(h, "server.handleLoan", service.Loan))
	mux.HandleFunc("POST /api/fire", calculate(h, "server.handleFire", service.Fire))

	// Rate catalog
	mux.HandleFunc("GET /api/rates/vat", h.handleVATRates)
	mux.HandleFunc("GET /api/rates/vat/{code}", h.handleVATRate)
	mux.HandleFunc("GET /api/rates/sales-tax", h.handleSalesTaxRates)
	mux.HandleFunc("GET /api/rates/sales-tax/{code}", h.handleSalesTaxRate)
	mux.HandleFunc("GET /api/rates/salary", h.handleJurisdictions)
	mux.HandleFunc("GET /api/rates/salary/{code}", h.handleJurisdiction)

	// Metadata
	mux.HandleFunc("GET /api/version", h.handleVersion)
	mux.HandleFunc("GET /healthz", h.handleHealth)

	return h.withRequestID(mux)
}

// Run serves handler on cfg.Address until ctx is cancelled, then shuts the
// server down gracefully.
func Run(ctx context.Context, cfg *Config, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "server.Run"),
			zap.String("address", cfg.Address),
			zap.Int64("max_body_size", cfg.BodySizeBytes()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server", zap.String("op", "server.Run"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

// calculate adapts a service operation into a JSON POST handler.
func calculate[Req, Res any](h *handler, op string, run func(context.Context, Req) (Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

		var req Req
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
				return
			}
			h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
			return
		}

		result, err := run(r.Context(), req)
		if err != nil {
			h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
			return
		}

		h.logger.Debug("calculation served",
			zap.String("op", op),
			zap.String("request_id", requestID(r.Context())),
			zap.Duration("duration", time.Since(start)),
		)
		h.writeJSON(w, http.StatusOK, result)
	}
}

// statusFor maps a calculation error to an HTTP status.
func statusFor(err error) int {
	switch {
	case validation.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) handleVATRates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Catalog().VATRates())
}

func (h *handler) handleVATRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.service.Catalog().VATRate(r.PathValue("code"))
	if err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), "server.handleVATRate")
		return
	}
	h.writeJSON(w, http.StatusOK, rate)
}

func (h *handler) handleSalesTaxRates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Catalog().SalesTaxRates())
}

func (h *handler) handleSalesTaxRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.service.Catalog().SalesTaxRate(r.PathValue("code"))
	if err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), "server.handleSalesTaxRate")
		return
	}
	h.writeJSON(w, http.StatusOK, rate)
}

func (h *handler) handleJurisdictions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Catalog().Jurisdictions())
}

func (h *handler) handleJurisdiction(w http.ResponseWriter, r *http.Request) {
	j, err := h.service.Catalog().Jurisdiction(r.PathValue("code"))
	if err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), "server.handleJurisdiction")
		return
	}
	h.writeJSON(w, http.StatusOK, j)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withRequestID tags every request with an id, reusing a well-formed
// incoming X-Request-ID.
func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("request_id", requestID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Info("request rejected", fields...)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before the header is written so an encoding
// failure can still be reported as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
