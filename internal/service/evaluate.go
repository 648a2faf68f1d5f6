package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/internal/observability"
	"github.com/zephyrtronium/formula/internal/render"
)

// Request is the body of POST /evaluate.
type Request struct {
	Formula *string `json:"formula"`
	// Variables is accepted for compatibility and ignored.
	Variables json.RawMessage `json:"variables,omitempty"`
	// Precision, if nonzero, evaluates with arbitrary precision at that many
	// bits.
	Precision uint `json:"precision,omitempty"`
	// Round, if present, rounds the result to that many decimal places.
	Round *int32 `json:"round,omitempty"`
}

// Response is the body of every /evaluate response.
type Response struct {
	Success bool `json:"success"`
	// Result is omitted on failure and when the result is not finite.
	Result *float64 `json:"result,omitempty"`
	Text   string   `json:"text,omitempty"`
	Error  string   `json:"error,omitempty"`
}

func (s *Service) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeResponse(w, http.StatusMethodNotAllowed, &Response{Error: "method not allowed"})
		return
	}
	ctx := r.Context()
	logger := s.cfg.Logger.With(slog.String(observability.LogFieldRequestID, RequestID(ctx)))

	var req Request
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			status = http.StatusRequestEntityTooLarge
		}
		err = fmt.Errorf("invalid request body: %w", err)
		logger.LogAttrs(ctx, slog.LevelWarn, "rejected request", slog.Int(observability.LogFieldStatus, status), slog.Any(observability.LogFieldError, err))
		writeResponse(w, status, &Response{Error: err.Error()})
		return
	}
	if err := s.validate(&req); err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "rejected request", slog.Int(observability.LogFieldStatus, http.StatusBadRequest), slog.Any(observability.LogFieldError, err))
		writeResponse(w, http.StatusBadRequest, &Response{Error: err.Error()})
		return
	}
	src := *req.Formula
	logger = logger.With(slog.String(observability.LogFieldFormulaHash, observability.FormulaHash(src)))
	if len(req.Variables) > 0 && string(req.Variables) != "null" {
		logger.LogAttrs(ctx, slog.LevelDebug, "ignoring variables")
	}

	tracer := s.obs.Tracer()
	ctx, span := tracer.StartEvaluate(ctx, src, req.Precision)
	defer span.End()
	logger = observability.LoggerWithTrace(ctx, logger)

	start := time.Now()
	resp, err := s.evaluate(ctx, src, &req)
	took := time.Since(start)
	kind := errorType(err)
	s.obs.Metrics().RecordEvaluation(ctx, took, req.Precision > 0, kind)
	dur := slog.Float64(observability.LogFieldDuration, float64(took.Microseconds())/1000)
	if err != nil {
		tracer.RecordError(span, err, kind)
		logger.LogAttrs(ctx, slog.LevelWarn, "evaluation failed", dur, slog.Any(observability.LogFieldError, err))
		writeResponse(w, http.StatusBadRequest, &Response{Error: err.Error()})
		return
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "evaluated", dur)
	writeResponse(w, http.StatusOK, resp)
}

// validate checks a request before anything is parsed.
func (s *Service) validate(req *Request) error {
	switch {
	case req.Formula == nil:
		return errors.New("missing formula")
	case len(*req.Formula) > s.cfg.MaxFormulaLength:
		return fmt.Errorf("formula longer than %d bytes", s.cfg.MaxFormulaLength)
	case s.allow != nil && !s.allow.MatchString(*req.Formula):
		return errors.New("formula contains invalid characters")
	case req.Precision > s.cfg.MaxPrecision:
		return fmt.Errorf("precision must be at most %d", s.cfg.MaxPrecision)
	case req.Round != nil && (*req.Round < 0 || *req.Round > s.cfg.MaxRound):
		return fmt.Errorf("round must be between 0 and %d", s.cfg.MaxRound)
	}
	return nil
}

// evaluate parses and evaluates src, timing each stage.
func (s *Service) evaluate(ctx context.Context, src string, req *Request) (*Response, error) {
	timing := observability.StartServerTiming(ctx, "parse", "")
	e, err := formula.ParseString(src)
	timing.Stop()
	if err != nil {
		return nil, err
	}

	timing = observability.StartServerTiming(ctx, "eval", "")
	defer timing.Stop()
	if req.Precision > 0 {
		v, err := formula.NewEvaluator(formula.Prec(req.Precision)).EvalBig(e)
		if err != nil {
			return nil, err
		}
		f, _ := v.Float64()
		resp := &Response{Success: true, Text: render.Big(v)}
		if req.Round != nil {
			f = render.Round(f, *req.Round)
			resp.Text = render.FixedBig(v, *req.Round)
		}
		if !math.IsInf(f, 0) {
			resp.Result = &f
		}
		return resp, nil
	}

	v, err := s.eval.Eval(e)
	if err != nil {
		return nil, err
	}
	resp := &Response{Success: true}
	if req.Round != nil {
		v = render.Round(v, *req.Round)
		resp.Text = render.Fixed(v, *req.Round)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		resp.Text = render.Fixed(v, 0)
		return resp, nil
	}
	resp.Result = &v
	return resp, nil
}

// errorType names the kind of an evaluation error for metrics and spans.
func errorType(err error) string {
	if err == nil {
		return ""
	}
	var (
		unknownChar *formula.UnknownCharacterError
		literal     *formula.NumericLiteralError
		unexpected  *formula.UnexpectedTokenError
		factor      *formula.InvalidFactorError
		divZero     *formula.DivisionByZeroError
		unknownFunc *formula.UnknownFunctionError
		domain      *formula.DomainError
	)
	switch {
	case errors.As(err, &unknownChar):
		return "unknown_character"
	case errors.As(err, &literal):
		return "numeric_literal"
	case errors.As(err, &unexpected):
		return "unexpected_token"
	case errors.As(err, &factor):
		return "invalid_factor"
	case errors.As(err, &divZero):
		return "division_by_zero"
	case errors.As(err, &unknownFunc):
		return "unknown_function"
	case errors.As(err, &domain):
		return "domain"
	}
	return "internal"
}

func writeResponse(w http.ResponseWriter, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		slog.Default().Error("writing response", slog.Any(observability.LogFieldError, err))
	}
}
