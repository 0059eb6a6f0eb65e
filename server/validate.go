package server

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/conformance"
)

// TooLargeError is returned for a formula longer than the configured limit.
type TooLargeError struct {
	Len, Max int
}

func (err *TooLargeError) Error() string {
	return fmt.Sprintf("formula is %d bytes, limit is %d", err.Len, err.Max)
}

// validate runs one validation with tracing, metrics, and logging. The error
// is non-nil only when the request was refused before validation.
func (s *Server) validate(ctx context.Context, req formula.Request) (formula.Outcome, error) {
	_, span := s.tracer.Start(ctx, "formula.Validate", trace.WithAttributes(
		attribute.Int("formula.length", len(req.Formula)),
		attribute.Int("formula.variables", len(req.Variables)),
		attribute.Int("formula.constants", len(req.Constants)),
	))
	defer span.End()

	if len(req.Formula) > s.cfg.MaxFormulaBytes {
		err := &TooLargeError{Len: len(req.Formula), Max: s.cfg.MaxFormulaBytes}
		s.metrics.RecordRejected()
		span.SetStatus(codes.Error, err.Error())
		return formula.Outcome{}, err
	}

	out := formula.Validate(req)
	kind := "valid"
	if !out.Valid {
		kind = out.Err.Kind.String()
	}
	s.metrics.RecordValidation(kind)
	span.SetAttributes(
		attribute.Bool("formula.valid", out.Valid),
		attribute.String("formula.outcome", kind),
	)
	if out.Valid || out.Err.Kind != formula.Internal {
		s.logger.Debug().Int("len", len(req.Formula)).Str("outcome", kind).Msg("validated")
	} else {
		span.SetStatus(codes.Error, out.Err.Message)
		s.logger.Error().Str("formula", req.Formula).Str("message", out.Err.Message).Msg("internal validation error")
	}
	return out, nil
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req formula.Request
	if !s.decodeBody(w, r, &req) {
		return
	}
	out, err := s.validate(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Grammar describes the formula language so that clients can offer
// completion and highlighting that agree with the validator.
type Grammar struct {
	Rules     []formula.ErrorKind `json:"rules"`
	Functions []formula.Signature `json:"functions"`
	Operators string              `json:"operators"`
	Sigils    map[string]string   `json:"sigils"`
	MaxDepth  int                 `json:"maxDepth"`
}

// CurrentGrammar returns the grammar of this build.
func CurrentGrammar() Grammar {
	return Grammar{
		Rules:     formula.Rules(),
		Functions: formula.Functions(),
		Operators: formula.Operators,
		Sigils: map[string]string{
			formula.Variables.String(): string(formula.Variables.Sigil()),
			formula.Constants.String(): string(formula.Constants.Sigil()),
		},
		MaxDepth: formula.MaxDepth,
	}
}

func (s *Server) handleGrammar(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CurrentGrammar())
}

func (s *Server) handleConformance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, conformance.Vectors())
}
