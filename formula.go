package formula

import (
	"encoding/json"
	"fmt"
)

// Request is the input to Validate.
type Request struct {
	Formula   string   `json:"formula" yaml:"formula"`
	Variables []Symbol `json:"variables,omitempty" yaml:"variables,omitempty"`
	Constants []Symbol `json:"constants,omitempty" yaml:"constants,omitempty"`
}

// Outcome is the result of Validate. Exactly one of Err and the pair
// (EvaluatedFormula, Result) is meaningful, according to Valid.
type Outcome struct {
	Valid bool
	// EvaluatedFormula is the formula with every symbol replaced by its value.
	EvaluatedFormula string
	// Result is the value of the formula. It is always finite.
	Result float64
	// Err is the reason the formula was rejected.
	Err *Error
}

// Validate checks a formula and evaluates it. Every input, however malformed,
// produces an Outcome; Validate never panics. It has no state and is safe for
// concurrent use.
func Validate(req Request) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = invalid(errNoPos(Internal, fmt.Sprint("internal error: ", r)))
		}
	}()
	vars, err := NewTable(Variables, req.Variables)
	if err != nil {
		return invalid(err)
	}
	consts, err := NewTable(Constants, req.Constants)
	if err != nil {
		return invalid(err)
	}
	toks := Tokenize(req.Formula)
	if err := Check(toks, vars, consts); err != nil {
		return invalid(err)
	}
	text, err := Substitute(req.Formula, toks, vars, consts)
	if err != nil {
		return invalid(err)
	}
	r, err := Evaluate(text)
	if err != nil {
		return invalid(err)
	}
	return Outcome{Valid: true, EvaluatedFormula: text, Result: r}
}

func invalid(err *Error) Outcome {
	return Outcome{Err: err}
}

// wireOutcome is the serialized form of an Outcome.
type wireOutcome struct {
	IsValid          bool       `json:"isValid"`
	EvaluatedFormula *string    `json:"evaluatedFormula,omitempty"`
	Result           *float64   `json:"result,omitempty"`
	ErrorKind        *ErrorKind `json:"errorKind,omitempty"`
	Message          *string    `json:"message,omitempty"`
	Suggestion       *string    `json:"suggestion,omitempty"`
}

// MarshalJSON encodes a valid outcome as
// {"isValid":true,"evaluatedFormula":...,"result":...} and an invalid one as
// {"isValid":false,"errorKind":...,"message":...} with "suggestion" present
// only when there is one.
func (o Outcome) MarshalJSON() ([]byte, error) {
	var w wireOutcome
	if o.Valid {
		w.IsValid = true
		w.EvaluatedFormula = &o.EvaluatedFormula
		w.Result = &o.Result
		return json.Marshal(w)
	}
	if o.Err == nil {
		return nil, fmt.Errorf("formula: invalid outcome has no error")
	}
	w.ErrorKind = &o.Err.Kind
	w.Message = &o.Err.Message
	if o.Err.Suggestion != "" {
		w.Suggestion = &o.Err.Suggestion
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (o *Outcome) UnmarshalJSON(b []byte) error {
	var w wireOutcome
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*o = Outcome{Valid: w.IsValid}
	if w.IsValid {
		if w.EvaluatedFormula == nil || w.Result == nil {
			return fmt.Errorf("formula: valid outcome missing evaluatedFormula or result")
		}
		o.EvaluatedFormula = *w.EvaluatedFormula
		o.Result = *w.Result
		return nil
	}
	if w.ErrorKind == nil {
		return fmt.Errorf("formula: invalid outcome missing errorKind")
	}
	o.Err = &Error{Kind: *w.ErrorKind}
	if w.Message != nil {
		o.Err.Message = *w.Message
	}
	if w.Suggestion != nil {
		o.Err.Suggestion = *w.Suggestion
	}
	return nil
}
