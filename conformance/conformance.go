// Package conformance holds the outcome vectors that every formula validator
// must reproduce exactly, and a runner that checks a validator against them.
//
// The vectors are data, not code, so that independent implementations of the
// formula rules can consume the same file and agree by test rather than by
// promise.
package conformance

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/formula"
)

//go:embed vectors.yaml
var vectorsYAML []byte

// Expect is the expected outcome of a vector, in the same shape as the JSON
// wire form of a formula.Outcome.
type Expect struct {
	IsValid          bool     `yaml:"isValid" json:"isValid"`
	EvaluatedFormula string   `yaml:"evaluatedFormula,omitempty" json:"evaluatedFormula,omitempty"`
	Result           *float64 `yaml:"result,omitempty" json:"result,omitempty"`
	ErrorKind        string   `yaml:"errorKind,omitempty" json:"errorKind,omitempty"`
	Message          string   `yaml:"message,omitempty" json:"message,omitempty"`
	Suggestion       string   `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`
}

// Vector is one request and the outcome it must produce.
type Vector struct {
	Name    string          `yaml:"name" json:"name"`
	Request formula.Request `yaml:"request" json:"request"`
	Expect  Expect          `yaml:"expect" json:"expect"`
}

// Mismatch is a vector whose outcome differed from its expectation.
type Mismatch struct {
	Vector Vector `json:"vector"`
	// Got is the JSON wire form of the outcome that was produced.
	Got string `json:"got"`
	// Want is the JSON wire form of the expected outcome.
	Want string `json:"want"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %q: want %s, got %s", m.Vector.Name, m.Vector.Request.Formula, m.Want, m.Got)
}

// Vectors returns the built-in vectors.
func Vectors() []Vector {
	v, err := Parse(vectorsYAML)
	if err != nil {
		panic(fmt.Errorf("conformance: built-in vectors: %w", err))
	}
	return v
}

// Parse decodes vectors from YAML. Vector names must be unique and non-empty.
func Parse(b []byte) ([]Vector, error) {
	var v []Vector
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decoding vectors: %w", err)
	}
	seen := make(map[string]bool, len(v))
	for i, c := range v {
		if c.Name == "" {
			return nil, fmt.Errorf("vector %d has no name", i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate vector name %q", c.Name)
		}
		seen[c.Name] = true
		if err := c.Expect.check(); err != nil {
			return nil, fmt.Errorf("vector %q: %w", c.Name, err)
		}
	}
	return v, nil
}

// Load reads vectors from a YAML file. The name "-" reads standard input.
func Load(name string) ([]Vector, error) {
	var (
		b   []byte
		err error
	)
	if name == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func (e Expect) check() error {
	if e.IsValid {
		if e.Result == nil {
			return fmt.Errorf("valid expectation has no result")
		}
		if math.IsInf(*e.Result, 0) || math.IsNaN(*e.Result) {
			return fmt.Errorf("valid expectation has non-finite result")
		}
		if e.ErrorKind != "" || e.Message != "" || e.Suggestion != "" {
			return fmt.Errorf("valid expectation has error fields")
		}
		return nil
	}
	var k formula.ErrorKind
	if err := k.UnmarshalText([]byte(e.ErrorKind)); err != nil {
		return err
	}
	if e.Result != nil || e.EvaluatedFormula != "" {
		return fmt.Errorf("invalid expectation has result fields")
	}
	return nil
}

// JSON renders the expectation in the wire form of an outcome.
func (e Expect) JSON() string {
	b, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Run checks validate against every vector and returns the ones it fails.
// Outcomes are compared by their JSON wire form, so a mismatch in any field,
// including the message text, is a failure.
func Run(vectors []Vector, validate func(formula.Request) formula.Outcome) []Mismatch {
	var r []Mismatch
	for _, v := range vectors {
		want := v.Expect.JSON()
		b, err := json.Marshal(validate(v.Request))
		got := string(b)
		if err != nil {
			got = "error: " + err.Error()
		}
		if got != want {
			r = append(r, Mismatch{Vector: v, Got: got, Want: want})
		}
	}
	return r
}
