package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/conformance"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	var (
		inname, conform string
		vars, consts    []formula.Symbol
		p               printer
		repl            bool
	)
	flag.StringVar(&inname, "in", "", "input file with one formula per line (default stdin if no args given)")
	flag.StringVar(&p.verb, "fmt", "%g", "result formatting string")
	flag.Func("var", "name=value variable definition (any number of times)", define(formula.Variables, &vars))
	flag.Func("const", "name=value constant definition (any number of times)", define(formula.Constants, &consts))
	flag.BoolVar(&p.json, "json", false, "print outcomes as JSON")
	flag.BoolVar(&p.tokens, "tokens", false, "print tokens of each formula")
	flag.BoolVar(&p.echo, "echo", false, "print parse trees of valid formulas")
	flag.StringVar(&conform, "conform", "", "run conformance vectors from a YAML file, - for stdin, or builtin")
	flag.BoolVar(&repl, "repl", false, "check formulas interactively")
	flag.Parse()
	p.w = os.Stdout

	if conform != "" {
		n, err := runConformance(os.Stdout, conform)
		if err != nil {
			logger.Fatal().Err(err).Msg("conformance")
		}
		if n != 0 {
			os.Exit(1)
		}
		return
	}

	if repl {
		if err := runRepl(&p, vars, consts); err != nil {
			logger.Fatal().Err(err).Msg("repl")
		}
		return
	}

	var srcs []string
	in, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		logger.Fatal().Err(err).Msg("opening input")
	}
	if in != nil {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) == "" {
				continue
			}
			srcs = append(srcs, sc.Text())
		}
		if err := sc.Err(); err != nil {
			logger.Fatal().Err(err).Msg("reading input")
		}
	}
	srcs = append(srcs, flag.Args()...)

	ok := true
	for _, src := range srcs {
		valid, err := p.print(formula.Request{Formula: src, Variables: vars, Constants: consts})
		if err != nil {
			logger.Fatal().Err(err).Msg("writing output")
		}
		ok = ok && valid
	}
	if !ok {
		os.Exit(1)
	}
}

// define creates a flag function adding name=value definitions to syms. The
// value may be any formula without symbols.
func define(ns formula.Namespace, syms *[]formula.Symbol) func(string) error {
	return func(s string) error {
		sym, err := parseDef(ns, s)
		if err != nil {
			return err
		}
		*syms = append(*syms, sym)
		return nil
	}
}

func parseDef(ns formula.Namespace, s string) (formula.Symbol, error) {
	name, val, ok := strings.Cut(s, "=")
	if !ok {
		return formula.Symbol{}, fmt.Errorf(`%s definitions must be "name=value", not %q`, ns, s)
	}
	name = strings.TrimPrefix(strings.TrimSpace(name), string(ns.Sigil()))
	if !formula.IsBareName(name) {
		return formula.Symbol{}, fmt.Errorf("%q is not a valid %s name", name, ns)
	}
	out := formula.Validate(formula.Request{Formula: val})
	if !out.Valid {
		return formula.Symbol{}, fmt.Errorf("setting %s: %v", name, out.Err)
	}
	return formula.Symbol{ID: name, Value: out.Result}, nil
}

// printer writes outcomes.
type printer struct {
	w      io.Writer
	verb   string
	json   bool
	tokens bool
	echo   bool
}

// print validates req and writes its outcome. It reports whether the formula
// was valid.
func (p *printer) print(req formula.Request) (bool, error) {
	if p.tokens {
		toks := formula.Tokenize(req.Formula)
		s := make([]string, len(toks))
		for i, tok := range toks {
			s[i] = tok.String()
		}
		if _, err := fmt.Fprintln(p.w, strings.Join(s, " ")); err != nil {
			return false, err
		}
	}
	out := formula.Validate(req)
	if p.json {
		b, err := json.Marshal(out)
		if err != nil {
			return false, err
		}
		_, err = fmt.Fprintln(p.w, string(b))
		return out.Valid, err
	}
	if !out.Valid {
		msg := out.Err.Error()
		if out.Err.Suggestion != "" {
			msg += " (did you mean " + out.Err.Suggestion + "?)"
		}
		_, err := fmt.Fprintln(p.w, msg)
		return false, err
	}
	if p.echo {
		e, err := formula.Parse(out.EvaluatedFormula)
		if err != nil {
			return false, err
		}
		if _, err := fmt.Fprintf(p.w, "%v : ", e); err != nil {
			return false, err
		}
	}
	_, err := fmt.Fprintf(p.w, p.verb+"\n", out.Result)
	return true, err
}

// runConformance checks the validator against vectors and returns the number
// of failures.
func runConformance(w io.Writer, name string) (int, error) {
	var vectors []conformance.Vector
	if name == "builtin" {
		vectors = conformance.Vectors()
	} else {
		v, err := conformance.Load(name)
		if err != nil {
			return 0, err
		}
		vectors = v
	}
	bad := conformance.Run(vectors, formula.Validate)
	for _, m := range bad {
		fmt.Fprintln(w, m)
	}
	fmt.Fprintf(w, "%d vectors, %d failed\n", len(vectors), len(bad))
	return len(bad), nil
}

func infile(inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}
