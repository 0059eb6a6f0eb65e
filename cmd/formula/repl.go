package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/formula"
)

const (
	historyFile = ".formula_history"
	prompt      = "formula> "
	replHelp    = `Enter a formula to check it. Commands:
  :var name=value    define or replace a variable
  :const name=value  define or replace a constant
  :symbols           list defined symbols
  :quit              exit
`
)

// session is the mutable state of a REPL.
type session struct {
	p      *printer
	vars   []formula.Symbol
	consts []formula.Symbol
}

func runRepl(p *printer, vars, consts []formula.Symbol) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := session{p: p, vars: vars, consts: consts}
	fmt.Fprint(p.w, replHelp)
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.w)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		quit, err := s.handle(line)
		if err != nil || quit {
			return err
		}
	}
}

// handle runs one line of input and reports whether the session should end.
// The error is non-nil only if output could not be written.
func (s *session) handle(line string) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch cmd {
	case ":quit":
		return true, nil
	case ":var":
		s.vars = s.set(formula.Variables, s.vars, arg)
	case ":const":
		s.consts = s.set(formula.Constants, s.consts, arg)
	case ":symbols":
		for _, v := range s.vars {
			fmt.Fprintf(s.p.w, "$%s = %g\n", v.ID, v.Value)
		}
		for _, c := range s.consts {
			fmt.Fprintf(s.p.w, "#%s = %g\n", c.ID, c.Value)
		}
	default:
		if strings.HasPrefix(cmd, ":") {
			_, err := fmt.Fprintf(s.p.w, "unknown command %s\n%s", cmd, replHelp)
			return false, err
		}
		if _, err := s.p.print(formula.Request{Formula: line, Variables: s.vars, Constants: s.consts}); err != nil {
			return true, err
		}
	}
	return false, nil
}

// set defines a symbol, replacing any existing one of the same name.
func (s *session) set(ns formula.Namespace, syms []formula.Symbol, def string) []formula.Symbol {
	sym, err := parseDef(ns, def)
	if err != nil {
		fmt.Fprintln(s.p.w, err)
		return syms
	}
	for i := range syms {
		if syms[i].ID == sym.ID {
			syms[i] = sym
			return syms
		}
	}
	return append(syms, sym)
}
