package formula

// Namespace distinguishes variables from constants. The two namespaces never
// share lookups: $x and #x are unrelated symbols.
type Namespace int8

const (
	Variables Namespace = iota
	Constants
)

// Sigil returns the character that introduces symbols of the namespace.
func (ns Namespace) Sigil() rune {
	if ns == Constants {
		return ConstantSigil
	}
	return VariableSigil
}

func (ns Namespace) String() string {
	if ns == Constants {
		return "constant"
	}
	return "variable"
}

// Symbol is a named value supplied by the caller. ID is the bare name, without
// a sigil.
type Symbol struct {
	ID    string  `json:"id" yaml:"id"`
	Value float64 `json:"value" yaml:"value"`
}

// Table is an immutable set of symbols in one namespace. Lookups are exact and
// case-sensitive.
type Table struct {
	ns     Namespace
	names  []string
	values map[string]float64
}

// NewTable creates a symbol table. The order of syms is kept for suggestions.
// A repeated ID is a DuplicateSymbol error.
func NewTable(ns Namespace, syms []Symbol) (*Table, *Error) {
	t := Table{
		ns:     ns,
		names:  make([]string, 0, len(syms)),
		values: make(map[string]float64, len(syms)),
	}
	for _, s := range syms {
		if _, ok := t.values[s.ID]; ok {
			return nil, errNoPos(DuplicateSymbol, "duplicate "+ns.String()+" "+quote(s.ID))
		}
		t.values[s.ID] = s.Value
		t.names = append(t.names, s.ID)
	}
	return &t, nil
}

// Namespace returns the table's namespace.
func (t *Table) Namespace() Namespace {
	if t == nil {
		return Variables
	}
	return t.ns
}

// Lookup returns the value of a bare name.
func (t *Table) Lookup(name string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.values[name]
	return v, ok
}

// Names returns the bare names in the order they were supplied.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

// Len returns the number of symbols in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}
