package formula_test

import (
	"encoding/json"
	"fmt"

	"github.com/zephyrtronium/formula"
)

func ExampleValidate() {
	sides := []formula.Symbol{{ID: "a", Value: 3}, {ID: "b", Value: 4}}
	for _, src := range []string{"sqrt($a^2 + $b^2)", "$a ++ $b", "sqrt($a^2 + $c^2)"} {
		out := formula.Validate(formula.Request{Formula: src, Variables: sides})
		b, _ := json.Marshal(out)
		fmt.Println(string(b))
	}

	// Output:
	// {"isValid":true,"evaluatedFormula":"sqrt(3^2 + 4^2)","result":5}
	// {"isValid":false,"errorKind":"DoubleOperator","message":"5: operator \"+\" follows operator \"+\""}
	// {"isValid":false,"errorKind":"UndefinedSymbol","message":"13: undefined variable \"$c\"","suggestion":"$a"}
}

func ExampleParse() {
	e, err := formula.Parse("-2^2 + max(1, 2 * 3)")
	if err != nil {
		panic(err)
	}
	r, _ := e.Eval()
	fmt.Println(e, r)

	// Output:
	// (((-(2)) ^ (2)) + (max[(1), ((2) * (3))])) 10
}
