package server

import (
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/zephyrtronium/formula"
)

// initGraphQLSchema builds the GraphQL schema with all types and resolvers.
func (s *Server) initGraphQLSchema() {
	outcomeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Outcome",
		Fields: graphql.Fields{
			"isValid":          &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"evaluatedFormula": &graphql.Field{Type: graphql.String},
			"result":           &graphql.Field{Type: graphql.Float},
			"errorKind":        &graphql.Field{Type: graphql.String},
			"message":          &graphql.Field{Type: graphql.String},
			"suggestion":       &graphql.Field{Type: graphql.String},
		},
	})

	functionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Function",
		Fields: graphql.Fields{
			"name":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"minArity": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"maxArity": &graphql.Field{
				Type:        graphql.Int,
				Description: "Largest argument count, or null if there is none.",
			},
		},
	})

	grammarType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Grammar",
		Fields: graphql.Fields{
			"rules":     &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
			"functions": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(functionType)))},
			"operators": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"maxDepth":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	symbolInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "SymbolInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"value": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"validateFormula": &graphql.Field{
				Type: graphql.NewNonNull(outcomeType),
				Args: graphql.FieldConfigArgument{
					"formula":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"variables": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(symbolInput))},
					"constants": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(symbolInput))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req := formula.Request{
						Formula:   p.Args["formula"].(string),
						Variables: symbolsArg(p.Args["variables"]),
						Constants: symbolsArg(p.Args["constants"]),
					}
					out, err := s.validate(p.Context, req)
					if err != nil {
						return nil, err
					}
					return outcomeToGraphQL(out), nil
				},
			},
			"grammar": &graphql.Field{
				Type: graphql.NewNonNull(grammarType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return grammarToGraphQL(CurrentGrammar()), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create graphql schema: %v", err))
	}
	s.schema = schema
}

// handleGraphQL executes a GraphQL query.
func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query         string                 `json:"query"`
		Variables     map[string]interface{} `json:"variables"`
		OperationName string                 `json:"operationName"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	writeJSON(w, http.StatusOK, result)
}

// symbolsArg converts a list of SymbolInput arguments.
func symbolsArg(v interface{}) []formula.Symbol {
	list, _ := v.([]interface{})
	r := make([]formula.Symbol, 0, len(list))
	for _, item := range list {
		m, _ := item.(map[string]interface{})
		id, _ := m["id"].(string)
		r = append(r, formula.Symbol{ID: id, Value: toFloat(m["value"])})
	}
	return r
}

func toFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	}
	return 0
}

// outcomeToGraphQL converts an Outcome to a map keyed like its JSON form.
func outcomeToGraphQL(out formula.Outcome) map[string]interface{} {
	if out.Valid {
		return map[string]interface{}{
			"isValid":          true,
			"evaluatedFormula": out.EvaluatedFormula,
			"result":           out.Result,
		}
	}
	m := map[string]interface{}{
		"isValid":   false,
		"errorKind": out.Err.Kind.String(),
		"message":   out.Err.Message,
	}
	if out.Err.Suggestion != "" {
		m["suggestion"] = out.Err.Suggestion
	}
	return m
}

func grammarToGraphQL(g Grammar) map[string]interface{} {
	rules := make([]interface{}, len(g.Rules))
	for i, k := range g.Rules {
		rules[i] = k.String()
	}
	funcs := make([]interface{}, len(g.Functions))
	for i, f := range g.Functions {
		m := map[string]interface{}{
			"name":     f.Name,
			"minArity": f.MinArity,
		}
		if f.MaxArity != formula.Unbounded {
			m["maxArity"] = f.MaxArity
		}
		funcs[i] = m
	}
	return map[string]interface{}{
		"rules":     rules,
		"functions": funcs,
		"operators": g.Operators,
		"maxDepth":  g.MaxDepth,
	}
}
