package api

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// Query evaluates a jq expression against the payload. A single output is
// returned as is, several outputs as a slice, none as nil.
func (r *Result) Query(expression string) (any, error) {
	if expression == "" {
		return r.Value(), nil
	}
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid query expression: %w", err)
	}
	results, err := runQuery(query, r.value)
	if err != nil {
		return nil, err
	}
	return deepCopy(collapseQueryResults(results)), nil
}

func runQuery(query *gojq.Query, data any) ([]any, error) {
	iter := query.Run(data)

	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("query error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func collapseQueryResults(results []any) any {
	switch len(results) {
	case 0:
		return nil
	case 1:
		return results[0]
	default:
		return results
	}
}
