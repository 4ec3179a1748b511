// Package arraysum normalizes the heterogeneous request encodings of a
// numeric list into a single ordered sequence and sums it.
package arraysum

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/jaiparmani/ToolBoxWebServices/internal/apperr"
)

// ParseQuery resolves the numeric sequence from query parameters,
// trying the supported encodings in priority order:
//
//	array=[1,2,3]            JSON array literal
//	values=1&values=2        repeated key
//	values=1,2,3             comma-separated
//	values=1                 single value
//
// No recognized parameter fails with ErrMissingInput.
func ParseQuery(q url.Values) ([]float64, error) {
	if raw := q.Get("array"); raw != "" {
		var elems []any
		if err := json.Unmarshal([]byte(raw), &elems); err != nil {
			return nil, apperr.Wrap(apperr.ErrMalformedArray, "array parameter %q", raw)
		}
		return coerce(elems)
	}

	values := q["values"]
	switch {
	case len(values) > 1:
		return parseAll(values)
	case len(values) == 1:
		v := values[0]
		if strings.Contains(v, ",") {
			return parseAll(strings.Split(v, ","))
		}
		n, err := parseFloat(v)
		if err != nil {
			return nil, err
		}
		return []float64{n}, nil
	}

	return nil, apperr.Wrap(apperr.ErrMissingInput, `use "values" (comma-separated or repeated) or "array" (JSON string)`)
}

// ParseBody resolves the numeric sequence from a structured request
// body carrying an explicit array field.
func ParseBody(elems []any) ([]float64, error) {
	return coerce(elems)
}

// Sum adds the numbers in input order for reproducibility and returns
// the total alongside the element count.
func Sum(nums []float64) (float64, int) {
	var total float64
	for _, n := range nums {
		total += n
	}
	return total, len(nums)
}

func parseAll(raw []string) ([]float64, error) {
	nums := make([]float64, 0, len(raw))
	for _, v := range raw {
		n, err := parseFloat(v)
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, nil
}

func parseFloat(v string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrInvalidNumber, "%q", v)
	}
	return n, nil
}

// coerce converts decoded JSON elements to floats, accepting numbers
// and numeric strings. Anything else fails with ErrInvalidNumber.
func coerce(elems []any) ([]float64, error) {
	nums := make([]float64, 0, len(elems))
	for _, e := range elems {
		switch v := e.(type) {
		case float64:
			nums = append(nums, v)
		case string:
			n, err := parseFloat(v)
			if err != nil {
				return nil, err
			}
			nums = append(nums, n)
		default:
			return nil, apperr.Wrap(apperr.ErrInvalidNumber, "%v", e)
		}
	}
	return nums, nil
}
