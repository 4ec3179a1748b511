package arraysum

import (
	"errors"
	"net/url"
	"testing"

	"github.com/jaiparmani/ToolBoxWebServices/internal/apperr"
)

func TestParseQueryEncodings(t *testing.T) {
	// Four ways to say [1, 2, 3]; every one sums to 6 over 3 elements.
	cases := []struct {
		name  string
		query string
	}{
		{"json array", "array=[1,2,3]"},
		{"repeated key", "values=1&values=2&values=3"},
		{"comma separated", "values=1,2,3"},
		{"single values with commas and spaces", "values=1, 2, 3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			nums, err := ParseQuery(q)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			total, count := Sum(nums)
			if total != 6 || count != 3 {
				t.Errorf("got total=%v count=%d, want 6 and 3", total, count)
			}
		})
	}
}

func TestParseQuerySingleValue(t *testing.T) {
	nums, err := ParseQuery(url.Values{"values": {"42.5"}})
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if len(nums) != 1 || nums[0] != 42.5 {
		t.Errorf("got %v, want [42.5]", nums)
	}
}

func TestParseQueryArrayTakesPriority(t *testing.T) {
	q := url.Values{"array": {"[10]"}, "values": {"1,2,3"}}
	nums, err := ParseQuery(q)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if len(nums) != 1 || nums[0] != 10 {
		t.Errorf("array parameter did not win: got %v", nums)
	}
}

func TestParseQueryErrors(t *testing.T) {
	cases := []struct {
		name  string
		query url.Values
		kind  error
	}{
		{"malformed json array", url.Values{"array": {"notjson"}}, apperr.ErrMalformedArray},
		{"json object not array", url.Values{"array": {`{"a":1}`}}, apperr.ErrMalformedArray},
		{"non numeric value", url.Values{"values": {"x"}}, apperr.ErrInvalidNumber},
		{"non numeric in list", url.Values{"values": {"1,x,3"}}, apperr.ErrInvalidNumber},
		{"nothing supplied", url.Values{}, apperr.ErrMissingInput},
		{"unrelated params only", url.Values{"foo": {"1"}}, apperr.ErrMissingInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseQuery(tc.query)
			if !errors.Is(err, tc.kind) {
				t.Errorf("got %v, want kind %v", err, tc.kind)
			}
		})
	}
}

func TestParseBody(t *testing.T) {
	nums, err := ParseBody([]any{float64(1), "2", float64(3.5)})
	if err != nil {
		t.Fatalf("ParseBody: %v", err)
	}
	total, count := Sum(nums)
	if total != 6.5 || count != 3 {
		t.Errorf("got total=%v count=%d, want 6.5 and 3", total, count)
	}

	if _, err := ParseBody([]any{float64(1), "x"}); !errors.Is(err, apperr.ErrInvalidNumber) {
		t.Errorf("non numeric string: got %v, want ErrInvalidNumber", err)
	}
	if _, err := ParseBody([]any{true}); !errors.Is(err, apperr.ErrInvalidNumber) {
		t.Errorf("boolean element: got %v, want ErrInvalidNumber", err)
	}
}

func TestSumEmpty(t *testing.T) {
	total, count := Sum(nil)
	if total != 0 || count != 0 {
		t.Errorf("got total=%v count=%d, want 0 and 0", total, count)
	}
}
