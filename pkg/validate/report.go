package validate

import "fmt"

// Report is the outcome of a validation. Messages keep check order, not
// severity order.
type Report struct {
	Valid    bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Info     []string `json:"info"`

	NodeCount int `json:"nodeCount"`
	EdgeCount int `json:"edgeCount"`
}

// Status is a coarse classification of a report for status indicators.
type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
	StatusEmpty   Status = "empty"
)

// Status classifies the report. A pipeline without nodes is empty rather
// than invalid so that hosts can show a neutral state for a blank canvas.
func (r Report) Status() Status {
	switch {
	case r.Valid:
		return StatusValid
	case r.NodeCount == 0:
		return StatusEmpty
	default:
		return StatusInvalid
	}
}

// Title returns the indicator text: "Valid DAG" or "Invalid DAG".
func (r Report) Title() string {
	if r.Valid {
		return "Valid DAG"
	}
	return "Invalid DAG"
}

// Summary returns a one-line description such as
// "Valid DAG (3 nodes, 2 edges)" or "Invalid DAG (2 errors, 1 warning)".
func (r Report) Summary() string {
	if r.Valid {
		return fmt.Sprintf("%s (%s)", r.Title(), fmt.Sprintf(MsgStatsFmt, r.NodeCount, r.EdgeCount))
	}
	s := fmt.Sprintf("%s (%s", r.Title(), plural(len(r.Errors), "error"))
	if len(r.Warnings) > 0 {
		s += ", " + plural(len(r.Warnings), "warning")
	}
	return s + ")"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
