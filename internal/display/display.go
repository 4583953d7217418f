// Package display renders core results as plain text for the terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"rateconv/internal/aggregator"
	"rateconv/internal/conversion"
)

// Row is one (base, target, rate) triple of the rate table.
type Row struct {
	Base   string
	Target string
	Rate   float64
}

func (r Row) String() string {
	return fmt.Sprintf("1 %s = %.4f %s", r.Base, r.Rate, r.Target)
}

// Rows lists the table in the order of codes: for every base present in the
// result, every other code present in its snapshot.
func Rows(result *aggregator.Result, codes []string) []Row {
	var rows []Row
	for _, base := range codes {
		snap, ok := result.Table[base]
		if !ok {
			continue
		}
		for _, target := range codes {
			if target == base {
				continue
			}
			if rate, ok := snap.Rate(target); ok {
				rows = append(rows, Row{Base: base, Target: target, Rate: rate})
			}
		}
	}
	return rows
}

// WriteTable writes the rate table grouped by base, then one line per failed base.
func WriteTable(w io.Writer, result *aggregator.Result, codes []string) error {
	var b strings.Builder

	current := ""
	for _, row := range Rows(result, codes) {
		if row.Base != current {
			if current != "" {
				b.WriteString("\n")
			}
			current = row.Base
			fmt.Fprintf(&b, "%s\n", row.Base)
		}
		fmt.Fprintf(&b, "  %s\n", row)
	}

	if len(result.Errors) > 0 && current != "" {
		b.WriteString("\n")
	}
	for _, err := range result.Errors {
		fmt.Fprintf(&b, "Error fetching %s: %s\n", err.Base, err.Reason())
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteHistory writes conversions newest first, as returned by the session.
func WriteHistory(w io.Writer, history []conversion.Conversion) error {
	if len(history) == 0 {
		_, err := io.WriteString(w, "No conversions yet\n")
		return err
	}

	var b strings.Builder
	for _, c := range history {
		fmt.Fprintf(&b, "%s %s → %s\n  Result: %s\n", c.Amount.String(), c.From, c.To, c)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
