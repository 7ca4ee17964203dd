package spreadsheet

import "strings"

type field int

const (
	fieldName field = iota
	fieldBalance
	fieldRate
	fieldMinimum
)

// keywords are matched as case-insensitive substrings of a header cell,
// earlier keywords taking precedence.
var keywords = map[field][]string{
	fieldName:    {"name", "debt", "description", "label", "account"},
	fieldBalance: {"balance", "amount", "total", "current", "debt"},
	fieldRate:    {"rate", "interest", "apr", "percent"},
	fieldMinimum: {"minimum", "min", "payment", "monthly"},
}

// resolveOrder claims the most specific headers first so that, for example,
// "Interest Rate" is not taken by the name field and "Debt Name" is left
// for the name field once "Balance" has been claimed.
var resolveOrder = []field{fieldRate, fieldMinimum, fieldBalance, fieldName}

// columns maps each field to its index in a row.
type columns map[field]int

// resolveColumns matches a candidate header row against the field keywords.
// Each column is claimed by at most one field. ok is false unless every
// field found a column.
func resolveColumns(row []string) (columns, bool) {
	headers := make([]string, len(row))
	for i, cell := range row {
		headers[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	cols := make(columns, len(resolveOrder))
	claimed := make([]bool, len(headers))

	for _, f := range resolveOrder {
		idx := claim(headers, claimed, keywords[f])
		if idx < 0 {
			return nil, false
		}

		cols[f] = idx
		claimed[idx] = true
	}

	return cols, true
}

func claim(headers []string, claimed []bool, kws []string) int {
	for _, kw := range kws {
		for i, h := range headers {
			if claimed[i] || h == "" {
				continue
			}

			if strings.Contains(h, kw) {
				return i
			}
		}
	}

	return -1
}

func (c columns) cell(row []string, f field) string {
	idx := c[f]
	if idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
