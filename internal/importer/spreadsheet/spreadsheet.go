// Package spreadsheet imports debts from CSV exports with free-form headers.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/summit/internal/debt"
	enc "github.com/MrJamesThe3rd/summit/internal/encoding"
)

const (
	maxFileSize = 10 << 20
	sniffLines  = 10
)

var (
	ErrMissingColumns = errors.New("could not find columns for name, balance, interest rate and minimum payment")
	ErrNoDebts        = errors.New("no valid debts found in file")
	ErrTooLarge       = errors.New("file too large")
)

const template = "Name,Balance,Interest Rate,Minimum Payment\n" +
	"Visa Card,5000,18.99,150\n" +
	"Car Loan,12000,4.5,350"

// Template returns an example file with the expected headers.
func Template() string {
	return template
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads debts from r. Rows before the header are ignored, and rows
// with an empty name or unusable numbers are skipped.
func (p *Parser) Parse(r io.Reader) ([]debt.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(utf8r, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if len(data) > maxFileSize {
		return nil, ErrTooLarge
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := findHeader(rows)
	if !ok {
		return nil, ErrMissingColumns
	}

	var debts []debt.CreateParams

	for _, row := range rows[headerIdx+1:] {
		params, ok := parseRow(cols, row)
		if !ok {
			continue
		}

		debts = append(debts, params)
	}

	if len(debts) == 0 {
		return nil, ErrNoDebts
	}

	return debts, nil
}

func findHeader(rows [][]string) (columns, int, bool) {
	for i, row := range rows {
		if cols, ok := resolveColumns(row); ok {
			return cols, i, true
		}
	}

	return nil, 0, false
}

func parseRow(cols columns, row []string) (debt.CreateParams, bool) {
	name := cols.cell(row, fieldName)
	if name == "" {
		return debt.CreateParams{}, false
	}

	balance, ok := parseNumber(cols.cell(row, fieldBalance))
	if !ok {
		return debt.CreateParams{}, false
	}

	rate, ok := parseNumber(cols.cell(row, fieldRate))
	if !ok {
		return debt.CreateParams{}, false
	}

	minimum, ok := parseNumber(cols.cell(row, fieldMinimum))
	if !ok {
		return debt.CreateParams{}, false
	}

	params := debt.CreateParams{
		Name:           name,
		Balance:        balance,
		InterestRate:   rate,
		MinimumPayment: minimum,
	}

	if params.Validate() != nil {
		return debt.CreateParams{}, false
	}

	return params, true
}

// parseNumber keeps only digits, dots and minus signs, so "$1,234.50" and
// "18.99%" both parse.
func parseNumber(s string) (float64, bool) {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}

		return -1
	}, s)

	if clean == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, false
	}

	return d.InexactFloat64(), true
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab in the
// first lines of the file.
func sniffDelimiter(data []byte) rune {
	lines := bytes.SplitN(data, []byte("\n"), sniffLines+1)
	if len(lines) > sniffLines {
		lines = lines[:sniffLines]
	}

	best, bestCount := ',', 0

	for _, d := range []rune{',', ';', '\t'} {
		count := 0
		for _, line := range lines {
			count += bytes.Count(line, []byte(string(d)))
		}

		if count > bestCount {
			best, bestCount = d, count
		}
	}

	return best
}
