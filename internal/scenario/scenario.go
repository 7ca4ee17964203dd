// Package scenario reads a set of debts and plan settings from a file.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/summit/internal/debt"
	"github.com/MrJamesThe3rd/summit/internal/importer"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
)

var ErrUnsupportedFormat = errors.New("unsupported scenario format")

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

type Entry struct {
	Name           string  `toml:"name" yaml:"name"`
	Balance        float64 `toml:"balance" yaml:"balance"`
	InterestRate   float64 `toml:"interest_rate" yaml:"interest_rate"`
	MinimumPayment float64 `toml:"minimum_payment" yaml:"minimum_payment"`
}

// Scenario is a set of debts plus optional plan settings. Unset settings are
// left for the caller to default.
type Scenario struct {
	Strategy     string   `toml:"strategy" yaml:"strategy"`
	ExtraPayment *float64 `toml:"extra_payment" yaml:"extra_payment"`
	Windfall     float64  `toml:"windfall" yaml:"windfall"`
	MaxMonths    int      `toml:"max_months" yaml:"max_months"`
	Debts        []Entry  `toml:"debts" yaml:"debts"`
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func Load(path string) (Scenario, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Scenario{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()

	return Parse(format, f)
}

func Parse(format Format, r io.Reader) (Scenario, error) {
	var s Scenario

	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
			return Scenario{}, fmt.Errorf("decoding toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return Scenario{}, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatCSV:
		params, err := importer.NewService().Import(importer.FormatCSV, r)
		if err != nil {
			return Scenario{}, err
		}

		for _, p := range params {
			s.Debts = append(s.Debts, Entry(p))
		}
	default:
		return Scenario{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if s.Strategy != "" {
		if _, err := payoff.ParseStrategy(s.Strategy); err != nil {
			return Scenario{}, err
		}
	}

	return s, nil
}

// Params returns the debts as validated create params.
func (s Scenario) Params() ([]debt.CreateParams, error) {
	params := make([]debt.CreateParams, 0, len(s.Debts))

	for i, e := range s.Debts {
		p := debt.CreateParams(e)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("debt %d: %w", i+1, err)
		}

		params = append(params, p)
	}

	return params, nil
}

// Debts returns the scenario debts with fresh IDs, in file order.
func (s Scenario) Debts() ([]debt.Debt, error) {
	params, err := s.Params()
	if err != nil {
		return nil, err
	}

	ds := make([]debt.Debt, 0, len(params))
	for _, p := range params {
		ds = append(ds, debt.Debt{
			ID:             uuid.New(),
			Name:           p.Name,
			Balance:        p.Balance,
			InterestRate:   p.InterestRate,
			MinimumPayment: p.MinimumPayment,
		})
	}

	return ds, nil
}

// StrategyOr returns the scenario strategy, or fallback when none is set.
func (s Scenario) StrategyOr(fallback payoff.Strategy) payoff.Strategy {
	if st, err := payoff.ParseStrategy(s.Strategy); err == nil {
		return st
	}

	return fallback
}
