package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/summit/internal/debt"
	"github.com/MrJamesThe3rd/summit/internal/importer/spreadsheet"
)

type Service struct {
	csvImporter Importer
}

func NewService() *Service {
	return &Service{
		csvImporter: spreadsheet.NewParser(),
	}
}

// ParseFormat maps a format name or file extension to a Format.
// An empty string means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "", "csv", "txt", "tsv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]debt.CreateParams, error) {
	var importer Importer

	switch format {
	case FormatCSV:
		importer = s.csvImporter
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return importer.Parse(r)
}

// Template returns the downloadable example file for a format.
func (s *Service) Template(format Format) (string, error) {
	switch format {
	case FormatCSV:
		return spreadsheet.Template(), nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}
