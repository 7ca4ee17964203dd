package importer

import (
	"io"

	"github.com/MrJamesThe3rd/summit/internal/debt"
)

type Format string

const (
	FormatCSV Format = "csv"
)

type Importer interface {
	Parse(r io.Reader) ([]debt.CreateParams, error)
}
