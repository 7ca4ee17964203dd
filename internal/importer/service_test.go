package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/summit/internal/importer"
)

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"", "csv", ".CSV", "tsv"} {
		f, err := importer.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, importer.FormatCSV, f)
	}

	_, err := importer.ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestService_Import(t *testing.T) {
	svc := importer.NewService()

	tmpl, err := svc.Template(importer.FormatCSV)
	require.NoError(t, err)

	got, err := svc.Import(importer.FormatCSV, strings.NewReader(tmpl))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Visa Card", got[0].Name)

	_, err = svc.Import("pdf", strings.NewReader(tmpl))
	assert.Error(t, err)
}
