package spreadsheet_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/summit/internal/debt"
	"github.com/MrJamesThe3rd/summit/internal/importer/spreadsheet"
)

func TestParser_Parse(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    []debt.CreateParams
		wantErr error
	}

	tests := []testCase{
		{
			name:  "Template",
			input: spreadsheet.Template(),
			want: []debt.CreateParams{
				{Name: "Visa Card", Balance: 5000, InterestRate: 18.99, MinimumPayment: 150},
				{Name: "Car Loan", Balance: 12000, InterestRate: 4.5, MinimumPayment: 350},
			},
		},
		{
			name: "FreeFormHeadersAndCurrency",
			input: "Account,Current Balance,APR,Monthly Payment\n" +
				"Store Card,\"$1,234.50\",24.9%,$45\n",
			want: []debt.CreateParams{
				{Name: "Store Card", Balance: 1234.5, InterestRate: 24.9, MinimumPayment: 45},
			},
		},
		{
			name: "DebtNameColumnWithBalance",
			input: "Debt Name,Balance,Interest,Min Payment\n" +
				"Student Loan,8000,5.5,90\n",
			want: []debt.CreateParams{
				{Name: "Student Loan", Balance: 8000, InterestRate: 5.5, MinimumPayment: 90},
			},
		},
		{
			name: "ColumnsInAnyOrder",
			input: "Minimum,Rate,Label,Amount Owed\n" +
				"25,19.99,Overdraft,600\n",
			want: []debt.CreateParams{
				{Name: "Overdraft", Balance: 600, InterestRate: 19.99, MinimumPayment: 25},
			},
		},
		{
			name: "PreambleAndSemicolons",
			input: "Exported from My Bank;;;\n" +
				"\n" +
				"Name;Balance;Interest Rate;Minimum Payment\n" +
				"Visa;5000;18.99;150\n",
			want: []debt.CreateParams{
				{Name: "Visa", Balance: 5000, InterestRate: 18.99, MinimumPayment: 150},
			},
		},
		{
			name: "TabSeparated",
			input: "Name\tBalance\tRate\tMinimum\n" +
				"Visa\t5000\t18.99\t150\n",
			want: []debt.CreateParams{
				{Name: "Visa", Balance: 5000, InterestRate: 18.99, MinimumPayment: 150},
			},
		},
		{
			name: "SkipsBadRows",
			input: "Name,Balance,Interest Rate,Minimum Payment\n" +
				",100,5,10\n" +
				"No Balance,,5,10\n" +
				"Words,lots,5,10\n" +
				"Negative,-100,5,10\n" +
				"Short Row,100\n" +
				"Good,100,5,10\n",
			want: []debt.CreateParams{
				{Name: "Good", Balance: 100, InterestRate: 5, MinimumPayment: 10},
			},
		},
		{
			name:    "MissingColumns",
			input:   "Name,Balance\nVisa,5000\n",
			wantErr: spreadsheet.ErrMissingColumns,
		},
		{
			name:    "HeaderOnly",
			input:   "Name,Balance,Interest Rate,Minimum Payment\n",
			wantErr: spreadsheet.ErrNoDebts,
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: spreadsheet.ErrMissingColumns,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := spreadsheet.NewParser().Parse(strings.NewReader(tt.input))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.Len(t, got, len(tt.want))

			for i, want := range tt.want {
				assert.Equal(t, want.Name, got[i].Name)
				assert.InDelta(t, want.Balance, got[i].Balance, 1e-9)
				assert.InDelta(t, want.InterestRate, got[i].InterestRate, 1e-9)
				assert.InDelta(t, want.MinimumPayment, got[i].MinimumPayment, 1e-9)
			}
		})
	}
}
