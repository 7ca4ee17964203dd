package advice_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/summit/internal/advice"
	"github.com/MrJamesThe3rd/summit/internal/debt"
)

var snapshot = advice.Snapshot{
	Debts: []debt.Debt{
		{Name: "Premium Credit Card", Balance: 5000, InterestRate: 22, MinimumPayment: 150},
		{Name: "Car Loan", Balance: 12000, InterestRate: 6.5, MinimumPayment: 320},
	},
	TotalPaid:     1200,
	MonthlyIncome: 5000,
}

func geminiReply(t *testing.T, text string) string {
	t.Helper()

	b, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	require.NoError(t, err)

	return string(b)
}

func TestClient_Advise(t *testing.T) {
	type testCase struct {
		name      string
		status    int
		reply     string
		apiKey    string
		want      advice.Message
		wantRaw   bool
		checkBody func(t *testing.T, body string)
	}

	generated := `{"pepTalk":"Keep going","nextMilestone":"Clear the card","financialTip":"Cook at home","budgetAdvice":"DTI is fine","healthScore":72.6}`

	tests := []testCase{
		{
			name:    "Generated",
			status:  http.StatusOK,
			reply:   generated,
			apiKey:  "secret",
			wantRaw: true,
			want: advice.Message{
				PepTalk:       "Keep going",
				NextMilestone: "Clear the card",
				FinancialTip:  "Cook at home",
				BudgetAdvice:  "DTI is fine",
				HealthScore:   73,
				Generated:     true,
			},
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "Current total debt: $17000.00")
				assert.Contains(t, body, "Debt-to-income ratio: 9.4%")
				assert.Contains(t, body, "application/json")
			},
		},
		{
			name:    "ScoreClamped",
			status:  http.StatusOK,
			reply:   `{"pepTalk":"a","nextMilestone":"b","financialTip":"c","budgetAdvice":"d","healthScore":250}`,
			apiKey:  "secret",
			wantRaw: true,
			want: advice.Message{
				PepTalk: "a", NextMilestone: "b", FinancialTip: "c", BudgetAdvice: "d",
				HealthScore: 100, Generated: true,
			},
		},
		{
			name:    "ServerError",
			status:  http.StatusInternalServerError,
			reply:   "boom",
			apiKey:  "secret",
			want:    advice.Fallback(),
		},
		{
			name:    "MalformedAdvice",
			status:  http.StatusOK,
			reply:   "not json at all",
			apiKey:  "secret",
			wantRaw: true,
			want:    advice.Fallback(),
		},
		{
			name:   "NoAPIKey",
			status: http.StatusOK,
			reply:  generated,
			want:   advice.Fallback(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
				assert.Equal(t, tt.apiKey, r.Header.Get("x-goog-api-key"))

				body, _ := io.ReadAll(r.Body)
				if tt.checkBody != nil {
					tt.checkBody(t, string(body))
				}

				w.WriteHeader(tt.status)

				if tt.wantRaw {
					_, _ = io.WriteString(w, geminiReply(t, tt.reply))
					return
				}

				_, _ = io.WriteString(w, tt.reply)
			}))
			defer srv.Close()

			c := advice.NewClient(srv.URL, "test-model", tt.apiKey, time.Second)
			got := c.Advise(context.Background(), snapshot)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := advice.NewClient(srv.URL, "test-model", "secret", 50*time.Millisecond)

	_, err := c.Generate(context.Background(), snapshot)
	require.Error(t, err)
	assert.Equal(t, advice.Fallback(), c.Advise(context.Background(), snapshot))
}

func TestClient_PromptWithoutIncome(t *testing.T) {
	var body string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := snapshot
	s.MonthlyIncome = 0

	advice.NewClient(srv.URL, "test-model", "secret", time.Second).Advise(context.Background(), s)

	assert.NotContains(t, body, "Debt-to-income")
	assert.True(t, strings.Contains(body, "income is unknown"))
}
