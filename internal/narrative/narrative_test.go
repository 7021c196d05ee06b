package narrative

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-summarizer/internal/aggregate"
	"github.com/dvloznov/statement-summarizer/internal/statement"
)

func sampleStats() aggregate.Stats {
	return aggregate.Compute([]statement.Row{
		{Description: "UPI payment to John", Amount: statement.CoerceAmount("500")},
		{Description: "NEFT transfer", Amount: statement.CoerceAmount("-15000")},
		{Description: "ATM withdrawal", Amount: statement.CoerceAmount("-2000")},
		{Description: "UPI refund", Amount: statement.CoerceAmount("75000")},
		{Description: "note", Amount: statement.CoerceAmount("pending")},
	})
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sampleStats(), "₹")

	assert.Contains(t, prompt, "- Total Credits: ₹75500.00\n")
	assert.Contains(t, prompt, "- Total Debits: ₹-17000.00\n")
	assert.Contains(t, prompt, "- Execution Types: UPI: 2, NEFT: 1, Cash/Deposit: 1, Other: 1\n")
	assert.Contains(t, prompt, "- Amount Categories: Small: 1, Medium: 1, Large: 1, Significant: 1, Unknown: 1\n")
	assert.Contains(t, prompt, "- Transactions: 5\n")
	assert.Contains(t, prompt, "Rows without a readable amount: 1")
	assert.True(t, strings.HasSuffix(prompt, "Generate a brief summary for a Chartered Accountant preparing ITR.\n"))
}

func TestBuildPrompt_EmptyStatement(t *testing.T) {
	prompt := BuildPrompt(aggregate.Compute(nil), "$")

	assert.Contains(t, prompt, "- Total Credits: $0.00\n")
	assert.Contains(t, prompt, "- Total Debits: $0.00\n")
	assert.Contains(t, prompt, "- Execution Types: none\n")
	assert.NotContains(t, prompt, "readable amount")
}

func TestBuildPrompt_Stable(t *testing.T) {
	assert.Equal(t, BuildPrompt(sampleStats(), "₹"), BuildPrompt(sampleStats(), "₹"))
}

func TestStatic(t *testing.T) {
	text, err := Static("offline").Narrate(context.Background(), "ignored")
	require.NoError(t, err)
	assert.Equal(t, "offline", text)
}

func TestUnconfigured(t *testing.T) {
	_, err := Unconfigured{}.Narrate(context.Background(), "ignored")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewGeminiNarrator_RequiresKey(t *testing.T) {
	_, err := NewGeminiNarrator(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

func newGeminiServer(t *testing.T, status int, body string, gotPrompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":generateContent")

		raw, _ := io.ReadAll(r.Body)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.Unmarshal(raw, &req); err == nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 && gotPrompt != nil {
			*gotPrompt = req.Contents[0].Parts[0].Text
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiNarrator_Narrate(t *testing.T) {
	var gotPrompt string
	srv := newGeminiServer(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "  Mostly UPI credits.  "}]}, "finishReason": "STOP"}],
		"usageMetadata": {"promptTokenCount": 42, "candidatesTokenCount": 7}
	}`, &gotPrompt)

	n, err := NewGeminiNarrator(context.Background(), GeminiConfig{
		APIKey:      "test-key",
		Temperature: DefaultTemperature,
		BaseURL:     srv.URL + "/",
	})
	require.NoError(t, err)

	text, err := n.Narrate(context.Background(), "stats here")
	require.NoError(t, err)
	assert.Equal(t, "Mostly UPI credits.", text)
	assert.Equal(t, "stats here", gotPrompt)
}

func TestGeminiNarrator_EmptyCompletion(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK, `{"candidates": [{"content": {"role": "model", "parts": [{"text": ""}]}}]}`, nil)

	n, err := NewGeminiNarrator(context.Background(), GeminiConfig{APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = n.Narrate(context.Background(), "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestGeminiNarrator_APIError(t *testing.T) {
	srv := newGeminiServer(t, http.StatusBadRequest, `{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`, nil)

	n, err := NewGeminiNarrator(context.Background(), GeminiConfig{APIKey: "bad-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = n.Narrate(context.Background(), "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate content")
}
