package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/merial523/graduate-git/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{
			name: "valid",
			raw:  `{"questions":[{"text":"Q1","explanation":"","choices":[{"text":"a","isCorrect":true},{"text":"b","isCorrect":false}]}]}`,
			want: 1,
		},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "not json", raw: "here are your questions", wantErr: true},
		{name: "missing choices", raw: `{"questions":[{"text":"Q1","explanation":""}]}`, wantErr: true},
		{name: "wrong type", raw: `{"questions":[{"text":"Q1","explanation":"","choices":[{"text":"a","isCorrect":"yes"}]}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestDecodeReportsInvalidResponse(t *testing.T) {
	_, err := Decode(`{"questions": 3}`)
	var invalid *InvalidResponseError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, `{"questions": 3}`, invalid.Content)
}

func newTestGenerator(t *testing.T, content string, status int) *OpenAIGenerator {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "upstream failure", "type": "server_error"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		})
	}))
	t.Cleanup(server.Close)

	g, err := NewOpenAIGenerator(config.AIConfig{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)
	return g
}

func TestOpenAIGeneratorHappyPath(t *testing.T) {
	g := newTestGenerator(t,
		`{"questions":[{"text":"Goの並行処理の単位は?","explanation":"","choices":[{"text":"goroutine","isCorrect":true},{"text":"thread","isCorrect":false}]}]}`,
		http.StatusOK)

	got, err := g.Generate(context.Background(), Request{Kind: KindExam, Topic: "Go", Count: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "goroutine", got[0].Choices[0].Text)
	assert.True(t, got[0].Choices[0].IsCorrect)
}

func TestOpenAIGeneratorUpstreamError(t *testing.T) {
	g := newTestGenerator(t, "", http.StatusInternalServerError)
	_, err := g.Generate(context.Background(), Request{Kind: KindExam, Topic: "Go"})
	assert.Error(t, err)
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	_, err := NewOpenAIGenerator(config.AIConfig{})
	assert.Error(t, err)
}

func TestMockGenerator(t *testing.T) {
	m := &MockGenerator{Results: [][]GeneratedQuestion{{{Text: "q"}}}}
	got, err := m.Generate(context.Background(), Request{Topic: "x"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = m.Generate(context.Background(), Request{Topic: "y"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Len(t, m.Calls, 2)
}
