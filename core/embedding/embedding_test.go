package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	apiKey  string
	baseURL string
	model   string
}

func (c testConfig) GetAPIKey() string         { return c.apiKey }
func (c testConfig) GetBaseURL() string        { return c.baseURL }
func (c testConfig) GetEmbeddingModel() string { return c.model }

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(testConfig{baseURL: "http://x", model: "m"})
	assert.Error(t, err)

	_, err = NewClient(testConfig{apiKey: "k", model: "m"})
	assert.Error(t, err)

	_, err = NewClient(testConfig{apiKey: "k", baseURL: "http://x"})
	assert.Error(t, err)
}

func TestEmbedStringsPairsByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		// Return the vectors out of order; the client must re-pair
		// them by index.
		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.2, 0.2}, "index": 1},
				{"embedding": []float32{0.1, 0.1}, "index": 0},
			},
			"model": req.Model,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig{apiKey: "test-key", baseURL: srv.URL, model: "test-embed"})
	require.NoError(t, err)

	vectors, err := client.EmbedStrings(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.1}, vectors[0])
	assert.Equal(t, []float32{0.2, 0.2}, vectors[1])
}

func TestEmbedStringsEmptyInput(t *testing.T) {
	client, err := NewClient(testConfig{apiKey: "k", baseURL: "http://unused", model: "m"})
	require.NoError(t, err)

	vectors, err := client.EmbedStrings(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEmbedStringsLengthMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.1}, "index": 0},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig{apiKey: "k", baseURL: srv.URL, model: "m"})
	require.NoError(t, err)

	_, err = client.EmbedStrings(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestEmbedStringsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited", "type": "rate_limit"},
		})
	}))
	defer srv.Close()

	client, err := NewClient(testConfig{apiKey: "k", baseURL: srv.URL, model: "m"})
	require.NoError(t, err)

	_, err = client.EmbedStrings(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
