package retriever

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Malowking/flowpilot/core/errors"
	"github.com/Malowking/flowpilot/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	fail bool
}

func (s *stubEmbedder) EmbedString(ctx context.Context, text string) ([]float32, error) {
	if s.fail {
		return nil, errors.Newf(errors.ErrEmbeddingFailed, "embedding down")
	}
	return []float32{0.1, 0.2}, nil
}

type stubStore struct {
	vectorDocs  []*schema.Document
	vectorErr   error
	keywordDocs map[string][]*schema.Document
	keywordErr  map[string]error
	queried     []string
}

func (s *stubStore) EnsureSchema(ctx context.Context) error { return nil }
func (s *stubStore) InsertChunks(ctx context.Context, documentID string, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	return nil, nil
}
func (s *stubStore) DeleteByDocumentID(ctx context.Context, documentID string) error { return nil }
func (s *stubStore) CountByDocumentID(ctx context.Context, documentID string) (int, error) {
	return 0, nil
}
func (s *stubStore) Close() {}

func (s *stubStore) VectorSearch(ctx context.Context, vector []float32, topK int) ([]*schema.Document, error) {
	if s.vectorErr != nil {
		return nil, s.vectorErr
	}
	return s.vectorDocs, nil
}

func (s *stubStore) KeywordSearch(ctx context.Context, keyword string, limit int) ([]*schema.Document, error) {
	s.queried = append(s.queried, keyword)
	if err, ok := s.keywordErr[keyword]; ok {
		return nil, err
	}
	return s.keywordDocs[keyword], nil
}

func doc(content string, score float32) *schema.Document {
	return &schema.Document{ID: content, Content: content, Score: score}
}

func TestExtractKeywords(t *testing.T) {
	t.Run("drops short tokens and lowercases", func(t *testing.T) {
		got := ExtractKeywords("How do I add a Trigger to my flow?")
		assert.Equal(t, []string{"trigger", "flow"}, got)
	})

	t.Run("first appearance order with dedup", func(t *testing.T) {
		got := ExtractKeywords("connector approval connector policy approval")
		assert.Equal(t, []string{"connector", "approval", "policy"}, got)
	})

	t.Run("caps at six distinct tokens", func(t *testing.T) {
		got := ExtractKeywords("alpha bravo charlie delta echos foxtrot golfing hotel")
		require.Len(t, got, MaxKeywords)
		assert.Equal(t, "foxtrot", got[MaxKeywords-1])
	})

	t.Run("no usable tokens", func(t *testing.T) {
		assert.Empty(t, ExtractKeywords("a to do it"))
	})
}

func TestSearchMergesVectorFirst(t *testing.T) {
	store := &stubStore{
		vectorDocs: []*schema.Document{
			doc("shared governance chunk about connector policy", 0.82),
			doc("vector-only chunk", 0.71),
		},
		keywordDocs: map[string][]*schema.Document{
			// Same text as a vector hit plus a fresh one.
			"connector": {
				doc("shared governance chunk about connector policy", 0),
				doc("keyword-only chunk", 0),
			},
		},
	}
	r := NewHybridRetriever(&stubEmbedder{}, store)

	result, err := r.Search(context.Background(), "connector", 0)
	require.NoError(t, err)

	require.Len(t, result.Hits, 3)
	assert.Equal(t, "vector", result.Hits[0].Source)
	require.NotNil(t, result.Hits[0].Score)
	assert.InDelta(t, 0.82, *result.Hits[0].Score, 1e-6)
	assert.Equal(t, "keyword", result.Hits[2].Source)
	assert.Nil(t, result.Hits[2].Score)

	require.NotNil(t, result.TopScore)
	assert.InDelta(t, 0.82, *result.TopScore, 1e-6)
}

func TestSearchVectorFailureDegradesToKeywordOnly(t *testing.T) {
	store := &stubStore{
		vectorErr: errors.Newf(errors.ErrVectorSearch, "store down"),
		keywordDocs: map[string][]*schema.Document{
			"trigger": {doc("keyword hit survives", 0)},
		},
	}
	r := NewHybridRetriever(&stubEmbedder{}, store)

	result, err := r.Search(context.Background(), "trigger", 0)
	require.NoError(t, err)

	assert.Nil(t, result.TopScore)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "keyword", result.Hits[0].Source)

	require.Len(t, result.Legs, 2)
	assert.Equal(t, LegFailed, result.Legs[0].Outcome)
	assert.Equal(t, LegOK, result.Legs[1].Outcome)
}

func TestSearchEmbeddingFailureDegrades(t *testing.T) {
	store := &stubStore{
		keywordDocs: map[string][]*schema.Document{
			"approval": {doc("approval process chunk", 0)},
		},
	}
	r := NewHybridRetriever(&stubEmbedder{fail: true}, store)

	result, err := r.Search(context.Background(), "approval", 0)
	require.NoError(t, err)
	assert.Nil(t, result.TopScore)
	require.Len(t, result.Hits, 1)
}

func TestSearchSkipsFailedKeyword(t *testing.T) {
	store := &stubStore{
		keywordErr: map[string]error{
			"trigger": errors.Newf(errors.ErrVectorSearch, "bad keyword"),
		},
		keywordDocs: map[string][]*schema.Document{
			"approval": {doc("approval chunk", 0)},
		},
	}
	r := NewHybridRetriever(&stubEmbedder{fail: true}, store)

	result, err := r.Search(context.Background(), "trigger approval", 0)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, []string{"trigger", "approval"}, store.queried)
}

func TestSearchMergedCap(t *testing.T) {
	var docs []*schema.Document
	for i := 0; i < VectorTopK; i++ {
		docs = append(docs, doc(fmt.Sprintf("distinct vector chunk number %02d", i), 0.9-float32(i)*0.01))
	}
	store := &stubStore{vectorDocs: docs}
	r := NewHybridRetriever(&stubEmbedder{}, store)

	result, err := r.Search(context.Background(), "short to it", 0)
	require.NoError(t, err)
	assert.Len(t, result.Hits, MergedCap)
}

func TestSearchExplicitK(t *testing.T) {
	var docs []*schema.Document
	for i := 0; i < VectorTopK; i++ {
		docs = append(docs, doc(fmt.Sprintf("distinct vector chunk number %02d", i), 0.9-float32(i)*0.01))
	}
	store := &stubStore{vectorDocs: docs}
	r := NewHybridRetriever(&stubEmbedder{}, store)

	result, err := r.Search(context.Background(), "short to it", 3)
	require.NoError(t, err)
	require.Len(t, result.Hits, 3)
	// Highest-scored vector hits survive the cap.
	assert.Equal(t, "distinct vector chunk number 00", result.Hits[0].Text)
}

func TestSearchDedupByPrefix(t *testing.T) {
	prefix := strings.Repeat("p", dedupPrefixChars)
	store := &stubStore{
		vectorDocs: []*schema.Document{
			doc(prefix+" tail one", 0.8),
			doc(prefix+" tail two differs after the prefix", 0.7),
		},
	}
	r := NewHybridRetriever(&stubEmbedder{}, store)

	result, err := r.Search(context.Background(), "is", 0)
	require.NoError(t, err)
	// Texts identical over the first 200 characters collapse to one hit.
	assert.Len(t, result.Hits, 1)
}

func TestSearchTruncatesLongHits(t *testing.T) {
	store := &stubStore{
		vectorDocs: []*schema.Document{doc(strings.Repeat("x", HitMaxChars+100), 0.5)},
	}
	r := NewHybridRetriever(&stubEmbedder{}, store)

	result, err := r.Search(context.Background(), "is", 0)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Len(t, result.Hits[0].Text, HitMaxChars)
}

func TestAssembleContextFlattensNewlines(t *testing.T) {
	store := &stubStore{
		vectorDocs: []*schema.Document{
			doc("line one\nline two", 0.6),
			doc("second chunk", 0.5),
		},
	}
	r := NewHybridRetriever(&stubEmbedder{}, store)

	result, err := r.Search(context.Background(), "is", 0)
	require.NoError(t, err)
	assert.Equal(t, "- line one line two\n- second chunk", result.Context)
}

func TestSearchEmptyEverything(t *testing.T) {
	r := NewHybridRetriever(&stubEmbedder{fail: true}, &stubStore{})

	result, err := r.Search(context.Background(), "???", 0)
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
	assert.Empty(t, result.Context)
	assert.Nil(t, result.TopScore)
	assert.Equal(t, LegSkipped, result.Legs[1].Outcome)
}
