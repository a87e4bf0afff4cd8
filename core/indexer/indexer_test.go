package indexer

import (
	"context"
	"fmt"
	"testing"

	"github.com/Malowking/flowpilot/core/config"
	"github.com/Malowking/flowpilot/core/errors"
	"github.com/Malowking/flowpilot/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder returns a one-dimensional vector per text and records
// every submitted batch.
type fakeEmbedder struct {
	batches [][]string
	fail    bool
}

func (f *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return nil, errors.Newf(errors.ErrEmbeddingFailed, "embedding down")
	}
	f.batches = append(f.batches, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i]))}
	}
	return vectors, nil
}

type fakeDocStore struct {
	nextID  int
	bySrc   map[string]string
	deleted []string
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{bySrc: map[string]string{}}
}

func (f *fakeDocStore) FindBySource(ctx context.Context, source string) (string, bool, error) {
	id, ok := f.bySrc[source]
	return id, ok, nil
}

func (f *fakeDocStore) Insert(ctx context.Context, source, title string, metadata map[string]interface{}) (string, error) {
	f.nextID++
	id := fmt.Sprintf("doc-%d", f.nextID)
	f.bySrc[source] = id
	return id, nil
}

func (f *fakeDocStore) Delete(ctx context.Context, id string) error {
	for src, v := range f.bySrc {
		if v == id {
			delete(f.bySrc, src)
		}
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeVectorStore struct {
	chunks     map[string][]*schema.Document // documentID -> chunks
	vectors    map[string][][]float32
	insertFail bool
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{
		chunks:  map[string][]*schema.Document{},
		vectors: map[string][][]float32{},
	}
}

func (f *fakeVectorStore) EnsureSchema(ctx context.Context) error { return nil }

func (f *fakeVectorStore) InsertChunks(ctx context.Context, documentID string, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	if f.insertFail {
		return nil, errors.Newf(errors.ErrVectorInsert, "insert failed")
	}
	f.chunks[documentID] = chunks
	f.vectors[documentID] = vectors
	ids := make([]string, len(chunks))
	for i := range chunks {
		ids[i] = fmt.Sprintf("%s-%d", documentID, i)
	}
	return ids, nil
}

func (f *fakeVectorStore) DeleteByDocumentID(ctx context.Context, documentID string) error {
	delete(f.chunks, documentID)
	delete(f.vectors, documentID)
	return nil
}

func (f *fakeVectorStore) VectorSearch(ctx context.Context, vector []float32, topK int) ([]*schema.Document, error) {
	return nil, nil
}

func (f *fakeVectorStore) KeywordSearch(ctx context.Context, keyword string, limit int) ([]*schema.Document, error) {
	return nil, nil
}

func (f *fakeVectorStore) CountByDocumentID(ctx context.Context, documentID string) (int, error) {
	return len(f.chunks[documentID]), nil
}

func (f *fakeVectorStore) Close() {}

func (f *fakeVectorStore) totalChunks() int {
	n := 0
	for _, cs := range f.chunks {
		n += len(cs)
	}
	return n
}

func TestIngestDropsEmptyChunks(t *testing.T) {
	docs := newFakeDocStore()
	vs := newFakeVectorStore()
	ix := NewIndexer(&fakeEmbedder{}, docs, vs, nil)

	id, err := ix.Ingest(context.Background(), &Document{
		Source: "docs/a.md",
		Title:  "a.md",
		Chunks: []string{"  first  ", "", "   ", "second"},
	})
	require.NoError(t, err)

	stored := vs.chunks[id]
	require.Len(t, stored, 2)
	assert.Equal(t, "first", stored[0].Content)
	assert.Equal(t, "second", stored[1].Content)
	assert.Equal(t, "a.md", stored[0].MetaData["filename"])
}

func TestIngestNoUsableContent(t *testing.T) {
	ix := NewIndexer(&fakeEmbedder{}, newFakeDocStore(), newFakeVectorStore(), nil)

	_, err := ix.Ingest(context.Background(), &Document{
		Source: "docs/empty.txt",
		Chunks: []string{"", "  "},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrIngestionFailed))
}

func TestIngestIdempotentReplace(t *testing.T) {
	docs := newFakeDocStore()
	vs := newFakeVectorStore()
	ix := NewIndexer(&fakeEmbedder{}, docs, vs, nil)

	doc := &Document{
		Source: "docs/policy.md",
		Title:  "policy.md",
		Chunks: []string{"alpha", "beta", "gamma"},
	}

	first, err := ix.Ingest(context.Background(), doc)
	require.NoError(t, err)

	second, err := ix.Ingest(context.Background(), doc)
	require.NoError(t, err)

	// Old document row and its chunks are fully superseded.
	assert.NotEqual(t, first, second)
	assert.Contains(t, docs.deleted, first)
	assert.Equal(t, 3, vs.totalChunks())
	assert.Len(t, vs.chunks[second], 3)
	assert.Empty(t, vs.chunks[first])
}

func TestIngestBatchOrderPreserved(t *testing.T) {
	embedder := &fakeEmbedder{}
	vs := newFakeVectorStore()
	ix := NewIndexer(embedder, newFakeDocStore(), vs, &config.IndexerConfig{BatchSize: 2})

	chunks := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	id, err := ix.Ingest(context.Background(), &Document{
		Source: "docs/batched.txt",
		Chunks: chunks,
	})
	require.NoError(t, err)

	// Batches of 2: [a bb] [ccc dddd] [eeeee].
	require.Len(t, embedder.batches, 3)
	assert.Equal(t, []string{"a", "bb"}, embedder.batches[0])
	assert.Equal(t, []string{"eeeee"}, embedder.batches[2])

	// The k-th vector pairs with the k-th chunk across batch
	// boundaries.
	vectors := vs.vectors[id]
	require.Len(t, vectors, 5)
	for i, c := range chunks {
		assert.Equal(t, float32(len(c)), vectors[i][0], "vector %d", i)
	}
}

func TestIngestEmbeddingFailureAborts(t *testing.T) {
	docs := newFakeDocStore()
	vs := newFakeVectorStore()
	ix := NewIndexer(&fakeEmbedder{fail: true}, docs, vs, nil)

	_, err := ix.Ingest(context.Background(), &Document{
		Source: "docs/x.txt",
		Chunks: []string{"content"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrEmbeddingFailed))

	// No chunks survive and the created document row was rolled back.
	assert.Zero(t, vs.totalChunks())
	assert.Len(t, docs.deleted, 1)
	_, found, _ := docs.FindBySource(context.Background(), "docs/x.txt")
	assert.False(t, found)
}

func TestIngestInsertFailureAborts(t *testing.T) {
	docs := newFakeDocStore()
	vs := newFakeVectorStore()
	vs.insertFail = true
	ix := NewIndexer(&fakeEmbedder{}, docs, vs, nil)

	_, err := ix.Ingest(context.Background(), &Document{
		Source: "docs/y.txt",
		Chunks: []string{"content"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrVectorInsert))
	assert.Zero(t, vs.totalChunks())
	assert.Len(t, docs.deleted, 1)
}
