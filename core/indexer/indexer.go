package indexer

import (
	"context"
	"strings"

	"github.com/Malowking/flowpilot/core/config"
	"github.com/Malowking/flowpilot/core/errors"
	"github.com/Malowking/flowpilot/core/vector_store"
	"github.com/Malowking/flowpilot/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// Embedder 向量化接口，响应顺序与输入顺序一致
type Embedder interface {
	EmbedStrings(ctx context.Context, texts []string) ([][]float32, error)
}

// DocumentStore 文档行存储接口（关系库中的knowledge_documents表）
type DocumentStore interface {
	// FindBySource 按source key查找文档，未找到时found=false
	FindBySource(ctx context.Context, source string) (id string, found bool, err error)
	// Insert 插入文档行并返回其ID
	Insert(ctx context.Context, source, title string, metadata map[string]interface{}) (string, error)
	// Delete 删除文档行
	Delete(ctx context.Context, id string) error
}

// Document 待索引的文档：chunks已由chunker切分完毕
type Document struct {
	Source   string // 稳定的source key（如文件路径）
	Title    string
	Metadata map[string]interface{}
	Chunks   []string
}

// Indexer 负责将文档chunks向量化并写入存储
// 同一source key重复索引时采用整体替换语义：旧chunks与文档行先删除
type Indexer struct {
	embedder Embedder
	docs     DocumentStore
	vectors  vector_store.VectorStore
	conf     *config.IndexerConfig
}

// NewIndexer 创建Indexer
func NewIndexer(embedder Embedder, docs DocumentStore, vectors vector_store.VectorStore, conf *config.IndexerConfig) *Indexer {
	if conf == nil {
		conf = &config.IndexerConfig{}
	}
	if conf.BatchSize <= 0 {
		conf.BatchSize = 64
	}
	return &Indexer{
		embedder: embedder,
		docs:     docs,
		vectors:  vectors,
		conf:     conf,
	}
}

// Ingest 索引一个文档，返回文档ID。对同一source key幂等：
// 再次索引会先清理旧chunks和文档行，再整体重建
func (ix *Indexer) Ingest(ctx context.Context, doc *Document) (string, error) {
	if doc == nil || strings.TrimSpace(doc.Source) == "" {
		return "", errors.Newf(errors.ErrInvalidParameter, "document source cannot be empty")
	}

	// 清理chunks：trim后为空的丢弃，保持下标从0连续
	var chunks []string
	for _, c := range doc.Chunks {
		if t := strings.TrimSpace(c); t != "" {
			chunks = append(chunks, t)
		}
	}
	if len(chunks) == 0 {
		return "", errors.Newf(errors.ErrIngestionFailed, "document %s has no usable content", doc.Source)
	}

	// 整体替换：先删旧chunks，再删文档行
	existingID, found, err := ix.docs.FindBySource(ctx, doc.Source)
	if err != nil {
		return "", err
	}
	if found {
		g.Log().Infof(ctx, "Found existing document for source %s, cleaning old chunks...", doc.Source)
		if err := ix.vectors.DeleteByDocumentID(ctx, existingID); err != nil {
			return "", err
		}
		if err := ix.docs.Delete(ctx, existingID); err != nil {
			return "", err
		}
	}

	docID, err := ix.docs.Insert(ctx, doc.Source, doc.Title, doc.Metadata)
	if err != nil {
		return "", err
	}

	// 分批embedding，第k个向量对应第k个chunk
	vectors, err := ix.embedBatches(ctx, chunks)
	if err != nil {
		ix.cleanupFailed(ctx, docID)
		return "", err
	}

	chunkDocs := make([]*schema.Document, len(chunks))
	for i, c := range chunks {
		chunkDocs[i] = &schema.Document{
			Content: c,
			MetaData: map[string]interface{}{
				"filename": doc.Title,
			},
		}
	}

	// 单条插入失败会使整个事务失败：不容忍半截文档
	if _, err := ix.vectors.InsertChunks(ctx, docID, chunkDocs, vectors); err != nil {
		ix.cleanupFailed(ctx, docID)
		return "", err
	}

	g.Log().Infof(ctx, "Ingested %s: %d chunks", doc.Source, len(chunks))
	return docID, nil
}

// embedBatches 按固定批大小请求embedding，保持批内顺序
func (ix *Indexer) embedBatches(ctx context.Context, chunks []string) ([][]float32, error) {
	batchSize := ix.conf.BatchSize
	all := make([][]float32, 0, len(chunks))
	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		vectors, err := ix.embedder.EmbedStrings(ctx, chunks[i:end])
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}
	return all, nil
}

// cleanupFailed 回收失败ingestion创建的文档行，调用方整体重试即可
func (ix *Indexer) cleanupFailed(ctx context.Context, docID string) {
	if err := ix.docs.Delete(ctx, docID); err != nil {
		g.Log().Warningf(ctx, "Failed to clean up document row %s after aborted ingestion: %v", docID, err)
	}
}
