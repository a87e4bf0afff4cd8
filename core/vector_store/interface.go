package vector_store

import (
	"context"

	"github.com/Malowking/flowpilot/pkg/schema"
)

// VectorStore 知识块存储接口：向量检索与关键词检索共用同一份chunk数据
type VectorStore interface {
	// EnsureSchema 创建pgvector扩展、chunk表与索引（如果不存在）
	EnsureSchema(ctx context.Context) error

	// InsertChunks 插入一个文档的全部chunks及其向量
	// vectors[k] 必须对应 chunks[k]；任意一条插入失败则整体失败
	InsertChunks(ctx context.Context, documentID string, chunks []*schema.Document, vectors [][]float32) ([]string, error)

	// DeleteByDocumentID 根据文档ID删除所有相关chunks
	DeleteByDocumentID(ctx context.Context, documentID string) error

	// VectorSearch 向量相似度检索，按相似度降序返回 {content, score}
	VectorSearch(ctx context.Context, vector []float32, topK int) ([]*schema.Document, error)

	// KeywordSearch 关键词检索（ILIKE），score为零值
	KeywordSearch(ctx context.Context, keyword string, limit int) ([]*schema.Document, error)

	// CountByDocumentID 统计文档的chunk数量
	CountByDocumentID(ctx context.Context, documentID string) (int, error)

	// Close 释放底层连接池
	Close()
}
