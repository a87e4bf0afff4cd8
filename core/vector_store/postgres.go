package vector_store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Malowking/flowpilot/core/errors"
	"github.com/Malowking/flowpilot/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

const (
	// chunkTable 统一的知识块表，位于独立的 vectors schema
	chunkTable = "vectors.knowledge_chunks"
	// maxChunkChars 单条chunk落库的内容上限
	maxChunkChars = 65535
	// queryTimeout 单次数据库调用的统一超时
	// ghttp的请求context不携带deadline,不加超时则Postgres挂起会阻塞整轮请求
	queryTimeout = 15 * time.Second
)

// storeCtx 为一次存储调用派生带超时的context
func storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// PostgresStore PostgreSQL+pgvector向量存储实现
type PostgresStore struct {
	pool *pgxpool.Pool
	dim  int // 向量维度
}

// InitializePostgresStore 根据配置初始化PostgreSQL向量存储
func InitializePostgresStore(ctx context.Context) (VectorStore, error) {
	host := g.Cfg().MustGet(ctx, "postgres.host", "").String()
	port := g.Cfg().MustGet(ctx, "postgres.port", "5432").String()
	user := g.Cfg().MustGet(ctx, "postgres.user", "").String()
	password := g.Cfg().MustGet(ctx, "postgres.password", "").String()
	database := g.Cfg().MustGet(ctx, "postgres.database", "").String()
	sslMode := g.Cfg().MustGet(ctx, "postgres.sslmode", "disable").String()
	dim := g.Cfg().MustGet(ctx, "postgres.dim", 1536).Int()

	if host == "" || user == "" || database == "" {
		return nil, errors.Newf(errors.ErrVectorStoreInit, "postgres configuration is incomplete. Required: host, user, database")
	}

	var connStr string
	if password != "" {
		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, database, sslMode)
	} else {
		connStr = fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
			host, port, user, database, sslMode)
	}

	g.Log().Infof(ctx, "Connecting to PostgreSQL at: %s:%s, database: %s", host, port, database)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to create postgres connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to ping postgres: %v", err)
	}

	return &PostgresStore{pool: pool, dim: dim}, nil
}

// NewPostgresStore 使用现有连接池创建向量存储实例
func NewPostgresStore(pool *pgxpool.Pool, dim int) (VectorStore, error) {
	if pool == nil {
		return nil, errors.Newf(errors.ErrInvalidParameter, "pool cannot be nil")
	}
	if dim <= 0 {
		return nil, errors.Newf(errors.ErrInvalidParameter, "vector dimension must be positive")
	}
	return &PostgresStore{pool: pool, dim: dim}, nil
}

// EnsureSchema 创建pgvector扩展、vectors schema、chunk表与索引
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var extensionExists bool
	err := p.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector')").Scan(&extensionExists)
	if err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to check pgvector extension: %v", err)
	}

	if !extensionExists {
		g.Log().Infof(ctx, "pgvector extension not found, attempting to create...")
		if _, err = p.pool.Exec(ctx, "CREATE EXTENSION vector"); err != nil {
			return errors.Newf(errors.ErrVectorStoreInit, "failed to create pgvector extension: %v. Please ensure pgvector is installed for your PostgreSQL version", err)
		}
	}

	if _, err = p.pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS vectors"); err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to create vectors schema: %v", err)
	}

	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			document_id UUID NOT NULL,
			chunk_index INT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d),
			metadata JSONB
		)
	`, chunkTable, p.dim)
	if _, err = p.pool.Exec(ctx, createTableSQL); err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to create table %s: %v", chunkTable, err)
	}

	indexSQLs := []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_knowledge_chunks_document_id ON %s (document_id)", chunkTable),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_knowledge_chunks_embedding ON %s USING hnsw (embedding vector_cosine_ops)", chunkTable),
	}
	for _, indexSQL := range indexSQLs {
		if _, err = p.pool.Exec(ctx, indexSQL); err != nil {
			return errors.Newf(errors.ErrVectorStoreInit, "failed to create index on %s: %v", chunkTable, err)
		}
	}

	g.Log().Infof(ctx, "Table '%s' ready with dimension %d", chunkTable, p.dim)
	return nil
}

// InsertChunks 在单个事务中插入一个文档的全部chunks
// 任意一条失败则整个事务回滚，避免留下半截文档
func (p *PostgresStore) InsertChunks(ctx context.Context, documentID string, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, errors.Newf(errors.ErrVectorInsert, "chunks length (%d) doesn't match vectors length (%d)", len(chunks), len(vectors))
	}
	if documentID == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "documentID cannot be empty")
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	ids := make([]string, len(chunks))

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorInsert, "failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	insertSQL := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, chunk_index, content, embedding, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, chunkTable)

	for idx, chunk := range chunks {
		if len(chunk.ID) == 0 {
			chunk.ID = uuid.New().String()
		}
		ids[idx] = chunk.ID

		content := truncateString(chunk.Content, maxChunkChars)

		// pgvector文本形式为 [0.1,0.2,...]，与向量列的wire format一致
		pgVector := pgvector.NewVector(vectors[idx])

		var metaBytes []byte
		if chunk.MetaData != nil {
			metaBytes, err = json.Marshal(chunk.MetaData)
			if err != nil {
				return nil, errors.Newf(errors.ErrVectorInsert, "failed to marshal metadata: %v", err)
			}
		}

		_, err = tx.Exec(ctx, insertSQL, chunk.ID, documentID, idx, content, pgVector, metaBytes)
		if err != nil {
			return nil, errors.Newf(errors.ErrVectorInsert, "failed to insert vector for chunk %s: %v", chunk.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Newf(errors.ErrVectorInsert, "failed to commit transaction: %v", err)
	}

	g.Log().Infof(ctx, "Successfully inserted %d vectors into '%s' for document %s", len(chunks), chunkTable, documentID)
	return ids, nil
}

// DeleteByDocumentID 根据文档ID删除所有相关chunks
func (p *PostgresStore) DeleteByDocumentID(ctx context.Context, documentID string) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	result, err := p.pool.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE document_id = $1", chunkTable),
		documentID,
	)
	if err != nil {
		return errors.Newf(errors.ErrVectorDelete, "failed to delete chunks of document %s: %v", documentID, err)
	}

	rowsAffected := result.RowsAffected()
	g.Log().Infof(ctx, "Delete operation completed for document %s, affected rows: %d", documentID, rowsAffected)
	return nil
}

// VectorSearch 余弦相似度检索
// COSINE距离: 0=相同, 2=相反；转换为相似度 1-(distance)
func (p *PostgresStore) VectorSearch(ctx context.Context, vector []float32, topK int) ([]*schema.Document, error) {
	if topK <= 0 {
		topK = 10
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	queryVector := pgvector.NewVector(vector)

	searchSQL := fmt.Sprintf(`
		SELECT id, content, document_id, metadata,
		       1 - (embedding <=> $1) AS similarity_score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, chunkTable)

	rows, err := p.pool.Query(ctx, searchSQL, queryVector, topK)
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorSearch, "failed to execute vector search: %v", err)
	}
	defer rows.Close()

	var results []*schema.Document
	for rows.Next() {
		var id, content, documentID string
		var metadataBytes []byte
		var score float64

		if err := rows.Scan(&id, &content, &documentID, &metadataBytes, &score); err != nil {
			return nil, errors.Newf(errors.ErrVectorSearch, "failed to scan row: %v", err)
		}

		doc := &schema.Document{
			ID:      id,
			Content: content,
			Score:   float32(score),
			MetaData: map[string]interface{}{
				"document_id": documentID,
			},
		}
		if len(metadataBytes) > 0 {
			m := make(map[string]interface{})
			if err := json.Unmarshal(metadataBytes, &m); err == nil {
				for k, v := range m {
					doc.MetaData[k] = v
				}
			}
		}
		results = append(results, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Newf(errors.ErrVectorSearch, "row iteration failed: %v", err)
	}

	return results, nil
}

// KeywordSearch 关键词匹配检索，返回结果不携带相似度分数
func (p *PostgresStore) KeywordSearch(ctx context.Context, keyword string, limit int) ([]*schema.Document, error) {
	if keyword == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "keyword cannot be empty")
	}
	if limit <= 0 {
		limit = 8
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	searchSQL := fmt.Sprintf(`
		SELECT id, content, document_id
		FROM %s
		WHERE content ILIKE '%%' || $1 || '%%'
		ORDER BY chunk_index
		LIMIT $2
	`, chunkTable)

	rows, err := p.pool.Query(ctx, searchSQL, keyword, limit)
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorSearch, "failed to execute keyword search: %v", err)
	}
	defer rows.Close()

	var results []*schema.Document
	for rows.Next() {
		var id, content, documentID string
		if err := rows.Scan(&id, &content, &documentID); err != nil {
			return nil, errors.Newf(errors.ErrVectorSearch, "failed to scan row: %v", err)
		}
		results = append(results, &schema.Document{
			ID:      id,
			Content: content,
			MetaData: map[string]interface{}{
				"document_id": documentID,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Newf(errors.ErrVectorSearch, "row iteration failed: %v", err)
	}

	return results, nil
}

// CountByDocumentID 统计文档的chunk数量
func (p *PostgresStore) CountByDocumentID(ctx context.Context, documentID string) (int, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var count int
	err := p.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE document_id = $1", chunkTable),
		documentID,
	).Scan(&count)
	if err != nil {
		return 0, errors.Newf(errors.ErrDatabaseQuery, "failed to count chunks of document %s: %v", documentID, err)
	}
	return count, nil
}

// Close 释放连接池
func (p *PostgresStore) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
