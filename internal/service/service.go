package service

import (
	"context"
	"sync"

	"github.com/Malowking/flowpilot/core/agent"
	"github.com/Malowking/flowpilot/core/config"
	"github.com/Malowking/flowpilot/core/embedding"
	"github.com/Malowking/flowpilot/core/errors"
	"github.com/Malowking/flowpilot/core/generation"
	"github.com/Malowking/flowpilot/core/indexer"
	"github.com/Malowking/flowpilot/core/retriever"
	"github.com/Malowking/flowpilot/core/vector_store"
	"github.com/Malowking/flowpilot/internal/dao"
	"github.com/Malowking/flowpilot/internal/history"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/gctx"
)

var (
	storeOnce    sync.Once
	vectorClient vector_store.VectorStore
	storeErr     error

	agentOnce   sync.Once
	agentClient *agent.Agent
	agentErr    error

	indexerOnce   sync.Once
	indexerClient *indexer.Indexer
	indexerErr    error
)

// GetVectorStore returns the singleton pgvector chunk store.
func GetVectorStore() (vector_store.VectorStore, error) {
	storeOnce.Do(func() {
		ctx := gctx.New()
		vectorClient, storeErr = initializeVectorStore(ctx)
	})
	return vectorClient, storeErr
}

func initializeVectorStore(ctx context.Context) (vector_store.VectorStore, error) {
	store, err := vector_store.InitializePostgresStore(ctx)
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to initialize PostgreSQL vector store: %v", err)
	}
	if err = store.EnsureSchema(ctx); err != nil {
		return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to ensure chunk schema: %v", err)
	}
	g.Log().Info(ctx, "PostgreSQL vector store initialized successfully")
	return store, nil
}

// GetIndexer returns the singleton document indexer.
func GetIndexer() (*indexer.Indexer, error) {
	indexerOnce.Do(func() {
		ctx := gctx.New()
		indexerClient, indexerErr = initializeIndexer(ctx)
	})
	return indexerClient, indexerErr
}

func initializeIndexer(ctx context.Context) (*indexer.Indexer, error) {
	embedder, err := embedding.NewClient(config.LoadEmbeddingConfig(ctx))
	if err != nil {
		return nil, err
	}
	store, err := GetVectorStore()
	if err != nil {
		return nil, err
	}
	return indexer.NewIndexer(embedder, dao.Document, store, config.LoadIndexerConfig(ctx)), nil
}

// GetAgent returns the singleton question-answering agent.
func GetAgent() (*agent.Agent, error) {
	agentOnce.Do(func() {
		ctx := gctx.New()
		agentClient, agentErr = initializeAgent(ctx)
	})
	return agentClient, agentErr
}

func initializeAgent(ctx context.Context) (*agent.Agent, error) {
	embedder, err := embedding.NewClient(config.LoadEmbeddingConfig(ctx))
	if err != nil {
		return nil, err
	}
	generator, err := generation.NewClient(config.LoadChatConfig(ctx))
	if err != nil {
		return nil, err
	}
	store, err := GetVectorStore()
	if err != nil {
		return nil, err
	}

	hybrid := retriever.NewHybridRetriever(embedder, store)
	manager := history.NewManager()
	return agent.NewAgent(hybrid, manager, generator, manager, config.LoadAgentConfig(ctx)), nil
}
