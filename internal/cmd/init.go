package cmd

import (
	"context"

	"github.com/Malowking/flowpilot/core/config"
	"github.com/Malowking/flowpilot/internal/dao"
	"github.com/Malowking/flowpilot/internal/service"
	"github.com/gogf/gf/v2/frame/g"
)

// InitAll initializes all components of the application
func init() {
	ctx := context.Background()

	// Validate configuration before initializing components
	g.Log().Info(ctx, "Validating application configuration...")
	err := config.ValidateConfiguration(ctx)
	if err != nil {
		g.Log().Fatalf(ctx, "Configuration validation failed:\n%v", err)
	}

	// Initialize audit database
	err = dao.InitDB()
	if err != nil {
		g.Log().Fatalf(ctx, "Database connection initialization failed: %v", err)
	}

	// Initialize pgvector chunk store
	_, err = service.GetVectorStore()
	if err != nil {
		g.Log().Fatalf(ctx, "Vector store initialization failed: %v", err)
	}

	// Initialize document indexer
	_, err = service.GetIndexer()
	if err != nil {
		g.Log().Fatalf(ctx, "Indexer initialization failed: %v", err)
	}

	// Initialize question-answering agent
	_, err = service.GetAgent()
	if err != nil {
		g.Log().Fatalf(ctx, "Agent initialization failed: %v", err)
	}

	g.Log().Info(ctx, "✓ All components initialized successfully")
}
