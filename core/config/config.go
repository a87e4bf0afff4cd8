package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/gogf/gf/v2/frame/g"
)

// ValidateConfiguration validates all required configuration items
func ValidateConfiguration(ctx context.Context) error {
	var missingConfigs []string
	var warnings []string

	// 验证 Embedding 配置
	embeddingAPIKey := g.Cfg().MustGet(ctx, "embedding.apiKey", "").String()
	embeddingBaseURL := g.Cfg().MustGet(ctx, "embedding.baseURL", "").String()
	embeddingModel := g.Cfg().MustGet(ctx, "embedding.model", "").String()

	if embeddingAPIKey == "" {
		missingConfigs = append(missingConfigs, "embedding.apiKey")
	}
	if embeddingBaseURL == "" {
		missingConfigs = append(missingConfigs, "embedding.baseURL")
	}
	if embeddingModel == "" {
		missingConfigs = append(missingConfigs, "embedding.model")
	}

	// 验证 Chat 配置
	chatAPIKey := g.Cfg().MustGet(ctx, "chat.apiKey", "").String()
	chatBaseURL := g.Cfg().MustGet(ctx, "chat.baseURL", "").String()
	chatModel := g.Cfg().MustGet(ctx, "chat.model", "").String()

	if chatAPIKey == "" {
		warnings = append(warnings, "chat.apiKey is not set")
	}
	if chatBaseURL == "" {
		warnings = append(warnings, "chat.baseURL is not set")
	}
	if chatModel == "" {
		warnings = append(warnings, "chat.model is not set")
	}

	// 验证向量库(PostgreSQL/pgvector)配置
	pgHost := g.Cfg().MustGet(ctx, "postgres.host", "").String()
	pgUser := g.Cfg().MustGet(ctx, "postgres.user", "").String()
	pgDatabase := g.Cfg().MustGet(ctx, "postgres.database", "").String()

	if pgHost == "" {
		missingConfigs = append(missingConfigs, "postgres.host")
	}
	if pgUser == "" {
		missingConfigs = append(missingConfigs, "postgres.user")
	}
	if pgDatabase == "" {
		missingConfigs = append(missingConfigs, "postgres.database")
	}

	// 验证审计数据库配置
	dbHost := g.Cfg().MustGet(ctx, "database.default.host", "").String()
	dbUser := g.Cfg().MustGet(ctx, "database.default.user", "").String()
	dbName := g.Cfg().MustGet(ctx, "database.default.name", "").String()

	if dbHost == "" {
		missingConfigs = append(missingConfigs, "database.default.host")
	}
	if dbUser == "" {
		missingConfigs = append(missingConfigs, "database.default.user")
	}
	if dbName == "" {
		missingConfigs = append(missingConfigs, "database.default.name")
	}

	if len(warnings) > 0 {
		g.Log().Warningf(ctx, "Configuration warnings:\n- %s", strings.Join(warnings, "\n- "))
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configuration items:\n- %s\n\nPlease check your config.yaml file and ensure all required settings are properly configured", strings.Join(missingConfigs, "\n- "))
	}

	g.Log().Info(ctx, "✓ All required configuration items are present")

	return nil
}

// ServiceConfig 上游服务(embedding/chat)配置
type ServiceConfig struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
}

func (c *ServiceConfig) GetAPIKey() string         { return c.APIKey }
func (c *ServiceConfig) GetBaseURL() string        { return c.BaseURL }
func (c *ServiceConfig) GetEmbeddingModel() string { return c.EmbeddingModel }
func (c *ServiceConfig) GetChatModel() string      { return c.ChatModel }

// LoadEmbeddingConfig 从配置文件读取embedding服务配置
func LoadEmbeddingConfig(ctx context.Context) *ServiceConfig {
	return &ServiceConfig{
		APIKey:         g.Cfg().MustGet(ctx, "embedding.apiKey", "").String(),
		BaseURL:        g.Cfg().MustGet(ctx, "embedding.baseURL", "").String(),
		EmbeddingModel: g.Cfg().MustGet(ctx, "embedding.model", "").String(),
	}
}

// LoadChatConfig 从配置文件读取chat服务配置
func LoadChatConfig(ctx context.Context) *ServiceConfig {
	return &ServiceConfig{
		APIKey:    g.Cfg().MustGet(ctx, "chat.apiKey", "").String(),
		BaseURL:   g.Cfg().MustGet(ctx, "chat.baseURL", "").String(),
		ChatModel: g.Cfg().MustGet(ctx, "chat.model", "").String(),
	}
}

// IndexerConfig Indexer专用配置
type IndexerConfig struct {
	ChunkSize   int // 文本分块大小（默认 900）
	OverlapSize int // 分块重叠大小（默认 120）
	BatchSize   int // embedding批大小（默认 64）
}

// LoadIndexerConfig 从配置文件读取indexer配置
func LoadIndexerConfig(ctx context.Context) *IndexerConfig {
	return &IndexerConfig{
		ChunkSize:   g.Cfg().MustGet(ctx, "indexer.chunkSize", 900).Int(),
		OverlapSize: g.Cfg().MustGet(ctx, "indexer.overlapSize", 120).Int(),
		BatchSize:   g.Cfg().MustGet(ctx, "indexer.batchSize", 64).Int(),
	}
}

// AgentConfig Agent编排配置
type AgentConfig struct {
	SystemPromptPath string // 基础system prompt文件路径
	UserID           string // 当前部署绑定的用户ID（记忆检索用）
}

// LoadAgentConfig 从配置文件读取agent配置
func LoadAgentConfig(ctx context.Context) *AgentConfig {
	return &AgentConfig{
		SystemPromptPath: g.Cfg().MustGet(ctx, "agent.systemPromptPath", "docs/agent-prompt.md").String(),
		UserID:           g.Cfg().MustGet(ctx, "agent.userId", "").String(),
	}
}
