package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Malowking/flowpilot/core/agent"
	"github.com/Malowking/flowpilot/core/retriever"
	"github.com/Malowking/flowpilot/internal/dao"
	gormModel "github.com/Malowking/flowpilot/internal/model/gorm"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

const (
	// MaxMemoryHits 记忆检索返回的最大条数
	MaxMemoryHits = 6
	// PreviewChars 每条记忆预览的最大字符数
	PreviewChars = 300
)

// Manager 会话历史管理器,负责会话创建、轮次审计与用户记忆检索
type Manager struct{}

// NewManager 创建历史管理器
func NewManager() *Manager {
	return &Manager{}
}

// EnsureSession 确保会话存在:已有ID且存在则复用,否则新建
func (h *Manager) EnsureSession(ctx context.Context, sessionID, userID string) (string, error) {
	if sessionID != "" {
		session, err := dao.Session.GetByID(ctx, sessionID)
		if err != nil {
			return "", err
		}
		if session != nil {
			return session.SessionID, nil
		}
	}

	session := &gormModel.Session{
		SessionID: sessionID,
		UserID:    userID,
	}
	if err := dao.Session.Create(ctx, session); err != nil {
		return "", err
	}
	return session.SessionID, nil
}

// SaveTurn 将一轮问答落库:用户消息一条,助手回复一条,
// 元数据记录模式、检索分数、弃答标记与延迟
func (h *Manager) SaveTurn(ctx context.Context, turn *agent.Turn) error {
	metadata := map[string]interface{}{
		"mode":    turn.Mode,
		"abstain": turn.Abstain,
	}
	if turn.TopScore != nil {
		metadata["top_score"] = *turn.TopScore
	}
	if turn.SecretDetected {
		metadata["secret_detected"] = true
	}
	if turn.InjectionDetected {
		metadata["injection_detected"] = true
	}
	if turn.Error != "" {
		metadata["error"] = turn.Error
	}

	data, err := sonic.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal turn metadata: %w", err)
	}
	metadataJSON := gormModel.JSON(data)

	now := time.Now()
	messages := []*gormModel.Message{
		{
			MsgID:      generateMessageID(),
			SessionID:  turn.SessionID,
			UserID:     turn.UserID,
			Role:       "user",
			Content:    turn.Query,
			Metadata:   metadataJSON,
			CreateTime: &now,
		},
	}
	if turn.Answer != "" {
		messages = append(messages, &gormModel.Message{
			MsgID:      generateMessageID(),
			SessionID:  turn.SessionID,
			UserID:     turn.UserID,
			Role:       "assistant",
			Content:    turn.Answer,
			LatencyMs:  int(turn.LatencyMS),
			Metadata:   metadataJSON,
			CreateTime: &now,
		})
	}

	return dao.Message.CreateBatch(ctx, messages)
}

// SearchUserMessages 在用户既往提问中检索与当前问题相关的片段,
// 作为"用户记忆"上下文。按关键词逐个查询,去重后最多返回
// MaxMemoryHits 条预览
func (h *Manager) SearchUserMessages(ctx context.Context, userID, query string) ([]string, error) {
	keywords := retriever.ExtractKeywords(query)
	if len(keywords) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{})
	var previews []string
	for _, keyword := range keywords {
		if len(previews) >= MaxMemoryHits {
			break
		}
		messages, err := dao.Message.SearchUserContent(ctx, userID, keyword, MaxMemoryHits)
		if err != nil {
			return nil, err
		}
		for _, msg := range messages {
			if _, ok := seen[msg.MsgID]; ok {
				continue
			}
			seen[msg.MsgID] = struct{}{}
			previews = append(previews, Preview(msg.Content))
			if len(previews) >= MaxMemoryHits {
				break
			}
		}
	}
	return previews, nil
}

// Preview 截取消息内容的前 PreviewChars 个字符并压平换行
func Preview(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) > PreviewChars {
		return string(runes[:PreviewChars])
	}
	return flat
}

// generateMessageID 生成消息ID,格式：msg_uuid（无连接符）
func generateMessageID() string {
	return fmt.Sprintf("msg_%s", strings.ReplaceAll(uuid.New().String(), "-", ""))
}
