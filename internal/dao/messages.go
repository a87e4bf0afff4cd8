package dao

import (
	"context"

	gormModel "github.com/Malowking/flowpilot/internal/model/gorm"
	"github.com/gogf/gf/v2/frame/g"
)

// MessageDAO 消息数据访问对象
type MessageDAO struct{}

var Message = &MessageDAO{}

// Create 创建消息
func (d *MessageDAO) Create(ctx context.Context, message *gormModel.Message) error {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	if err := GetDB().WithContext(ctx).Create(message).Error; err != nil {
		g.Log().Errorf(ctx, "创建消息失败: %v", err)
		return err
	}
	return nil
}

// CreateBatch 同一事务内写入一轮问答的多条消息
func (d *MessageDAO) CreateBatch(ctx context.Context, messages []*gormModel.Message) error {
	if len(messages) == 0 {
		return nil
	}
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	if err := GetDB().WithContext(ctx).Create(messages).Error; err != nil {
		g.Log().Errorf(ctx, "批量创建消息失败: %v", err)
		return err
	}
	return nil
}

// ListBySessionID 根据会话ID获取消息列表
func (d *MessageDAO) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]*gormModel.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	var messages []*gormModel.Message
	err := GetDB().WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("create_time ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		g.Log().Errorf(ctx, "查询消息列表失败: %v", err)
		return nil, err
	}
	return messages, nil
}

// SearchUserContent 在用户的历史消息中做大小写不敏感的子串检索
func (d *MessageDAO) SearchUserContent(ctx context.Context, userID, keyword string, limit int) ([]*gormModel.Message, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	var messages []*gormModel.Message
	err := GetDB().WithContext(ctx).
		Where("user_id = ? AND role = ? AND LOWER(content) LIKE LOWER(?)",
			userID, "user", "%"+keyword+"%").
		Order("create_time DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		g.Log().Errorf(ctx, "检索用户历史消息失败: %v", err)
		return nil, err
	}
	return messages, nil
}
