package dao

import (
	"context"

	gormModel "github.com/Malowking/flowpilot/internal/model/gorm"
	"github.com/gogf/gf/v2/frame/g"
	"gorm.io/gorm"
)

// SessionDAO 会话数据访问对象
type SessionDAO struct{}

var Session = &SessionDAO{}

// Create 创建会话
func (d *SessionDAO) Create(ctx context.Context, session *gormModel.Session) error {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	if err := GetDB().WithContext(ctx).Create(session).Error; err != nil {
		g.Log().Errorf(ctx, "创建会话失败: %v", err)
		return err
	}
	return nil
}

// GetByID 根据会话ID获取会话
func (d *SessionDAO) GetByID(ctx context.Context, sessionID string) (*gormModel.Session, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	var session gormModel.Session
	if err := GetDB().WithContext(ctx).Where("session_id = ?", sessionID).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		g.Log().Errorf(ctx, "查询会话失败: %v", err)
		return nil, err
	}
	return &session, nil
}

// ListByUserID 获取用户的会话列表
func (d *SessionDAO) ListByUserID(ctx context.Context, userID string, limit int) ([]*gormModel.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	var sessions []*gormModel.Session
	err := GetDB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("create_time DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		g.Log().Errorf(ctx, "查询会话列表失败: %v", err)
		return nil, err
	}
	return sessions, nil
}
