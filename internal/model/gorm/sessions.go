package gorm

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session 会话表
type Session struct {
	SessionID  string     `gorm:"primaryKey;column:session_id;type:varchar(64)"`   // 会话ID（主键，格式：sess_uuid）
	UserID     string     `gorm:"column:user_id;type:varchar(64);not null;index"`  // 用户ID
	Title      string     `gorm:"column:title;type:varchar(255)"`                  // 会话标题
	Status     string     `gorm:"column:status;type:varchar(20);default:'active'"` // 状态
	Metadata   JSON       `gorm:"column:metadata;type:json"`                       // 扩展元数据
	CreateTime *time.Time `gorm:"column:create_time;autoCreateTime"`               // 创建时间
	UpdateTime *time.Time `gorm:"column:update_time;autoUpdateTime"`               // 更新时间
}

// TableName 设置表名
func (Session) TableName() string {
	return "sessions"
}

// BeforeCreate GORM钩子：创建前自动生成SessionID
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.SessionID == "" {
		s.SessionID = fmt.Sprintf("sess_%s", strings.ReplaceAll(uuid.New().String(), "-", ""))
	}
	return nil
}
