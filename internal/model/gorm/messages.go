package gorm

import (
	"time"
)

// Message 消息表,一问一答各落一行,只追加不回改
type Message struct {
	ID         uint64     `gorm:"primaryKey;column:id;type:bigint"`
	MsgID      string     `gorm:"column:msg_id;type:varchar(64);uniqueIndex;not null"` // 消息ID
	SessionID  string     `gorm:"column:session_id;type:varchar(64);not null;index"`   // 会话ID
	UserID     string     `gorm:"column:user_id;type:varchar(64);index"`               // 用户ID
	Role       string     `gorm:"column:role;type:varchar(20);not null"`               // 角色
	Content    string     `gorm:"column:content;type:text"`                            // 消息文本
	LatencyMs  int        `gorm:"column:latency_ms;type:int"`                          // 延迟毫秒数
	Metadata   JSON       `gorm:"column:metadata;type:json"`                           // 模式/分数/弃答等扩展信息
	CreateTime *time.Time `gorm:"column:create_time"`                                  // 创建时间
}

// TableName 设置表名
func (Message) TableName() string {
	return "messages"
}
