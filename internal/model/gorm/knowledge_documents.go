package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KnowledgeDocument 知识文档表,source为幂等键,重复摄取整体替换
type KnowledgeDocument struct {
	ID         string     `gorm:"primaryKey;column:id;type:varchar(64)"`
	Source     string     `gorm:"column:source;type:varchar(512);uniqueIndex;not null"` // 来源键（文件路径或外部标识）
	Title      string     `gorm:"column:title;type:varchar(255)"`                       // 文档标题（通常为文件名）
	Metadata   JSON       `gorm:"column:metadata;type:json"`                            // 扩展元数据
	CreateTime *time.Time `gorm:"column:create_time;type:timestamp;autoCreateTime"`
	UpdateTime *time.Time `gorm:"column:update_time;type:timestamp;autoUpdateTime"`
}

// TableName 设置表名
func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}

// BeforeCreate GORM钩子：创建前自动生成UUID
func (d *KnowledgeDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
