package dao

import (
	"context"

	gormModel "github.com/Malowking/flowpilot/internal/model/gorm"
	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"
	"gorm.io/gorm"
)

// DocumentDAO 知识文档数据访问对象,供索引器以source键做幂等替换
type DocumentDAO struct{}

var Document = &DocumentDAO{}

// FindBySource 按来源键查找文档
func (d *DocumentDAO) FindBySource(ctx context.Context, source string) (string, bool, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	var doc gormModel.KnowledgeDocument
	err := GetDB().WithContext(ctx).Where("source = ?", source).First(&doc).Error
	if err == gorm.ErrRecordNotFound {
		return "", false, nil
	}
	if err != nil {
		g.Log().Errorf(ctx, "查询知识文档失败: %v", err)
		return "", false, err
	}
	return doc.ID, true, nil
}

// Insert 创建文档行并返回生成的ID
func (d *DocumentDAO) Insert(ctx context.Context, source, title string, metadata map[string]interface{}) (string, error) {
	doc := &gormModel.KnowledgeDocument{
		Source: source,
		Title:  title,
	}
	if metadata != nil {
		data, err := sonic.Marshal(metadata)
		if err != nil {
			return "", err
		}
		doc.Metadata = gormModel.JSON(data)
	}
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	if err := GetDB().WithContext(ctx).Create(doc).Error; err != nil {
		g.Log().Errorf(ctx, "创建知识文档失败: %v", err)
		return "", err
	}
	return doc.ID, nil
}

// Delete 删除文档行
func (d *DocumentDAO) Delete(ctx context.Context, id string) error {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	if err := GetDB().WithContext(ctx).Where("id = ?", id).Delete(&gormModel.KnowledgeDocument{}).Error; err != nil {
		g.Log().Errorf(ctx, "删除知识文档失败: %v", err)
		return err
	}
	return nil
}

// List 分页获取文档列表
func (d *DocumentDAO) List(ctx context.Context, page, pageSize int) ([]*gormModel.KnowledgeDocument, int64, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	var docs []*gormModel.KnowledgeDocument
	var total int64

	query := GetDB().WithContext(ctx).Model(&gormModel.KnowledgeDocument{})
	if err := query.Count(&total).Error; err != nil {
		g.Log().Errorf(ctx, "统计知识文档总数失败: %v", err)
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("create_time DESC").Find(&docs).Error; err != nil {
		g.Log().Errorf(ctx, "查询知识文档列表失败: %v", err)
		return nil, 0, err
	}
	return docs, total, nil
}
