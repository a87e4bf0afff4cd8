package flowpilot

import (
	"context"

	v1 "github.com/Malowking/flowpilot/api/flowpilot/v1"
	"github.com/Malowking/flowpilot/core/errors"
	"github.com/Malowking/flowpilot/internal/dao"
	"github.com/Malowking/flowpilot/internal/service"
	"github.com/gogf/gf/v2/frame/g"
)

const timeLayout = "2006-01-02 15:04:05"

// DocumentsList 获取已索引文档列表
func (c *ControllerV1) DocumentsList(ctx context.Context, req *v1.DocumentsListReq) (res *v1.DocumentsListRes, err error) {
	docs, total, err := dao.Document.List(ctx, req.Page, req.PageSize)
	if err != nil {
		return nil, errors.Newf(errors.ErrDatabaseQuery, "failed to list documents: %v", err)
	}

	store, err := service.GetVectorStore()
	if err != nil {
		return nil, err
	}

	list := make([]*v1.DocumentItem, 0, len(docs))
	for _, doc := range docs {
		item := &v1.DocumentItem{
			ID:     doc.ID,
			Source: doc.Source,
			Title:  doc.Title,
		}
		if doc.CreateTime != nil {
			item.CreateTime = doc.CreateTime.Format(timeLayout)
		}
		if doc.UpdateTime != nil {
			item.UpdateTime = doc.UpdateTime.Format(timeLayout)
		}
		if count, cerr := store.CountByDocumentID(ctx, doc.ID); cerr == nil {
			item.ChunkCount = count
		} else {
			g.Log().Debugf(ctx, "chunk count unavailable for document %s: %v", doc.ID, cerr)
		}
		list = append(list, item)
	}

	return &v1.DocumentsListRes{
		List:  list,
		Total: total,
		Page:  req.Page,
	}, nil
}

// DocumentDelete 删除文档行及其全部片段
func (c *ControllerV1) DocumentDelete(ctx context.Context, req *v1.DocumentDeleteReq) (res *v1.DocumentDeleteRes, err error) {
	g.Log().Infof(ctx, "DocumentDelete request received - ID: %s", req.ID)

	store, err := service.GetVectorStore()
	if err != nil {
		return nil, err
	}

	// 先删片段再删文档行,与索引时的替换顺序一致
	if err = store.DeleteByDocumentID(ctx, req.ID); err != nil {
		return nil, err
	}
	if err = dao.Document.Delete(ctx, req.ID); err != nil {
		return nil, errors.Newf(errors.ErrOperationFailed, "failed to delete document %s: %v", req.ID, err)
	}

	return &v1.DocumentDeleteRes{Success: true}, nil
}
