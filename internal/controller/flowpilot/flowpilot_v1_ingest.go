package flowpilot

import (
	"context"
	"fmt"

	v1 "github.com/Malowking/flowpilot/api/flowpilot/v1"
	"github.com/Malowking/flowpilot/core/config"
	"github.com/Malowking/flowpilot/core/indexer"
	"github.com/Malowking/flowpilot/internal/service"
	"github.com/gogf/gf/v2/frame/g"
)

// IngestFile 索引单个本地文件
func (c *ControllerV1) IngestFile(ctx context.Context, req *v1.IngestFileReq) (res *v1.IngestFileRes, err error) {
	g.Log().Infof(ctx, "IngestFile request received - Path: %s", req.Path)

	ix, err := service.GetIndexer()
	if err != nil {
		return nil, err
	}

	doc, err := indexer.LoadFile(req.Path, config.LoadIndexerConfig(ctx))
	if err != nil {
		return nil, err
	}

	docID, err := ix.Ingest(ctx, doc)
	if err != nil {
		return nil, err
	}

	g.Log().Infof(ctx, "文件索引完成 - Path: %s, DocID: %s", req.Path, docID)
	return &v1.IngestFileRes{DocID: docID}, nil
}

// IngestFolder 索引知识目录下所有支持的文件
func (c *ControllerV1) IngestFolder(ctx context.Context, req *v1.IngestFolderReq) (res *v1.IngestFolderRes, err error) {
	g.Log().Infof(ctx, "IngestFolder request received - Dir: %s", req.Dir)

	ix, err := service.GetIndexer()
	if err != nil {
		return nil, err
	}

	count, err := ix.IngestDir(ctx, req.Dir)
	if err != nil {
		return nil, err
	}

	return &v1.IngestFolderRes{
		Indexed: count,
		Message: fmt.Sprintf("indexed %d documents from %s", count, req.Dir),
	}, nil
}
