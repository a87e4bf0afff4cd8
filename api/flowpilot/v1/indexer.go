package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// IngestFileReq 单文件索引请求
type IngestFileReq struct {
	g.Meta `path:"/v1/ingest/file" method:"post" tags:"indexer" summary:"索引本地文件"`
	Path   string `json:"path" v:"required#文件路径不能为空"` // 本地文件路径（.txt/.md/.xlsx/.csv）
}

// IngestFileRes 单文件索引响应
type IngestFileRes struct {
	g.Meta `mime:"application/json"`
	DocID  string `json:"doc_id"` // 文档ID
}

// IngestFolderReq 目录索引请求
type IngestFolderReq struct {
	g.Meta `path:"/v1/ingest/folder" method:"post" tags:"indexer" summary:"索引知识目录"`
	Dir    string `json:"dir" v:"required#目录不能为空"` // 知识目录路径
}

// IngestFolderRes 目录索引响应
type IngestFolderRes struct {
	g.Meta  `mime:"application/json"`
	Indexed int    `json:"indexed"` // 成功索引的文档数
	Message string `json:"message"`
}
