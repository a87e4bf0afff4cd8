package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// DocumentsListReq 文档列表请求
type DocumentsListReq struct {
	g.Meta   `path:"/v1/documents" method:"get" tags:"documents" summary:"获取文档列表"`
	Page     int `json:"page" d:"1"`       // 页码
	PageSize int `json:"page_size" d:"20"` // 每页数量
}

// DocumentsListRes 文档列表响应
type DocumentsListRes struct {
	g.Meta `mime:"application/json"`
	List   []*DocumentItem `json:"list"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
}

// DocumentItem 文档列表项
type DocumentItem struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Title      string `json:"title"`
	ChunkCount int    `json:"chunk_count"` // 已索引的片段数
	CreateTime string `json:"create_time"`
	UpdateTime string `json:"update_time"`
}

// DocumentDeleteReq 文档删除请求
type DocumentDeleteReq struct {
	g.Meta `path:"/v1/documents/:id" method:"delete" tags:"documents" summary:"删除文档及其片段"`
	ID     string `json:"id" v:"required#文档ID不能为空"` // 文档ID
}

// DocumentDeleteRes 文档删除响应
type DocumentDeleteRes struct {
	g.Meta  `mime:"application/json"`
	Success bool `json:"success"`
}
