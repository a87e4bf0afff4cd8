package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// SessionsListReq 会话列表请求
type SessionsListReq struct {
	g.Meta `path:"/v1/sessions" method:"get" tags:"sessions" summary:"获取用户会话列表"`
	UserID string `json:"user_id" v:"required#用户ID不能为空"` // 用户ID
	Limit  int    `json:"limit" d:"50"`                  // 最大返回条数
}

// SessionsListRes 会话列表响应
type SessionsListRes struct {
	g.Meta `mime:"application/json"`
	List   []*SessionItem `json:"list"`
}

// SessionItem 会话列表项
type SessionItem struct {
	SessionID  string `json:"session_id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	CreateTime string `json:"create_time"`
}

// SessionMessagesReq 会话消息列表请求
type SessionMessagesReq struct {
	g.Meta    `path:"/v1/sessions/:session_id/messages" method:"get" tags:"sessions" summary:"获取会话消息"`
	SessionID string `json:"session_id" v:"required#会话ID不能为空"` // 会话ID
	Limit     int    `json:"limit" d:"100"`                    // 最大返回条数
}

// SessionMessagesRes 会话消息列表响应
type SessionMessagesRes struct {
	g.Meta `mime:"application/json"`
	List   []*MessageItem `json:"list"`
}

// MessageItem 消息列表项
type MessageItem struct {
	MsgID      string `json:"msg_id"`
	Role       string `json:"role"`
	Content    string `json:"content"`
	LatencyMs  int    `json:"latency_ms,omitempty"`
	Metadata   string `json:"metadata,omitempty"` // 模式/分数/弃答等信息（JSON文本）
	CreateTime string `json:"create_time"`
}
