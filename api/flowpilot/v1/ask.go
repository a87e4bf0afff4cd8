package v1

import (
	"github.com/Malowking/flowpilot/core/retriever"
	"github.com/gogf/gf/v2/frame/g"
)

// AskReq 问答请求
type AskReq struct {
	g.Meta    `path:"/v1/ask" method:"post" tags:"agent" summary:"提问"`
	SessionID string `json:"session_id"`                   // 会话ID（可选，首次为空会创建新会话）
	UserID    string `json:"user_id"`                      // 用户ID（可选，默认取配置中的部署用户）
	Question  string `json:"question" v:"required#问题不能为空"` // 用户问题
}

// AskRes 问答响应
type AskRes struct {
	g.Meta    `mime:"application/json"`
	SessionID string          `json:"session_id"`          // 会话ID（新会话会返回创建的session_id）
	Mode      string          `json:"mode"`                // 响应模式
	Answer    string          `json:"answer"`              // 回答内容
	Abstain   bool            `json:"abstain"`             // 是否因证据不足而弃答
	TopScore  *float64        `json:"top_score,omitempty"` // 向量检索最高分
	Hits      []retriever.Hit `json:"hits,omitempty"`      // 引用片段
	LatencyMS int64           `json:"latency_ms"`          // 本轮耗时（毫秒）
}
