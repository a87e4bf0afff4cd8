package retriever

// Hit 检索命中结果,向量命中携带相似度分数,关键词命中无分数
type Hit struct {
	Text   string   `json:"text"`
	Score  *float64 `json:"score,omitempty"`
	Source string   `json:"source"` // "vector" 或 "keyword"
}

// LegOutcome 单条检索路径的执行结果
type LegOutcome string

const (
	LegOK      LegOutcome = "ok"
	LegFailed  LegOutcome = "failed"
	LegSkipped LegOutcome = "skipped"
)

// LegResult 记录一条检索路径的执行情况,用于调试追踪
type LegResult struct {
	Name    string     `json:"name"`
	Outcome LegOutcome `json:"outcome"`
	Hits    int        `json:"hits"`
	Detail  string     `json:"detail,omitempty"`
}

// Result 混合检索的聚合结果
type Result struct {
	Context  string      `json:"context"`   // 拼接后的上下文文本
	Hits     []Hit       `json:"hits"`      // 合并去重后的命中列表
	TopScore *float64    `json:"top_score"` // 向量路径最高分,向量路径失败时为 nil
	Keywords []string    `json:"keywords"`
	Legs     []LegResult `json:"legs"`
}
