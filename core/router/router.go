package router

import (
	"strings"

	"github.com/bytedance/sonic"
)

// Mode is the response mode a query is routed to.
type Mode string

const (
	// ModeFlowReview 用户粘贴了流程定义或明确要求分析/优化
	ModeFlowReview Mode = "FLOW_REVIEW"
	// ModeGovernanceQnA 治理/策略类问题（连接器审批、租户策略等）
	ModeGovernanceQnA Mode = "GOVERNANCE_QNA"
	// ModeHowtoQnA 产品使用类问题
	ModeHowtoQnA Mode = "HOWTO_QNA"
	// ModeOutOfScope 与产品无关的问题
	ModeOutOfScope Mode = "OUT_OF_SCOPE"
)

// Decision is the routing outcome for one query.
type Decision struct {
	Mode Mode
	// Signal records which rule fired: "json", or the matched keyword.
	Signal string
}

// improvementVocab marks requests for analysis or optimization work.
var improvementVocab = []string{
	"optimize", "optimise", "review", "analyze", "analyse",
	"improve", "refactor", "performance", "fix my flow", "not working",
}

// governanceVocab marks policy and tenant governance questions.
var governanceVocab = []string{
	"policy", "policies", "approved", "blocked", "allowed",
	"tenant", "environment", "governance", "dlp", "compliance",
}

// howtoVocab marks product how-to questions: product, action and
// connector names.
var howtoVocab = []string{
	"power automate", "flow", "trigger", "action", "connector",
	"runafter", "apply to each", "apply_to_each", "foreach", "scope",
	"retry", "concurrency", "pagination", "http",
	"dataverse", "sharepoint", "onedrive", "teams", "excel",
	"condition", "compose", "expression",
}

// Router classifies a query into a response mode. It is a pure state
// machine over one query: deterministic given the input text, no
// persisted state.
type Router struct{}

// NewRouter creates an intent router.
func NewRouter() *Router {
	return &Router{}
}

// Route runs the fixed-priority rule ladder. The first matching rule
// wins: a pasted JSON artifact is a stronger signal than any keyword
// vocabulary it happens to contain.
func (r *Router) Route(query string) Decision {
	if looksLikeJSON(query) {
		return Decision{Mode: ModeFlowReview, Signal: "json"}
	}

	lower := strings.ToLower(query)

	for _, w := range improvementVocab {
		if strings.Contains(lower, w) {
			return Decision{Mode: ModeFlowReview, Signal: w}
		}
	}
	for _, w := range governanceVocab {
		if strings.Contains(lower, w) {
			return Decision{Mode: ModeGovernanceQnA, Signal: w}
		}
	}
	for _, w := range howtoVocab {
		if strings.Contains(lower, w) {
			return Decision{Mode: ModeHowtoQnA, Signal: w}
		}
	}
	return Decision{Mode: ModeOutOfScope}
}

// looksLikeJSON reports whether the query parses as a well-formed JSON
// object or array. Scalars ("42", "true") do not count: only a pasted
// structured artifact should force flow review.
func looksLikeJSON(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	switch t[0] {
	case '{':
		var obj map[string]interface{}
		return sonic.UnmarshalString(t, &obj) == nil
	case '[':
		var arr []interface{}
		return sonic.UnmarshalString(t, &arr) == nil
	default:
		return false
	}
}
