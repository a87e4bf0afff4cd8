package agent

import (
	"os"
	"strings"

	"github.com/Malowking/flowpilot/core/router"
)

// DefaultSystemPrompt 提示词文件缺失时的兜底系统提示
const DefaultSystemPrompt = `You are FlowPilot, a helper agent for low-code workflow platforms.
You answer questions about building, reviewing and governing automated flows.
Ground every answer in the provided context. If the context does not cover
the question, say so instead of guessing.`

const qnaDirective = `Answer in a concise how-to style. Use numbered steps when the user
is asking how to build or change something. Cite the relevant passage
from the document context when one applies.`

const governanceDirective = `Answer as a governance advisor. Be precise about policies, approvals
and tenant restrictions. Only state what the document context supports;
never invent policy.`

const flowReviewDirective = `The user submitted a flow definition or asked for improvements.
Review it for reliability, error handling, naming and governance issues.
List concrete findings first, then suggested changes.`

const outOfScopeDirective = `The question is outside the supported domain. Briefly say what you can
help with instead.`

// StyleDirective 返回与响应模式匹配的风格指令
func StyleDirective(mode router.Mode) string {
	switch mode {
	case router.ModeFlowReview:
		return flowReviewDirective
	case router.ModeGovernanceQnA:
		return governanceDirective
	case router.ModeHowtoQnA:
		return qnaDirective
	default:
		return outOfScopeDirective
	}
}

// LoadSystemPrompt 从配置路径读取基础系统提示,读取失败时使用内置兜底
func LoadSystemPrompt(path string) string {
	if path == "" {
		return DefaultSystemPrompt
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSystemPrompt
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return DefaultSystemPrompt
	}
	return text
}
