package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Malowking/flowpilot/core/config"
	"github.com/Malowking/flowpilot/core/errors"
	"github.com/Malowking/flowpilot/core/gate"
	"github.com/Malowking/flowpilot/core/retriever"
	"github.com/Malowking/flowpilot/core/router"
	"github.com/Malowking/flowpilot/core/security"
	"github.com/Malowking/flowpilot/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// MemoryUnavailableMarker 记忆检索失败时写入上下文的占位文本
const MemoryUnavailableMarker = "(user memory unavailable)"

// Retriever 文档混合检索
type Retriever interface {
	Search(ctx context.Context, query string, k int) (*retriever.Result, error)
}

// Generator 生成服务
type Generator interface {
	Generate(ctx context.Context, messages []*schema.Message) (string, error)
}

// Memory 用户历史消息检索
type Memory interface {
	SearchUserMessages(ctx context.Context, userID, query string) ([]string, error)
}

// Turn 一次问答的审计记录
type Turn struct {
	SessionID         string
	UserID            string
	Query             string // 命中凭据时为脱敏占位,不落原文
	Answer            string
	Mode              string
	TopScore          *float64
	Abstain           bool
	LatencyMS         int64
	SecretDetected    bool
	InjectionDetected bool
	Error             string // 上游失败时的错误详情,成功轮次为空
}

// Auditor 会话与轮次落库
type Auditor interface {
	EnsureSession(ctx context.Context, sessionID, userID string) (string, error)
	SaveTurn(ctx context.Context, turn *Turn) error
}

// Request 一次提问
type Request struct {
	SessionID string
	UserID    string
	Query     string
}

// Answer 管线输出
type Answer struct {
	SessionID string          `json:"session_id"`
	Mode      string          `json:"mode"`
	Answer    string          `json:"answer"`
	Abstain   bool            `json:"abstain"`
	TopScore  *float64        `json:"top_score,omitempty"`
	Hits      []retriever.Hit `json:"hits,omitempty"`
	LatencyMS int64           `json:"latency_ms"`
}

// Agent 将安全过滤、意图路由、混合检索、置信门控与生成服务
// 串成一次同步问答
type Agent struct {
	filter     *security.Filter
	router     *router.Router
	gate       *gate.Gate
	retriever  Retriever
	memory     Memory
	generator  Generator
	auditor    Auditor
	conf       *config.AgentConfig
	basePrompt string
}

func NewAgent(r Retriever, m Memory, gen Generator, a Auditor, conf *config.AgentConfig) *Agent {
	if conf == nil {
		conf = &config.AgentConfig{}
	}
	return &Agent{
		filter:     security.NewFilter(),
		router:     router.NewRouter(),
		gate:       gate.NewGate(),
		retriever:  r,
		memory:     m,
		generator:  gen,
		auditor:    a,
		conf:       conf,
		basePrompt: LoadSystemPrompt(conf.SystemPromptPath),
	}
}

// Ask runs one full turn. The security scan runs before routing,
// retrieval or storage so that rejected input never reaches the index,
// the embedder or the generation service.
func (ag *Agent) Ask(ctx context.Context, req *Request) (*Answer, error) {
	started := time.Now()

	userID := req.UserID
	if userID == "" {
		userID = ag.conf.UserID
	}

	sessionID, err := ag.auditor.EnsureSession(ctx, req.SessionID, userID)
	if err != nil {
		return nil, errors.Newf(errors.ErrSessionNotFound, "session setup failed: %v", err)
	}

	switch ag.filter.Scan(req.Query) {
	case security.FindingSecret:
		// 原始输入到此为止,仅审计脱敏占位
		ag.audit(ctx, &Turn{
			SessionID:      sessionID,
			UserID:         userID,
			Query:          security.RedactionMarker,
			Mode:           string(router.ModeOutOfScope),
			Abstain:        true,
			LatencyMS:      time.Since(started).Milliseconds(),
			SecretDetected: true,
		})
		return nil, errors.New(errors.ErrSecretDetected, "input appears to contain a credential and was not processed")
	case security.FindingInjection:
		ag.audit(ctx, &Turn{
			SessionID:         sessionID,
			UserID:            userID,
			Query:             req.Query,
			Mode:              string(router.ModeOutOfScope),
			Abstain:           true,
			LatencyMS:         time.Since(started).Milliseconds(),
			InjectionDetected: true,
		})
		return nil, errors.New(errors.ErrInjectionDetected, "input looks like a prompt-injection attempt and was refused")
	}

	decision := ag.router.Route(req.Query)

	memoryLines := ag.searchMemory(ctx, userID, req.Query)

	retrieval, err := ag.retriever.Search(ctx, req.Query, retriever.MergedCap)
	if err != nil {
		// 检索不可用按空结果处理,由门控决定是否弃答
		g.Log().Warningf(ctx, "retrieval failed, continuing without context: %v", err)
		retrieval = &retriever.Result{}
	}

	gateDecision := ag.gate.Check(decision.Mode, retrieval.TopScore)

	messages := ag.buildMessages(decision.Mode, gateDecision, memoryLines, retrieval.Context, req.Query)

	reply, err := ag.generator.Generate(ctx, messages)
	if err != nil {
		genErr := errors.Newf(errors.ErrGenerationFailed, "generation service failed: %v", err)
		// 失败的轮次同样入审计,错误详情随元数据落库
		ag.audit(ctx, &Turn{
			SessionID: sessionID,
			UserID:    userID,
			Query:     req.Query,
			Mode:      string(decision.Mode),
			TopScore:  retrieval.TopScore,
			Abstain:   gateDecision.Abstain,
			LatencyMS: time.Since(started).Milliseconds(),
			Error:     genErr.Error(),
		})
		return nil, genErr
	}

	latency := time.Since(started).Milliseconds()
	ag.audit(ctx, &Turn{
		SessionID: sessionID,
		UserID:    userID,
		Query:     req.Query,
		Answer:    reply,
		Mode:      string(decision.Mode),
		TopScore:  retrieval.TopScore,
		Abstain:   gateDecision.Abstain,
		LatencyMS: latency,
	})

	return &Answer{
		SessionID: sessionID,
		Mode:      string(decision.Mode),
		Answer:    reply,
		Abstain:   gateDecision.Abstain,
		TopScore:  retrieval.TopScore,
		Hits:      retrieval.Hits,
		LatencyMS: latency,
	}, nil
}

func (ag *Agent) searchMemory(ctx context.Context, userID, query string) []string {
	if ag.memory == nil || userID == "" {
		return nil
	}
	lines, err := ag.memory.SearchUserMessages(ctx, userID, query)
	if err != nil {
		g.Log().Debugf(ctx, "memory search failed for user %s: %v", userID, err)
		return []string{MemoryUnavailableMarker}
	}
	return lines
}

// buildMessages assembles the role-tagged prompt: base system prompt,
// the mode's style directive, the abstention directive when gated, and
// the memory/document context blocks. Context always passes through,
// abstaining or not.
func (ag *Agent) buildMessages(mode router.Mode, gd gate.Decision, memoryLines []string, docContext, query string) []*schema.Message {
	var sb strings.Builder
	sb.WriteString(ag.basePrompt)
	sb.WriteString("\n\n")
	sb.WriteString(StyleDirective(mode))

	if gd.Abstain {
		sb.WriteString("\n\n")
		sb.WriteString(gd.Directive)
	}

	if len(memoryLines) > 0 {
		sb.WriteString("\n\nUser memory:\n")
		for _, line := range memoryLines {
			sb.WriteString(fmt.Sprintf("- %s\n", line))
		}
	}

	if docContext != "" {
		sb.WriteString("\n\nDocument context:\n")
		sb.WriteString(docContext)
	}

	return []*schema.Message{
		schema.SystemMessage(sb.String()),
		schema.UserMessage(query),
	}
}

func (ag *Agent) audit(ctx context.Context, turn *Turn) {
	if err := ag.auditor.SaveTurn(ctx, turn); err != nil {
		// 审计失败不阻断回答
		g.Log().Errorf(ctx, "turn audit failed: %v", err)
	}
}
