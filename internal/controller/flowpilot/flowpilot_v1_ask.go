package flowpilot

import (
	"context"

	v1 "github.com/Malowking/flowpilot/api/flowpilot/v1"
	"github.com/Malowking/flowpilot/core/agent"
	"github.com/Malowking/flowpilot/internal/service"
	"github.com/gogf/gf/v2/frame/g"
)

// Ask 问答接口
func (c *ControllerV1) Ask(ctx context.Context, req *v1.AskReq) (res *v1.AskRes, err error) {
	g.Log().Infof(ctx, "Ask request received - SessionID: %s, UserID: %s", req.SessionID, req.UserID)

	ag, err := service.GetAgent()
	if err != nil {
		return nil, err
	}

	answer, err := ag.Ask(ctx, &agent.Request{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Query:     req.Question,
	})
	if err != nil {
		return nil, err
	}

	return &v1.AskRes{
		SessionID: answer.SessionID,
		Mode:      answer.Mode,
		Answer:    answer.Answer,
		Abstain:   answer.Abstain,
		TopScore:  answer.TopScore,
		Hits:      answer.Hits,
		LatencyMS: answer.LatencyMS,
	}, nil
}
