package flowpilot

import (
	"context"

	v1 "github.com/Malowking/flowpilot/api/flowpilot/v1"
	"github.com/Malowking/flowpilot/core/errors"
	"github.com/Malowking/flowpilot/internal/dao"
)

// SessionsList 获取用户会话列表
func (c *ControllerV1) SessionsList(ctx context.Context, req *v1.SessionsListReq) (res *v1.SessionsListRes, err error) {
	sessions, err := dao.Session.ListByUserID(ctx, req.UserID, req.Limit)
	if err != nil {
		return nil, errors.Newf(errors.ErrDatabaseQuery, "failed to list sessions: %v", err)
	}

	list := make([]*v1.SessionItem, 0, len(sessions))
	for _, s := range sessions {
		item := &v1.SessionItem{
			SessionID: s.SessionID,
			Title:     s.Title,
			Status:    s.Status,
		}
		if s.CreateTime != nil {
			item.CreateTime = s.CreateTime.Format(timeLayout)
		}
		list = append(list, item)
	}
	return &v1.SessionsListRes{List: list}, nil
}

// SessionMessages 获取会话内的审计消息
func (c *ControllerV1) SessionMessages(ctx context.Context, req *v1.SessionMessagesReq) (res *v1.SessionMessagesRes, err error) {
	session, err := dao.Session.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, errors.Newf(errors.ErrDatabaseQuery, "failed to load session: %v", err)
	}
	if session == nil {
		return nil, errors.Newf(errors.ErrSessionNotFound, "session %s not found", req.SessionID)
	}

	messages, err := dao.Message.ListBySessionID(ctx, req.SessionID, req.Limit)
	if err != nil {
		return nil, errors.Newf(errors.ErrDatabaseQuery, "failed to list messages: %v", err)
	}

	list := make([]*v1.MessageItem, 0, len(messages))
	for _, m := range messages {
		item := &v1.MessageItem{
			MsgID:     m.MsgID,
			Role:      m.Role,
			Content:   m.Content,
			LatencyMs: m.LatencyMs,
			Metadata:  string(m.Metadata),
		}
		if m.CreateTime != nil {
			item.CreateTime = m.CreateTime.Format(timeLayout)
		}
		list = append(list, item)
	}
	return &v1.SessionMessagesRes{List: list}, nil
}
