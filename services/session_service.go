package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"skill_barter/config"
	"skill_barter/logger"
	"skill_barter/metrics"
	"skill_barter/models"
	"skill_barter/repository"
)

// CreateRequestInput 发起联系请求
type CreateRequestInput struct {
	RecipientID   string     `json:"recipientId" validate:"required"`
	Note          string     `json:"note" validate:"max=1000"`
	ScheduledTime *time.Time `json:"scheduledTime"`
}

// RespondInput 接收方处理请求
type RespondInput struct {
	Status models.RequestStatus `json:"status" validate:"required,oneof=accepted rejected"`
}

// RequestLists 用户的请求列表
type RequestLists struct {
	Incoming []models.MessageRequest `json:"incoming"`
	Outgoing []models.MessageRequest `json:"outgoing"`
}

// CreateRequest 创建 pending 请求，不能向自己发起
func CreateRequest(ctx context.Context, senderID string, in *CreateRequestInput) (*models.MessageRequest, error) {
	in.RecipientID = strings.TrimSpace(in.RecipientID)
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.RecipientID == senderID {
		return nil, fmt.Errorf("%w: cannot send a request to yourself", ErrInvalidInput)
	}
	if _, err := GetUser(ctx, in.RecipientID); err != nil {
		return nil, err
	}

	r := &models.MessageRequest{
		ID:            uuid.NewString(),
		Sender:        senderID,
		Recipient:     in.RecipientID,
		Status:        models.RequestPending,
		ScheduledTime: in.ScheduledTime,
		Note:          strings.TrimSpace(in.Note),
	}
	if err := repository.CreateRequest(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRequests 返回用户收到和发出的请求
func ListRequests(ctx context.Context, userID string) (*RequestLists, error) {
	incoming, outgoing, err := repository.ListRequestsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &RequestLists{Incoming: incoming, Outgoing: outgoing}, nil
}

// RespondToRequest 只有接收方可以接受或拒绝，且只能处理一次
func RespondToRequest(ctx context.Context, userID, requestID string, in *RespondInput) (*models.MessageRequest, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	r, err := repository.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.Recipient != userID {
		return nil, ErrForbidden
	}
	if r.Status != models.RequestPending || r.IsCompleted {
		return nil, fmt.Errorf("%w: request is already %s", ErrInvalidInput, r.Status)
	}
	if err := repository.RespondToRequest(ctx, requestID, in.Status); err != nil {
		if errors.Is(err, repository.ErrRequestNotPending) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}
	r.Status = in.Status
	return r, nil
}

// StartSession 学习者开始与老师的会话：扣 1 积分并返回会议链接
func StartSession(ctx context.Context, cfg *config.Config, learnerID, teacherID string) (*models.SessionStart, error) {
	teacherID = strings.TrimSpace(teacherID)
	if teacherID == "" {
		return nil, fmt.Errorf("%w: teacherId is required", ErrInvalidInput)
	}
	if teacherID == learnerID {
		return nil, fmt.Errorf("%w: cannot start a session with yourself", ErrInvalidInput)
	}
	if _, err := GetUser(ctx, teacherID); err != nil {
		return nil, err
	}

	credits, err := repository.StartSession(ctx, learnerID, teacherID)
	if err != nil {
		return nil, mapCreditError(err)
	}
	metrics.CreditsMoved.WithLabelValues("spent").Inc()
	logger.Info("Session started", "learner", learnerID, "teacher", teacherID, "credits", credits)

	return &models.SessionStart{
		Message:  "Session started",
		MeetLink: cfg.Session.MeetLink,
		Credits:  credits,
	}, nil
}

// CompleteRequest 双方任一参与者可以标记完成，老师获得 1 积分
func CompleteRequest(ctx context.Context, userID, requestID string) (*models.MessageRequest, error) {
	r, err := repository.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.Sender != userID && r.Recipient != userID {
		return nil, ErrForbidden
	}
	if r.Status != models.RequestAccepted {
		return nil, fmt.Errorf("%w: request is %s", ErrInvalidInput, r.Status)
	}

	teacherID, credits, err := repository.CompleteRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyCompleted) {
			return nil, ErrAlreadyCompleted
		}
		return nil, err
	}
	metrics.CreditsMoved.WithLabelValues("earned").Inc()
	logger.Info("Request completed", "request_id", requestID, "teacher", teacherID, "teacher_credits", credits)

	r.IsCompleted = true
	r.ActiveSessionInitiator = ""
	return r, nil
}
