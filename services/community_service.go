package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"skill_barter/config"
	"skill_barter/logger"
	"skill_barter/metrics"
	"skill_barter/models"
	"skill_barter/repository"
)

// ContentInput 问题 / 回答 / 回复的正文
type ContentInput struct {
	Content string `json:"content" validate:"required,max=5000"`
}

func (in *ContentInput) normalize() error {
	in.Content = strings.TrimSpace(in.Content)
	return ValidateStruct(in)
}

func authorRef(ctx context.Context, userID string) (models.AuthorRef, error) {
	u, err := GetUser(ctx, userID)
	if err != nil {
		return models.AuthorRef{}, err
	}
	return models.AuthorRef{ID: u.ID, Username: u.Username}, nil
}

// CreateQuestion 发布问题
func CreateQuestion(ctx context.Context, userID string, in *ContentInput) (*models.Question, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	author, err := authorRef(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := &models.Question{
		ID:      uuid.NewString(),
		Author:  author,
		Content: in.Content,
		Answers: make([]models.Answer, 0),
	}
	if err := repository.CreateQuestion(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// ListQuestions 全部问题，最新在前
func ListQuestions(ctx context.Context) ([]models.Question, error) {
	return repository.ListQuestions(ctx)
}

// AnswerQuestion 回答问题
func AnswerQuestion(ctx context.Context, userID, questionID string, in *ContentInput) (*models.Answer, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	author, err := authorRef(ctx, userID)
	if err != nil {
		return nil, err
	}

	a := &models.Answer{
		ID:         uuid.NewString(),
		QuestionID: questionID,
		Author:     author,
		Content:    in.Content,
		UpvotedBy:  make([]string, 0),
		Replies:    make([]models.Reply, 0),
	}
	if err := repository.CreateAnswer(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: question %s", ErrNotFound, questionID)
		}
		return nil, err
	}
	return a, nil
}

// ReplyToAnswer 回复回答
func ReplyToAnswer(ctx context.Context, userID, answerID string, in *ContentInput) (*models.Reply, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	author, err := authorRef(ctx, userID)
	if err != nil {
		return nil, err
	}

	r := &models.Reply{
		ID:      uuid.NewString(),
		Author:  author,
		Content: in.Content,
	}
	if err := repository.CreateReply(ctx, answerID, r); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: answer %s", ErrNotFound, answerID)
		}
		return nil, err
	}
	return r, nil
}

// UpvoteAnswer 每个用户对同一回答只能点赞一次
func UpvoteAnswer(ctx context.Context, cfg *config.Config, userID, answerID string) (*repository.UpvoteResult, error) {
	res, err := repository.UpvoteAnswer(ctx, answerID, userID, cfg.Credits.UpvoteRewardEvery)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyUpvoted):
			return nil, ErrAlreadyUpvoted
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: answer %s", ErrNotFound, answerID)
		}
		return nil, err
	}
	if res.Rewarded {
		metrics.CreditsMoved.WithLabelValues("earned").Inc()
		logger.Info("Answer author rewarded", "answer_id", answerID, "author", res.AuthorID, "upvotes", res.Upvotes)
	}
	return res, nil
}
