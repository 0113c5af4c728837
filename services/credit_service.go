package services

import (
	"context"
	"errors"

	"skill_barter/logger"
	"skill_barter/metrics"
	"skill_barter/repository"
)

// SpendCredit 扣减 1 积分，返回新余额
func SpendCredit(ctx context.Context, userID string) (int, error) {
	credits, err := repository.SpendCredit(ctx, userID)
	if err != nil {
		return 0, mapCreditError(err)
	}
	metrics.CreditsMoved.WithLabelValues("spent").Inc()
	logger.Info("Credit spent", "user_id", userID, "credits", credits)
	return credits, nil
}

// EarnCredit 增加 1 积分，返回新余额
func EarnCredit(ctx context.Context, userID string) (int, error) {
	credits, err := repository.EarnCredit(ctx, userID, 1)
	if err != nil {
		return 0, mapCreditError(err)
	}
	metrics.CreditsMoved.WithLabelValues("earned").Inc()
	logger.Info("Credit earned", "user_id", userID, "credits", credits)
	return credits, nil
}

func mapCreditError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNoCredits):
		return ErrInsufficientCredits
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	default:
		return err
	}
}
