package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skill_barter/db"
	"skill_barter/logger"
	"skill_barter/models"
	"skill_barter/utils"
)

// ErrAlreadyCompleted 请求已经完成，不能重复结算
var ErrAlreadyCompleted = errors.New("request already completed")

const requestColumns = `id, sender_id, recipient_id, status, scheduled_time, note, is_completed, active_session_initiator, created_at`

func scanRequest(s scanner) (*models.MessageRequest, error) {
	var (
		r         models.MessageRequest
		status    string
		scheduled sql.NullTime
		note      sql.NullString
		initiator sql.NullString
	)
	if err := s.Scan(&r.ID, &r.Sender, &r.Recipient, &status, &scheduled, &note,
		&r.IsCompleted, &initiator, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Status = models.RequestStatus(status)
	if scheduled.Valid {
		t := scheduled.Time
		r.ScheduledTime = &t
	}
	r.Note = note.String
	r.ActiveSessionInitiator = initiator.String
	return &r, nil
}

// CreateRequest 创建 pending 状态的联系请求
func CreateRequest(ctx context.Context, r *models.MessageRequest) error {
	if r.Status == "" {
		r.Status = models.RequestPending
	}
	r.CreatedAt = time.Now().UTC()

	var scheduled interface{}
	if r.ScheduledTime != nil {
		scheduled = *r.ScheduledTime
	}
	_, err := db.DB.ExecContext(ctx, `
        INSERT INTO message_requests (id, sender_id, recipient_id, status, scheduled_time, note, is_completed, created_at)
        VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		r.ID, r.Sender, r.Recipient, string(r.Status), scheduled, nullString(r.Note), r.CreatedAt)
	return err
}

// GetRequest 按 ID 查询请求
func GetRequest(ctx context.Context, id string) (*models.MessageRequest, error) {
	row := db.DB.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM message_requests WHERE id = ?`, id)
	r, err := scanRequest(row)
	if utils.IsSQLNoRowsError(err) {
		return nil, ErrNotFound
	}
	return r, err
}

// ListRequestsForUser 返回用户收到的和发出的请求，均按创建时间倒序
func ListRequestsForUser(ctx context.Context, userID string) (incoming, outgoing []models.MessageRequest, err error) {
	rows, err := db.DB.QueryContext(ctx, `
        SELECT `+requestColumns+`
        FROM message_requests
        WHERE sender_id = ? OR recipient_id = ?
        ORDER BY created_at DESC`, userID, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	incoming = make([]models.MessageRequest, 0)
	outgoing = make([]models.MessageRequest, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, nil, err
		}
		if r.Recipient == userID {
			incoming = append(incoming, *r)
		} else {
			outgoing = append(outgoing, *r)
		}
	}
	return incoming, outgoing, rows.Err()
}

// ErrRequestNotPending 请求已被处理过
var ErrRequestNotPending = errors.New("request is no longer pending")

// RespondToRequest 只更新仍处于 pending 且未完成的请求
func RespondToRequest(ctx context.Context, id string, status models.RequestStatus) error {
	res, err := db.DB.ExecContext(ctx,
		`UPDATE message_requests SET status = ? WHERE id = ? AND status = ? AND is_completed = 0`,
		string(status), id, string(models.RequestPending))
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrRequestNotPending
		}
		return err
	}
	return nil
}

// StartSession 在同一事务内扣减学习者 1 积分，并在双方已接受的请求上记录发起人
// 返回扣减后的积分余额，余额不足时返回 ErrNoCredits
func StartSession(ctx context.Context, learnerID, teacherID string) (int, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	credits, err := spendCredit(ctx, tx, learnerID)
	if err != nil {
		return 0, err
	}

	var requestID string
	err = tx.QueryRowContext(ctx, `
        SELECT id FROM message_requests
        WHERE ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))
          AND status = 'accepted' AND is_completed = 0
        ORDER BY created_at DESC LIMIT 1 FOR UPDATE`,
		learnerID, teacherID, teacherID, learnerID).Scan(&requestID)
	switch {
	case utils.IsSQLNoRowsError(err):
		logger.Debug("No accepted request for session", "learner", learnerID, "teacher", teacherID)
	case err != nil:
		return 0, err
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE message_requests SET active_session_initiator = ? WHERE id = ?`, learnerID, requestID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return credits, nil
}

// CompleteRequest 标记请求完成并给老师（接收方）加 1 积分，返回老师新的积分余额
func CompleteRequest(ctx context.Context, id string) (string, int, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	var (
		teacherID string
		completed bool
	)
	err = tx.QueryRowContext(ctx,
		`SELECT recipient_id, is_completed FROM message_requests WHERE id = ? FOR UPDATE`, id).Scan(&teacherID, &completed)
	if utils.IsSQLNoRowsError(err) {
		return "", 0, ErrNotFound
	}
	if err != nil {
		return "", 0, err
	}
	if completed {
		return "", 0, ErrAlreadyCompleted
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE message_requests SET is_completed = 1, active_session_initiator = NULL WHERE id = ?`, id); err != nil {
		return "", 0, err
	}
	credits, err := earnCredit(ctx, tx, teacherID, 1)
	if err != nil {
		return "", 0, err
	}

	if err := tx.Commit(); err != nil {
		return "", 0, err
	}
	return teacherID, credits, nil
}
