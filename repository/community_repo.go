package repository

import (
	"context"
	"errors"
	"time"

	"skill_barter/db"
	"skill_barter/models"
	"skill_barter/utils"
)

// ErrAlreadyUpvoted 同一用户重复点赞
var ErrAlreadyUpvoted = errors.New("answer already upvoted by user")

// =====================
// 问题 / 回答 / 回复写入
// =====================

// CreateQuestion 发布问题
func CreateQuestion(ctx context.Context, q *models.Question) error {
	q.CreatedAt = time.Now().UTC()
	_, err := db.DB.ExecContext(ctx,
		`INSERT INTO questions (id, author_id, content, created_at) VALUES (?, ?, ?, ?)`,
		q.ID, q.Author.ID, q.Content, q.CreatedAt)
	return err
}

// CreateAnswer 回答问题，问题不存在时返回 ErrNotFound
func CreateAnswer(ctx context.Context, a *models.Answer) error {
	ok, err := existsContext(ctx, `SELECT COUNT(1) FROM questions WHERE id = ?`, a.QuestionID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	a.CreatedAt = time.Now().UTC()
	_, err = db.DB.ExecContext(ctx,
		`INSERT INTO answers (id, question_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.QuestionID, a.Author.ID, a.Content, a.CreatedAt)
	return err
}

// CreateReply 回复某个回答，回答不存在时返回 ErrNotFound
func CreateReply(ctx context.Context, answerID string, r *models.Reply) error {
	ok, err := existsContext(ctx, `SELECT COUNT(1) FROM answers WHERE id = ?`, answerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	r.CreatedAt = time.Now().UTC()
	_, err = db.DB.ExecContext(ctx,
		`INSERT INTO answer_replies (id, answer_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, answerID, r.Author.ID, r.Content, r.CreatedAt)
	return err
}

// UpvoteResult 点赞结果
type UpvoteResult struct {
	AuthorID string `json:"authorId"`
	Upvotes  int    `json:"upvotes"`
	Rewarded bool   `json:"rewarded"`
}

// UpvoteAnswer 点赞回答；每累计 rewardEvery 个赞，回答作者获得 1 积分
func UpvoteAnswer(ctx context.Context, answerID, userID string, rewardEvery int) (*UpvoteResult, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res := &UpvoteResult{}
	err = tx.QueryRowContext(ctx, `SELECT author_id FROM answers WHERE id = ? FOR UPDATE`, answerID).Scan(&res.AuthorID)
	if utils.IsSQLNoRowsError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO answer_upvotes (answer_id, user_id, created_at) VALUES (?, ?, ?)`,
		answerID, userID, time.Now().UTC()); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, ErrAlreadyUpvoted
		}
		return nil, err
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM answer_upvotes WHERE answer_id = ?`, answerID).Scan(&res.Upvotes); err != nil {
		return nil, err
	}

	if rewardEvery > 0 && res.Upvotes%rewardEvery == 0 {
		if _, err := earnCredit(ctx, tx, res.AuthorID, 1); err != nil {
			return nil, err
		}
		res.Rewarded = true
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// =====================
// 问答列表
// =====================

// ListQuestions 返回全部问题（最新在前），带回答、回复与点赞用户
func ListQuestions(ctx context.Context) ([]models.Question, error) {
	questions := make([]models.Question, 0)
	qIndex := make(map[string]int)

	rows, err := db.DB.QueryContext(ctx, `
        SELECT q.id, q.author_id, COALESCE(u.username, ''), q.content, q.created_at
        FROM questions q LEFT JOIN users u ON u.id = q.author_id
        ORDER BY q.created_at DESC, q.id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Author.ID, &q.Author.Username, &q.Content, &q.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		q.Answers = make([]models.Answer, 0)
		qIndex[q.ID] = len(questions)
		questions = append(questions, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return questions, nil
	}

	answers, err := listAnswers(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range answers {
		if i, ok := qIndex[a.QuestionID]; ok {
			questions[i].Answers = append(questions[i].Answers, a)
		}
	}
	return questions, nil
}

func listAnswers(ctx context.Context) ([]models.Answer, error) {
	rows, err := db.DB.QueryContext(ctx, `
        SELECT a.id, a.question_id, a.author_id, COALESCE(u.username, ''), a.content, a.created_at
        FROM answers a LEFT JOIN users u ON u.id = a.author_id
        ORDER BY a.created_at ASC, a.id`)
	if err != nil {
		return nil, err
	}
	answers := make([]models.Answer, 0)
	aIndex := make(map[string]int)
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Author.ID, &a.Author.Username, &a.Content, &a.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		a.UpvotedBy = make([]string, 0)
		a.Replies = make([]models.Reply, 0)
		aIndex[a.ID] = len(answers)
		answers = append(answers, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return answers, nil
	}

	upvotes, err := db.DB.QueryContext(ctx, `SELECT answer_id, user_id FROM answer_upvotes ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	for upvotes.Next() {
		var answerID, userID string
		if err := upvotes.Scan(&answerID, &userID); err != nil {
			upvotes.Close()
			return nil, err
		}
		if i, ok := aIndex[answerID]; ok {
			answers[i].UpvotedBy = append(answers[i].UpvotedBy, userID)
		}
	}
	upvotes.Close()
	if err := upvotes.Err(); err != nil {
		return nil, err
	}

	replies, err := db.DB.QueryContext(ctx, `
        SELECT r.id, r.answer_id, r.author_id, COALESCE(u.username, ''), r.content, r.created_at
        FROM answer_replies r LEFT JOIN users u ON u.id = r.author_id
        ORDER BY r.created_at ASC, r.id`)
	if err != nil {
		return nil, err
	}
	defer replies.Close()
	for replies.Next() {
		var (
			r        models.Reply
			answerID string
		)
		if err := replies.Scan(&r.ID, &answerID, &r.Author.ID, &r.Author.Username, &r.Content, &r.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := aIndex[answerID]; ok {
			answers[i].Replies = append(answers[i].Replies, r)
		}
	}
	return answers, replies.Err()
}

// existsContext 执行 COUNT(1) 查询并返回是否存在数据
func existsContext(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int
	if err := db.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
