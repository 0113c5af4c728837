package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skill_barter/db"
	"skill_barter/logger"
	"skill_barter/models"
	"skill_barter/utils"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrNoCredits 积分不足，扣减未生效
	ErrNoCredits = errors.New("insufficient credits")
)

// scanner 兼容 *sql.Row 与 *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// =====================
// JSON 列编解码
// =====================

func encodeSkills(skills []models.Skill) (string, error) {
	if skills == nil {
		skills = []models.Skill{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeSkills(raw sql.NullString) []models.Skill {
	skills := make([]models.Skill, 0)
	if !raw.Valid || raw.String == "" {
		return skills
	}
	if err := json.Unmarshal([]byte(raw.String), &skills); err != nil {
		logger.Warn("Failed to decode skills column", "error", err)
		return make([]models.Skill, 0)
	}
	return skills
}

// encodeEmbedding 空向量存 NULL
func encodeEmbedding(vec []float32) (interface{}, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(vec)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeEmbedding(raw sql.NullString) []float32 {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var vec []float32
	if err := json.Unmarshal([]byte(raw.String), &vec); err != nil {
		logger.Warn("Failed to decode embedding column", "error", err)
		return nil
	}
	return vec
}

// =====================
// 用户读取
// =====================

const userColumns = `id, username, email, password_hash, bio, gender, phone, skills, embedding, credits, created_at, updated_at`

func scanUser(s scanner) (*models.User, error) {
	var (
		u                       models.User
		bio, gender, phone      sql.NullString
		skillsRaw, embeddingRaw sql.NullString
	)
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &bio, &gender, &phone,
		&skillsRaw, &embeddingRaw, &u.Credits, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Bio = bio.String
	u.Gender = gender.String
	u.Phone = phone.String
	u.Skills = decodeSkills(skillsRaw)
	u.Embedding = decodeEmbedding(embeddingRaw)
	return &u, nil
}

func getUserBy(ctx context.Context, column, value string) (*models.User, error) {
	row := db.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value)
	u, err := scanUser(row)
	if err != nil {
		if utils.IsSQLNoRowsError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetUserByID 按 ID 查询用户，不存在时返回 ErrNotFound
func GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return getUserBy(ctx, "id", id)
}

// GetUserByEmail 按邮箱查询用户
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getUserBy(ctx, "email", email)
}

// ListCandidateProfiles 拉取全部用户作为匹配候选池，按注册顺序返回
func ListCandidateProfiles(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := db.DB.QueryContext(ctx,
		`SELECT id, username, bio, skills, embedding FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.UserProfile, 0)
	for rows.Next() {
		var (
			p                       models.UserProfile
			bio                     sql.NullString
			skillsRaw, embeddingRaw sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Username, &bio, &skillsRaw, &embeddingRaw); err != nil {
			return nil, err
		}
		p.Bio = bio.String
		p.Skills = decodeSkills(skillsRaw)
		p.Embedding = decodeEmbedding(embeddingRaw)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// ListUsersMissingEmbedding 返回尚未计算 embedding 的用户，供调度器补全
func ListUsersMissingEmbedding(ctx context.Context, limit int) ([]models.UserProfile, error) {
	rows, err := db.DB.QueryContext(ctx,
		`SELECT id, username, bio, skills FROM users WHERE embedding IS NULL ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.UserProfile, 0)
	for rows.Next() {
		var (
			p         models.UserProfile
			bio       sql.NullString
			skillsRaw sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Username, &bio, &skillsRaw); err != nil {
			return nil, err
		}
		p.Bio = bio.String
		p.Skills = decodeSkills(skillsRaw)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// =====================
// 用户写入
// =====================

// CreateUser 插入新用户，邮箱重复时返回 MySQL 1062 错误
func CreateUser(ctx context.Context, u *models.User) error {
	skills, err := encodeSkills(u.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}
	embedding, err := encodeEmbedding(u.Embedding)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}

	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err = db.DB.ExecContext(ctx, `
        INSERT INTO users (id, username, email, password_hash, bio, gender, phone, skills, embedding, credits, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Bio, u.Gender, u.Phone,
		skills, embedding, u.Credits, u.CreatedAt, u.UpdatedAt)
	return err
}

// UpdateUser 更新资料字段与 embedding（不修改积分和密码）
func UpdateUser(ctx context.Context, u *models.User) error {
	skills, err := encodeSkills(u.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}
	embedding, err := encodeEmbedding(u.Embedding)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}

	u.UpdatedAt = time.Now().UTC()
	_, err = db.DB.ExecContext(ctx, `
        UPDATE users SET username=?, bio=?, gender=?, phone=?, skills=?, embedding=?, updated_at=?
        WHERE id=?`,
		u.Username, u.Bio, u.Gender, u.Phone, skills, embedding, u.UpdatedAt, u.ID)
	return err
}

// UpdateEmbedding 只更新 embedding 列
func UpdateEmbedding(ctx context.Context, userID string, vec []float32) error {
	embedding, err := encodeEmbedding(vec)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}
	_, err = db.DB.ExecContext(ctx, `UPDATE users SET embedding=? WHERE id=?`, embedding, userID)
	return err
}

// DeleteUsersByEmail 删除指定邮箱的用户（seed 使用）
func DeleteUsersByEmail(ctx context.Context, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}
	query := `DELETE FROM users WHERE email IN (?` + repeatPlaceholders(len(emails)-1) + `)`
	args := make([]interface{}, 0, len(emails))
	for _, e := range emails {
		args = append(args, e)
	}
	res, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// =====================
// 积分
// =====================

// SpendCredit 原子扣减 1 积分，余额为 0 时返回 ErrNoCredits
func SpendCredit(ctx context.Context, userID string) (int, error) {
	return spendCredit(ctx, db.DB, userID)
}

// EarnCredit 原子增加积分
func EarnCredit(ctx context.Context, userID string, amount int) (int, error) {
	return earnCredit(ctx, db.DB, userID, amount)
}

// execQuerier 兼容 *sql.DB 与 *sql.Tx
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func spendCredit(ctx context.Context, q execQuerier, userID string) (int, error) {
	res, err := q.ExecContext(ctx, `UPDATE users SET credits = credits - 1 WHERE id = ? AND credits > 0`, userID)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, err
	} else if n == 0 {
		if _, err := getCredits(ctx, q, userID); err != nil {
			return 0, err
		}
		return 0, ErrNoCredits
	}
	return getCredits(ctx, q, userID)
}

func earnCredit(ctx context.Context, q execQuerier, userID string, amount int) (int, error) {
	res, err := q.ExecContext(ctx, `UPDATE users SET credits = credits + ? WHERE id = ?`, amount, userID)
	if err != nil {
		return 0, err
	}
	if err := requireAffected(res); err != nil {
		return 0, err
	}
	return getCredits(ctx, q, userID)
}

func getCredits(ctx context.Context, q execQuerier, userID string) (int, error) {
	var credits int
	err := q.QueryRowContext(ctx, `SELECT credits FROM users WHERE id = ?`, userID).Scan(&credits)
	if utils.IsSQLNoRowsError(err) {
		return 0, ErrNotFound
	}
	return credits, err
}

// =====================
// 通用工具函数
// =====================

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func repeatPlaceholders(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += ", ?"
	}
	return s
}
