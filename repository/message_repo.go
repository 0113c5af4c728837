package repository

import (
	"context"
	"database/sql"
	"time"

	"skill_barter/db"
	"skill_barter/models"
)

// SaveMessage 保存聊天消息，Timestamp 为零值时取当前时间
func SaveMessage(ctx context.Context, m *models.Message) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	_, err := db.DB.ExecContext(ctx, `
        INSERT INTO messages (id, sender_id, recipient_id, content, file_url, file_type, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Sender, m.Recipient, m.Content, nullString(m.FileURL), nullString(m.FileType), m.Timestamp)
	return err
}

// ListConversation 返回两个用户之间的全部消息，按时间正序
func ListConversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	rows, err := db.DB.QueryContext(ctx, `
        SELECT id, sender_id, recipient_id, content, file_url, file_type, created_at
        FROM messages
        WHERE (sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)
        ORDER BY created_at ASC, id ASC`,
		userA, userB, userB, userA)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var (
			m                 models.Message
			fileURL, fileType sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Sender, &m.Recipient, &m.Content, &fileURL, &fileType, &m.Timestamp); err != nil {
			return nil, err
		}
		m.FileURL = fileURL.String
		m.FileType = fileType.String
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
