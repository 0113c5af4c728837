package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"skill_barter/models"
	"skill_barter/repository"
)

// SaveChatMessage 保存 websocket 收到的消息
// 内容为空时：带附件记为 "File Attachment"，否则记为 "Message"
func SaveChatMessage(ctx context.Context, senderID string, out *models.OutgoingMessage) (*models.Message, error) {
	recipient := strings.TrimSpace(out.Recipient)
	if recipient == "" {
		return nil, fmt.Errorf("%w: recipient is required", ErrInvalidInput)
	}

	content := strings.TrimSpace(out.Content)
	if content == "" {
		if out.FileURL != "" {
			content = "File Attachment"
		} else {
			content = "Message"
		}
	}

	m := &models.Message{
		ID:        uuid.NewString(),
		Sender:    senderID,
		Recipient: recipient,
		Content:   content,
		FileURL:   out.FileURL,
		FileType:  out.FileType,
		Timestamp: time.Now().UTC(),
	}
	if err := repository.SaveMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ChatHistory 返回两人之间的消息，时间正序
func ChatHistory(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	if strings.TrimSpace(otherID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	return repository.ListConversation(ctx, userID, otherID)
}
