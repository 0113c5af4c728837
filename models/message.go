package models

import "time"

type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	FileURL   string    `json:"fileUrl,omitempty"`
	FileType  string    `json:"fileType,omitempty"` // image / video / raw
	Timestamp time.Time `json:"timestamp"`
}

// OutgoingMessage websocket 客户端发送的消息
type OutgoingMessage struct {
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
	FileURL   string `json:"fileUrl,omitempty"`
	FileType  string `json:"fileType,omitempty"`
}

// RequestStatus 联系请求状态
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	return s == RequestPending || s == RequestAccepted || s == RequestRejected
}

// MessageRequest 学习者向老师发起的联系 / 会话请求
type MessageRequest struct {
	ID                     string        `json:"id"`
	Sender                 string        `json:"sender"`
	Recipient              string        `json:"recipient"`
	Status                 RequestStatus `json:"status"`
	ScheduledTime          *time.Time    `json:"scheduledTime,omitempty"`
	Note                   string        `json:"note,omitempty"`
	IsCompleted            bool          `json:"isCompleted"`
	ActiveSessionInitiator string        `json:"activeSessionInitiator,omitempty"`
	CreatedAt              time.Time     `json:"createdAt"`
}

// SessionStart 开始会话的返回
type SessionStart struct {
	Message  string `json:"message"`
	MeetLink string `json:"meetLink"`
	Credits  int    `json:"credits"`
}
