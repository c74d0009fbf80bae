package websocket

import (
	"encoding/json"
	"time"

	"veritaslab/internal/microservices/http-api/models"
)

// Message protocol of the notification stream. The server only writes;
// anything a client sends is read and discarded to keep the pong handler running.
type MessageType string

const (
	TypeSystem       MessageType = "system"       // connection lifecycle
	TypeNotification MessageType = "notification" // a freshly recorded notification
)

type Message struct {
	Type         MessageType          `json:"type"`
	Content      string               `json:"content,omitempty"`
	Notification *models.Notification `json:"notification,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
}

func NewSystemMessage(content string) *Message {
	return &Message{
		Type:      TypeSystem,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationMessage(n *models.Notification) *Message {
	return &Message{
		Type:         TypeNotification,
		Notification: n,
		Timestamp:    time.Now().UTC(),
	}
}

// ToJSON: marshal Message struct to JSON
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON: unmarshal JSON data to Message struct
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
