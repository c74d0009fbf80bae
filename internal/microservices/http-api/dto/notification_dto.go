package dto

import "veritaslab/internal/microservices/http-api/models"

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
