package dto

// NotificationDTO is the in-app notification projection used in responses
type NotificationDTO struct {
	ID            uint   `json:"id"`
	UUID          string `json:"uuid"`
	Kind          string `json:"kind"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	SelectionUUID string `json:"selection_uuid,omitempty"`
	ReadAt        string `json:"read_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// ListNotificationsRequest represents the request to list a user's notifications
type ListNotificationsRequest struct {
	UserID   uint `json:"-"`
	Page     int  `json:"page" validate:"omitempty,min=1"`
	PageSize int  `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListNotificationsResponse represents a user's notifications
type ListNotificationsResponse struct {
	Message       string            `json:"message"`
	Notifications []NotificationDTO `json:"notifications"`
	Total         int64             `json:"total"`
	UnreadCount   int64             `json:"unread_count"`
}

// MarkNotificationReadRequest marks one notification as read
type MarkNotificationReadRequest struct {
	UserID           uint   `json:"-"`
	NotificationUUID string `json:"-" validate:"required,uuid"`
}

// MarkNotificationReadResponse represents the mark-read outcome
type MarkNotificationReadResponse struct {
	Message     string `json:"message"`
	UUID        string `json:"uuid"`
	UnreadCount int64  `json:"unread_count"`
}

// UnreadCountRequest fetches a user's unread notification count
type UnreadCountRequest struct {
	UserID uint `json:"-"`
}

// UnreadCountResponse represents a user's unread notification count
type UnreadCountResponse struct {
	Message     string `json:"message"`
	UnreadCount int64  `json:"unread_count"`
}
