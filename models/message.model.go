package models

import "gorm.io/gorm"

// MessageTypeSystem marks notifications generated by the platform itself.
const MessageTypeSystem = "system_notification"

// Message is a persisted notification. This subsystem only writes them;
// reading/chat is handled elsewhere.
type Message struct {
	gorm.Model
	SenderID    uint   `json:"senderId" gorm:"not null;index"`
	ReceiverID  uint   `json:"receiverId" gorm:"not null;index"`
	Content     string `json:"content" gorm:"type:text"`
	MessageType string `json:"messageType" gorm:"type:varchar(50);default:'system_notification'"`
}
