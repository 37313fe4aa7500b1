package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentEvent verdicts
const (
	PaymentEventAccepted        = "ACCEPTED"
	PaymentEventHashMismatch    = "HASH_MISMATCH"
	PaymentEventPaymentFailed   = "PAYMENT_FAILED"
	PaymentEventInvalidMapping  = "INVALID_MAPPING"
	PaymentEventAlreadyEnrolled = "ALREADY_ENROLLED"
	PaymentEventError           = "ERROR"
)

// PaymentEvent records every callback the gateway delivers, including the
// ones we reject, so disputed or forged deliveries can be investigated later.
type PaymentEvent struct {
	gorm.Model
	EventID       string         `json:"eventId" gorm:"type:varchar(36);uniqueIndex"`
	OrderID       string         `json:"orderId" gorm:"type:varchar(100);index"`
	TransactionID string         `json:"transactionId" gorm:"type:varchar(100);index"`
	ResponseCode  string         `json:"responseCode" gorm:"type:varchar(10)"`
	Verdict       string         `json:"verdict" gorm:"type:varchar(30);index"`
	RawPayload    datatypes.JSON `json:"rawPayload"`
}

func (PaymentEvent) TableName() string {
	return "payment_events"
}
