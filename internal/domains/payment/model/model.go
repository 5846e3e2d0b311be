package model

import (
	"jumuia/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "mpesa_payments"
	EntityName = "payment"

	FieldID                = "id"
	FieldBookingID         = "booking_id"
	FieldCheckoutRequestID = "checkout_request_id"
	FieldStatus            = "status"
	FieldReceiptNumber     = "receipt_number"
	FieldResultCode        = "result_code"
	FieldResultDesc        = "result_desc"
	FieldTransactionDate   = "transaction_date"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	// Callback metadata item names.
	ItemReceiptNumber   = "MpesaReceiptNumber"
	ItemAmount          = "Amount"
	ItemPhoneNumber     = "PhoneNumber"
	ItemTransactionDate = "TransactionDate"

	TransactionDesc = "Jumuia Resorts booking"
)

type Payment struct {
	ID                string          `db:"id"`
	BookingID         string          `db:"booking_id"`
	PhoneNumber       string          `db:"phone_number"`
	Amount            decimal.Decimal `db:"amount"`
	CheckoutRequestID string          `db:"checkout_request_id"`
	MerchantRequestID string          `db:"merchant_request_id"`
	Status            string          `db:"status"`
	ReceiptNumber     string          `db:"receipt_number"`
	ResultCode        *int            `db:"result_code"`
	ResultDesc        string          `db:"result_desc"`
	TransactionDate   *time.Time      `db:"transaction_date"`
	model.Metadata
}

// Final reports whether the gateway has already settled this attempt.
func (p Payment) Final() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}
