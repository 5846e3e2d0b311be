package dto

import (
	"jumuia/internal/domains/payment/model"
	"time"

	"github.com/shopspring/decimal"
)

type InitiateRequest struct {
	PhoneNumber string          `json:"phone_number" validate:"required"`
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0" swaggertype:"string" example:"27000"`
	// BookingID accepts the booking uuid or its WEB-/ADM- code.
	BookingID string `json:"booking_id" validate:"required"`
}

type InitiateResponse struct {
	CheckoutRequestID string `json:"checkout_request_id"`
	MerchantRequestID string `json:"merchant_request_id"`
	CustomerMessage   string `json:"customer_message"`
	Status            string `json:"status"`
}

type StatusResponse struct {
	CheckoutRequestID string `json:"checkout_request_id"`
	Status            string `json:"status"`
	ReceiptNumber     string `json:"receipt_number,omitempty"`
	ResultDesc        string `json:"result_desc,omitempty"`
	TransactionDate   string `json:"transaction_date,omitempty"`
}

func (r *StatusResponse) FromModel(payment model.Payment) {
	r.CheckoutRequestID = payment.CheckoutRequestID
	r.Status = payment.Status
	r.ReceiptNumber = payment.ReceiptNumber
	r.ResultDesc = payment.ResultDesc

	if payment.TransactionDate != nil {
		r.TransactionDate = payment.TransactionDate.Format(time.RFC3339)
	}
}

// CallbackAck is the body the gateway expects back from the callback URL.
type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

func Accepted() CallbackAck {
	return CallbackAck{ResultCode: 0, ResultDesc: "Accepted"}
}

func Rejected(desc string) CallbackAck {
	return CallbackAck{ResultCode: 1, ResultDesc: desc}
}
