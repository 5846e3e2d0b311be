package daraja

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ResponseCodeAccepted is returned by the gateway when a request was accepted for processing.
const ResponseCodeAccepted = "0"

// STKPushRequest is what callers supply; credentials and timestamps are filled in by the client.
type STKPushRequest struct {
	PhoneNumber      string
	// Amount is charged in whole shillings; the fraction is dropped.
	Amount           decimal.Decimal
	AccountReference string
	TransactionDesc  string
}

type stkPushBody struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

func (r STKPushResponse) Accepted() bool {
	return r.ResponseCode == ResponseCodeAccepted
}

type stkQueryBody struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type STKQueryResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResultCode          string `json:"ResultCode"`
	ResultDesc          string `json:"ResultDesc"`
}

// Completed reports whether the customer approved the prompt.
func (r STKQueryResponse) Completed() bool {
	return r.ResultCode == ResponseCodeAccepted
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type errorResponse struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// Callback is the body the gateway POSTs to the callback URL.
type Callback struct {
	Body struct {
		StkCallback *StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

type StkCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

func (c *StkCallback) Succeeded() bool {
	return c.ResultCode == 0
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value,omitempty"`
}

// String returns the named item as text; numbers are rendered without exponent.
func (m *CallbackMetadata) String(name string) string {
	if m == nil {
		return ""
	}

	for _, item := range m.Item {
		if item.Name != name || len(item.Value) == 0 {
			continue
		}

		var text string
		if err := json.Unmarshal(item.Value, &text); err == nil {
			return text
		}

		var number json.Number
		if err := json.Unmarshal(item.Value, &number); err == nil {
			return number.String()
		}
	}

	return ""
}

// Decimal returns the named item as a decimal, or zero when absent.
func (m *CallbackMetadata) Decimal(name string) decimal.Decimal {
	value, err := decimal.NewFromString(m.String(name))
	if err != nil {
		return decimal.Zero
	}

	return value
}

func parseExpiresIn(raw string) (int, error) {
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid expires_in %q: %w", raw, err)
	}

	return seconds, nil
}
