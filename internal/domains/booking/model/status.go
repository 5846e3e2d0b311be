package model

import "slices"

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked-in"
	StatusCheckedOut = "checked-out"
	StatusCancelled  = "cancelled"
)

const (
	PaymentPending         = "pending"
	PaymentAwaitingPayment = "awaiting_payment"
	PaymentPaid            = "paid"
	PaymentFailed          = "failed"
	// PaymentRefunded is only ever displayed.
	PaymentRefunded = "refunded"
)

var allowedTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut, StatusCancelled},
}

func Statuses() []string {
	return []string{StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled}
}

func PaymentStatuses() []string {
	return []string{PaymentPending, PaymentAwaitingPayment, PaymentPaid, PaymentFailed}
}

func ValidStatus(status string) bool {
	return slices.Contains(Statuses(), status)
}

// CanTransition reports whether a booking may move from one status to another.
// Staying in the same status is not a transition.
func CanTransition(from, to string) bool {
	return slices.Contains(allowedTransitions[from], to)
}

func IsTerminal(status string) bool {
	return status == StatusCheckedOut || status == StatusCancelled
}

type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var unknownBadge = Badge{Label: "Unknown", Color: "secondary"}

var statusBadges = map[string]Badge{
	StatusPending:    {Label: "Pending", Color: "warning"},
	StatusConfirmed:  {Label: "Confirmed", Color: "success"},
	StatusCheckedIn:  {Label: "Checked In", Color: "primary"},
	StatusCheckedOut: {Label: "Checked Out", Color: "info"},
	StatusCancelled:  {Label: "Cancelled", Color: "danger"},
}

var paymentBadges = map[string]Badge{
	PaymentPending:         {Label: "Pending", Color: "warning"},
	PaymentAwaitingPayment: {Label: "Awaiting Payment", Color: "info"},
	PaymentPaid:            {Label: "Paid", Color: "success"},
	PaymentFailed:          {Label: "Failed", Color: "danger"},
	PaymentRefunded:        {Label: "Refunded", Color: "secondary"},
}

// calendar fill colors by status
var statusColors = map[string]string{
	StatusPending:    "#ffc107",
	StatusConfirmed:  "#28a745",
	StatusCheckedIn:  "#007bff",
	StatusCheckedOut: "#6c757d",
	StatusCancelled:  "#dc3545",
}

func StatusBadge(status string) Badge {
	if badge, ok := statusBadges[status]; ok {
		return badge
	}

	return unknownBadge
}

func PaymentBadge(status string) Badge {
	if badge, ok := paymentBadges[status]; ok {
		return badge
	}

	return unknownBadge
}

func StatusColor(status string) string {
	if color, ok := statusColors[status]; ok {
		return color
	}

	return "#6c757d"
}
