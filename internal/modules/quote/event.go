package quote

import (
	"math"
	"time"

	"freightquote/internal/types"
)

// IssuedEvent is published after every successful quotation.
type IssuedEvent struct {
	CorrelationID   string        `json:"correlationId"`
	CustomerID      types.ID      `json:"customerId"`
	Origin          types.Pincode `json:"origin"`
	Destination     types.Pincode `json:"destination"`
	TiedUpCount     int           `json:"tiedUpCount"`
	PublicCount     int           `json:"publicCount"`
	BestTiedUpTotal *float64      `json:"bestTiedUpTotal,omitempty"`
	IssuedAt        time.Time     `json:"issuedAt"`
}

func newIssuedEvent(correlationID string, req Request, res Result, l1 float64) IssuedEvent {
	ev := IssuedEvent{
		CorrelationID: correlationID,
		CustomerID:    req.CustomerID,
		Origin:        req.FromPincode,
		Destination:   req.ToPincode,
		TiedUpCount:   len(res.TiedUp),
		PublicCount:   len(res.Public),
		IssuedAt:      time.Now().UTC(),
	}
	if !math.IsInf(l1, 1) {
		best := l1
		ev.BestTiedUpTotal = &best
	}
	return ev
}
