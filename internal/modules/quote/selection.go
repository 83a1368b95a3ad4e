// README: Best-price selection and visibility policy for public carrier quotes.
package quote

import "math"

// TiedUpFloor is l1: the cheapest tied-up total, or +Inf when there are none.
func TiedUpFloor(tiedUp []Quote) float64 {
	l1 := math.Inf(1)
	for _, q := range tiedUp {
		l1 = math.Min(l1, q.TotalCharges)
	}
	return l1
}

// ApplyVisibility drops public quotes costing more than l1 and masks the rest
// unless the customer is subscribed. Public quotes are compared only against
// l1, never against each other. Input order is kept.
func ApplyVisibility(public []Quote, l1 float64, subscribed bool) []Quote {
	out := make([]Quote, 0, len(public))
	for _, q := range public {
		if q.TotalCharges > l1 {
			continue
		}
		if !subscribed {
			out = append(out, q.Masked())
			continue
		}
		q.IsHidden = false
		out = append(out, q)
	}
	return out
}
