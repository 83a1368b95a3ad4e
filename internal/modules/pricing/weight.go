package pricing

import "github.com/shopspring/decimal"

// ActualWeight is the declared weight of the shipment, Σ weight × count.
func ActualWeight(lines []ShipmentLine) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.Weight).Mul(decimal.NewFromInt(int64(l.Count))))
	}
	return total.InexactFloat64()
}

// VolumetricWeight sums ceil(l×w×h×count / kFactor) line by line. The ceiling
// is taken per line, so the result can exceed ceil(total volume / kFactor).
func VolumetricWeight(lines []ShipmentLine, kFactor float64) float64 {
	if kFactor <= 0 {
		kFactor = DefaultKFactor
	}
	k := decimal.NewFromFloat(kFactor)
	total := decimal.Zero
	for _, l := range lines {
		volume := decimal.NewFromFloat(l.Length).
			Mul(decimal.NewFromFloat(l.Width)).
			Mul(decimal.NewFromFloat(l.Height)).
			Mul(decimal.NewFromInt(int64(l.Count)))
		total = total.Add(volume.Div(k).Ceil())
	}
	return total.InexactFloat64()
}

// ChargeableWeight returns the billing basis: the greater of volumetric and actual weight.
func ChargeableWeight(lines []ShipmentLine, kFactor float64) Weights {
	w := Weights{
		Actual:     ActualWeight(lines),
		Volumetric: VolumetricWeight(lines, kFactor),
	}
	w.Chargeable = w.Actual
	if w.Volumetric > w.Chargeable {
		w.Chargeable = w.Volumetric
	}
	return w
}
