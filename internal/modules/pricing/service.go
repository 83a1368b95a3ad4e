// README: Pricing service computes itemized freight charges and maintains carrier zone matrices.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"freightquote/internal/types"
)

var (
	// ErrNoRate means the route has no unit price on the rate card. It marks a
	// carrier as not quotable, not as a fault.
	ErrNoRate     = errors.New("no rate available")
	ErrNotFound   = errors.New("rate card not found")
	ErrBadRequest = errors.New("bad request")
)

var hundred = decimal.NewFromInt(100)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// ComputeCharge turns a chargeable weight and unit price into an itemized charge.
func ComputeCharge(chargeableWeight, unitPrice float64, rate PriceRate, destinationOda bool) (ChargeBreakdown, error) {
	if unitPrice <= 0 {
		return ChargeBreakdown{}, ErrNoRate
	}
	weight := decimal.NewFromFloat(chargeableWeight)
	base := decimal.NewFromFloat(unitPrice).Mul(weight)

	docket := decimal.NewFromFloat(rate.DocketCharges)
	minCharges := decimal.NewFromFloat(rate.MinCharges)
	greenTax := decimal.NewFromFloat(rate.GreenTax)
	dacc := decimal.NewFromFloat(rate.DaccCharges)
	misc := decimal.NewFromFloat(rate.MiscellanousCharges)

	fuel := percent(rate.Fuel).Mul(base)
	rov := greaterOf(rate.RovCharges, base)
	insurance := greaterOf(rate.InsuaranceCharges, base)
	fm := greaterOf(rate.FmCharges, base)
	appointment := greaterOf(rate.AppointmentCharges, base)

	oda := decimal.Zero
	if destinationOda {
		oda = perWeight(rate.OdaCharges, weight)
	}
	handling := perWeight(rate.HandlingCharges, weight)

	total := base.Add(docket).Add(minCharges).Add(greenTax).Add(dacc).Add(misc).
		Add(fuel).Add(rov).Add(insurance).Add(oda).Add(handling).Add(fm).Add(appointment)

	return ChargeBreakdown{
		UnitPrice:          unitPrice,
		BaseFreight:        base.InexactFloat64(),
		DocketCharge:       docket.InexactFloat64(),
		MinCharges:         minCharges.InexactFloat64(),
		GreenTax:           greenTax.InexactFloat64(),
		DaccCharges:        dacc.InexactFloat64(),
		MiscCharges:        misc.InexactFloat64(),
		FuelCharges:        fuel.InexactFloat64(),
		RovCharges:         rov.InexactFloat64(),
		InsuaranceCharges:  insurance.InexactFloat64(),
		OdaCharges:         oda.InexactFloat64(),
		HandlingCharges:    handling.InexactFloat64(),
		FmCharges:          fm.InexactFloat64(),
		AppointmentCharges: appointment.InexactFloat64(),
		TotalCharges:       total.InexactFloat64(),
	}, nil
}

// Compute prices shipment lines on a route with the given rate card.
func Compute(lines []ShipmentLine, route Route, card RateCard) (Computation, error) {
	if card.Rates == nil {
		return Computation{}, ErrNoRate
	}
	unitPrice, ok := card.Rates.UnitPrice(route)
	if !ok {
		return Computation{}, ErrNoRate
	}
	weights := ChargeableWeight(lines, card.PriceRate.KFactor)
	breakdown, err := ComputeCharge(weights.Chargeable, unitPrice, card.PriceRate, route.Destination.IsOda)
	if err != nil {
		return Computation{}, err
	}
	return Computation{Weights: weights, ChargeBreakdown: breakdown}, nil
}

// RateCards loads the public rate cards for the given carriers in one read.
func (s *Service) RateCards(ctx context.Context, carrierIDs []types.ID) ([]RateCard, error) {
	if len(carrierIDs) == 0 {
		return nil, nil
	}
	return s.store.GetRateCards(ctx, carrierIDs)
}

func (s *Service) ZoneMatrix(ctx context.Context, carrierID types.ID) (ZoneMatrix, error) {
	if carrierID == "" {
		return nil, ErrBadRequest
	}
	return s.store.GetZoneMatrix(ctx, carrierID)
}

func (s *Service) UpdateZoneMatrix(ctx context.Context, carrierID types.ID, m ZoneMatrix) error {
	if carrierID == "" || len(m) == 0 {
		return ErrBadRequest
	}
	for origin, row := range m {
		if origin == "" || len(row) == 0 {
			return fmt.Errorf("%w: zone %q has no destinations", ErrBadRequest, origin)
		}
		for dest, price := range row {
			if dest == "" || price <= 0 {
				return fmt.Errorf("%w: price %s→%s must be positive", ErrBadRequest, origin, dest)
			}
		}
	}
	return s.store.UpsertZoneMatrix(ctx, carrierID, m)
}

func (s *Service) DeleteZoneMatrix(ctx context.Context, carrierID types.ID) error {
	if carrierID == "" {
		return ErrBadRequest
	}
	return s.store.ClearZoneMatrix(ctx, carrierID)
}

func percent(p float64) decimal.Decimal {
	return decimal.NewFromFloat(p).Div(hundred)
}

func greaterOf(c Charge, base decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.NewFromFloat(c.Fixed), percent(c.Variable).Mul(base))
}

func perWeight(c Charge, weight decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(c.Fixed).Add(percent(c.Variable).Mul(weight))
}
