// README: Quotation orchestrator: one distance lookup, concurrent carrier pricing, visibility policy.
package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"freightquote/internal/config"
	"freightquote/internal/modules/carrier"
	"freightquote/internal/modules/customer"
	"freightquote/internal/modules/distance"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/tieup"
	"freightquote/internal/reqctx"
	"freightquote/internal/types"
)

type Customers interface {
	GetSubscription(ctx context.Context, id types.ID) (customer.Account, error)
}

type TieUps interface {
	List(ctx context.Context, customerID types.ID) ([]tieup.TiedUp, error)
}

type Carriers interface {
	FindServiceable(ctx context.Context, origin, destination types.Pincode) ([]carrier.Carrier, error)
	Get(ctx context.Context, id types.ID, pincodes ...types.Pincode) (*carrier.Carrier, error)
}

type RateCards interface {
	RateCards(ctx context.Context, carrierIDs []types.ID) ([]pricing.RateCard, error)
}

type Distances interface {
	Resolve(ctx context.Context, origin, destination types.Pincode) distance.Estimate
}

// Publisher receives IssuedEvent notifications. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
}

const publishTimeout = 5 * time.Second

type Service struct {
	customers Customers
	tieUps    TieUps
	carriers  Carriers
	rates     RateCards
	distances Distances
	publisher Publisher
	cfg       config.QuoteConfig
}

// NewService wires the orchestrator. publisher may be nil.
func NewService(customers Customers, tieUps TieUps, carriers Carriers, rates RateCards, distances Distances, publisher Publisher, cfg config.QuoteConfig) *Service {
	return &Service{
		customers: customers,
		tieUps:    tieUps,
		carriers:  carriers,
		rates:     rates,
		distances: distances,
		publisher: publisher,
		cfg:       cfg,
	}
}

// snapshot is everything read before pricing starts.
type snapshot struct {
	estimate   distance.Estimate
	subscribed bool
	tieUps     []tieup.TiedUp
	candidates []carrier.Carrier
	cards      map[types.ID]pricing.RateCard
}

// Quote prices the shipment for every usable tied-up and public carrier.
// Carriers that cannot be read or priced in time are left out of the result.
func (s *Service) Quote(ctx context.Context, req Request) (Result, error) {
	ctx, scope := reqctx.Ensure(ctx)
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	defer scope.Time("quote")()

	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	snap, err := s.load(ctx, req)
	if err != nil {
		return Result{}, err
	}

	lines := req.Shipment()
	tiedSlots := make([]*Quote, len(snap.tieUps))
	publicSlots := make([]*Quote, len(snap.candidates))

	var g errgroup.Group
	if s.cfg.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.MaxConcurrency)
	}
	for i := range snap.tieUps {
		i := i
		tu := &snap.tieUps[i]
		g.Go(func() error {
			tiedSlots[i] = s.priceTiedUp(ctx, scope, req, lines, snap.estimate, tu)
			return nil
		})
	}
	for i := range snap.candidates {
		i := i
		c := &snap.candidates[i]
		g.Go(func() error {
			publicSlots[i] = s.pricePublic(ctx, scope, req, lines, snap.estimate, c, snap.cards)
			return nil
		})
	}
	_ = g.Wait()

	tied := compact(tiedSlots)
	l1 := TiedUpFloor(tied)
	res := Result{
		TiedUp: tied,
		Public: ApplyVisibility(compact(publicSlots), l1, snap.subscribed),
	}
	scope.Logf("quote customer=%s route=%s→%s tiedUp=%d public=%d/%d",
		req.CustomerID, req.FromPincode, req.ToPincode, len(res.TiedUp), len(res.Public), len(snap.candidates))

	s.publish(ctx, scope, newIssuedEvent(scope.ID, req, res, l1))
	return res, nil
}

// load runs the distance lookup and the collaborator reads concurrently. Only
// the customer lookup is fatal; the others degrade to an empty set.
func (s *Service) load(ctx context.Context, req Request) (*snapshot, error) {
	scope := reqctx.From(ctx)
	snap := &snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		snap.estimate = s.distances.Resolve(gctx, req.FromPincode, req.ToPincode)
		return nil
	})

	g.Go(func() error {
		readCtx, cancel := s.readContext(gctx)
		defer cancel()
		acct, err := s.customers.GetSubscription(readCtx, req.CustomerID)
		if errors.Is(err, customer.ErrNotFound) {
			return ErrCustomerNotFound
		}
		if err != nil {
			scope.Logf("customer=%s subscription read failed: %v", req.CustomerID, err)
			return fmt.Errorf("%w: customer lookup: %v", ErrServiceUnavailable, err)
		}
		snap.subscribed = acct.IsSubscribed
		return nil
	})

	g.Go(func() error {
		readCtx, cancel := s.readContext(gctx)
		defer cancel()
		list, err := s.tieUps.List(readCtx, req.CustomerID)
		if err != nil {
			scope.Logf("customer=%s tie-up read failed, continuing without tie-ups: %v", req.CustomerID, err)
			return nil
		}
		snap.tieUps = list
		return nil
	})

	g.Go(func() error {
		readCtx, cancel := s.readContext(gctx)
		defer cancel()
		candidates, err := s.carriers.FindServiceable(readCtx, req.FromPincode, req.ToPincode)
		if err != nil {
			scope.Logf("route=%s→%s carrier read failed, no public quotes: %v", req.FromPincode, req.ToPincode, err)
			return nil
		}
		if len(candidates) == 0 {
			return nil
		}
		ids := make([]types.ID, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID
		}
		cards, err := s.rates.RateCards(readCtx, ids)
		if err != nil {
			scope.Logf("route=%s→%s rate card read failed, no public quotes: %v", req.FromPincode, req.ToPincode, err)
			return nil
		}
		snap.candidates = candidates
		snap.cards = make(map[types.ID]pricing.RateCard, len(cards))
		for _, card := range cards {
			snap.cards[card.CarrierID] = card
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Service) priceTiedUp(ctx context.Context, scope *reqctx.Scope, req Request, lines []pricing.ShipmentLine, est distance.Estimate, tu *tieup.TiedUp) *Quote {
	if !tu.PriceChart.Covers(pricing.Endpoint{Pincode: req.FromPincode}) {
		return nil
	}
	readCtx, cancel := s.readContext(ctx)
	c, err := s.carriers.Get(readCtx, tu.CarrierID, req.FromPincode, req.ToPincode)
	cancel()
	if err != nil {
		scope.Logf("customer=%s route=%s→%s tie-up carrier=%s excluded: %v",
			req.CustomerID, req.FromPincode, req.ToPincode, tu.CarrierID, err)
		return nil
	}
	return s.price(scope, req, lines, est, c, tu.RateCard())
}

func (s *Service) pricePublic(ctx context.Context, scope *reqctx.Scope, req Request, lines []pricing.ShipmentLine, est distance.Estimate, c *carrier.Carrier, cards map[types.ID]pricing.RateCard) *Quote {
	if ctx.Err() != nil {
		return nil
	}
	card, ok := cards[c.ID]
	if !ok {
		scope.Logf("carrier=%s excluded: no rate card", c.ID)
		return nil
	}
	return s.price(scope, req, lines, est, c, card)
}

func (s *Service) price(scope *reqctx.Scope, req Request, lines []pricing.ShipmentLine, est distance.Estimate, c *carrier.Carrier, card pricing.RateCard) *Quote {
	route, err := c.Route(req.FromPincode, req.ToPincode)
	if err != nil {
		scope.Logf("carrier=%s excluded: %v", c.ID, err)
		return nil
	}
	comp, err := pricing.Compute(lines, route, card)
	if err != nil {
		scope.Logf("carrier=%s excluded: zone %s→%s: %v", c.ID, route.Origin.Zone, route.Destination.Zone, err)
		return nil
	}
	return &Quote{
		CarrierID:          c.ID,
		CarrierName:        c.Name,
		OriginPincode:      req.FromPincode,
		DestinationPincode: req.ToPincode,
		EstimatedDays:      est.EstimatedDays,
		Distance:           est.DistanceText,
		ActualWeight:       round2(comp.Actual),
		VolumetricWeight:   round2(comp.Volumetric),
		ChargeableWeight:   round2(comp.Chargeable),
		ChargeBreakdown:    comp.ChargeBreakdown,
	}
}

func (s *Service) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.ReadTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.ReadTimeout)
}

// publish sends ev without holding up the response.
func (s *Service) publish(ctx context.Context, scope *reqctx.Scope, ev IssuedEvent) {
	if s.publisher == nil {
		return
	}
	pubCtx := context.WithoutCancel(ctx)
	go func() {
		pubCtx, cancel := context.WithTimeout(pubCtx, publishTimeout)
		defer cancel()
		if err := s.publisher.Publish(pubCtx, string(ev.CustomerID), ev); err != nil {
			scope.Logf("publish quote event failed: %v", err)
		}
	}()
}

func compact(slots []*Quote) []Quote {
	out := make([]Quote, 0, len(slots))
	for _, q := range slots {
		if q != nil {
			out = append(out, *q)
		}
	}
	return out
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
