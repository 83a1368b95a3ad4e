// README: Orchestrator scenario tests against in-memory collaborators.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightquote/internal/config"
	"freightquote/internal/modules/carrier"
	"freightquote/internal/modules/customer"
	"freightquote/internal/modules/distance"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/tieup"
	"freightquote/internal/types"
)

const (
	origin types.Pincode = 110001
	dest   types.Pincode = 400001
)

type mockCustomers struct {
	accounts map[types.ID]customer.Account
	err      error
}

func (m *mockCustomers) GetSubscription(_ context.Context, id types.ID) (customer.Account, error) {
	if m.err != nil {
		return customer.Account{}, m.err
	}
	a, ok := m.accounts[id]
	if !ok {
		return customer.Account{}, customer.ErrNotFound
	}
	return a, nil
}

type mockTieUps struct {
	list []tieup.TiedUp
	err  error
}

func (m *mockTieUps) List(_ context.Context, _ types.ID) ([]tieup.TiedUp, error) {
	return m.list, m.err
}

type mockCarriers struct {
	mu          sync.Mutex
	serviceable []carrier.Carrier
	byID        map[types.ID]*carrier.Carrier
	getErr      map[types.ID]error
	slow        map[types.ID]bool
	gets        []types.ID
}

func (m *mockCarriers) FindServiceable(_ context.Context, _, _ types.Pincode) ([]carrier.Carrier, error) {
	return m.serviceable, nil
}

func (m *mockCarriers) Get(ctx context.Context, id types.ID, _ ...types.Pincode) (*carrier.Carrier, error) {
	m.mu.Lock()
	m.gets = append(m.gets, id)
	err, slow := m.getErr[id], m.slow[id]
	c, ok := m.byID[id]
	m.mu.Unlock()
	if slow {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, carrier.ErrNotFound
	}
	return c, nil
}

func (m *mockCarriers) getCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.gets)
}

type mockRates struct {
	cards []pricing.RateCard
	err   error
}

func (m *mockRates) RateCards(_ context.Context, ids []types.ID) ([]pricing.RateCard, error) {
	if m.err != nil {
		return nil, m.err
	}
	want := make(map[types.ID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []pricing.RateCard
	for _, c := range m.cards {
		if want[c.CarrierID] {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockDistances struct {
	mu    sync.Mutex
	calls int
}

func (m *mockDistances) Resolve(_ context.Context, _, _ types.Pincode) distance.Estimate {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return distance.Estimate{DistanceText: "1,150 km", EstimatedDays: 2.88}
}

type mockPublisher struct {
	events chan any
}

func (m *mockPublisher) Publish(_ context.Context, _ string, v any) error {
	m.events <- v
	return nil
}

func ep(pin types.Pincode, zone string, oda bool) pricing.Endpoint {
	return pricing.Endpoint{Pincode: pin, Zone: zone, IsOda: oda}
}

func newCarrier(id string, entries ...pricing.Endpoint) carrier.Carrier {
	c := carrier.Carrier{ID: types.ID(id), Name: "Carrier " + id, Service: map[types.Pincode]pricing.Endpoint{}}
	for _, e := range entries {
		c.Service[e.Pincode] = e
	}
	return c
}

func zoneCard(id string, price float64) pricing.RateCard {
	return pricing.RateCard{CarrierID: types.ID(id), Rates: pricing.ZoneMatrix{"N1": {"W1": price}}}
}

func tieUpWith(carrierID string, price float64) tieup.TiedUp {
	return tieup.TiedUp{
		ID:         types.ID("tu-" + carrierID),
		CustomerID: "C",
		CarrierID:  types.ID(carrierID),
		PriceChart: pricing.PincodeMatrix{"110001": {"W1": price}},
	}
}

// fixture builds the reference marketplace: tie-up A at 100/kg, public B at
// 90/kg and D at 120/kg. The request bills 10 kg.
type fixture struct {
	customers *mockCustomers
	tieUps    *mockTieUps
	carriers  *mockCarriers
	rates     *mockRates
	distances *mockDistances
	publisher *mockPublisher
	cfg       config.QuoteConfig
}

func newFixture(subscribed bool) *fixture {
	a := newCarrier("A", ep(origin, "N1", false), ep(dest, "W1", false))
	return &fixture{
		customers: &mockCustomers{accounts: map[types.ID]customer.Account{"C": {ID: "C", IsSubscribed: subscribed}}},
		tieUps:    &mockTieUps{list: []tieup.TiedUp{tieUpWith("A", 100)}},
		carriers: &mockCarriers{
			serviceable: []carrier.Carrier{
				newCarrier("B", ep(origin, "N1", false), ep(dest, "W1", false)),
				newCarrier("D", ep(origin, "N1", false), ep(dest, "W1", false)),
			},
			byID: map[types.ID]*carrier.Carrier{"A": &a},
		},
		rates:     &mockRates{cards: []pricing.RateCard{zoneCard("B", 90), zoneCard("D", 120)}},
		distances: &mockDistances{},
		cfg:       config.QuoteConfig{ReadTimeout: time.Second, RequestTimeout: 5 * time.Second, MaxConcurrency: 4},
	}
}

func (f *fixture) service() *Service {
	var pub Publisher
	if f.publisher != nil {
		pub = f.publisher
	}
	return NewService(f.customers, f.tieUps, f.carriers, f.rates, f.distances, pub, f.cfg)
}

func totals(qs []Quote) []float64 {
	out := make([]float64, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.TotalCharges)
	}
	return out
}

func TestQuote_UnsubscribedSeesMaskedCheaperPublicQuote(t *testing.T) {
	f := newFixture(false)

	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, res.TiedUp, 1)
	a := res.TiedUp[0]
	assert.Equal(t, types.ID("A"), a.CarrierID)
	assert.Equal(t, 1000.0, a.TotalCharges)
	assert.Equal(t, 100.0, a.UnitPrice)
	assert.Equal(t, 10.0, a.ChargeableWeight)
	assert.False(t, a.IsHidden)

	require.Len(t, res.Public, 1, "D at 1200 must be dropped")
	assert.Equal(t, Quote{ChargeBreakdown: pricing.ChargeBreakdown{TotalCharges: 900}, IsHidden: true}, res.Public[0])

	b, err := json.Marshal(res.Public)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"totalCharges": 900, "isHidden": true}]`, string(b))
}

func TestQuote_SubscribedSeesFullBreakdown(t *testing.T) {
	f := newFixture(true)

	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, []float64{1000}, totals(res.TiedUp))
	require.Len(t, res.Public, 1)
	b := res.Public[0]
	assert.Equal(t, types.ID("B"), b.CarrierID)
	assert.Equal(t, "Carrier B", b.CarrierName)
	assert.Equal(t, 900.0, b.TotalCharges)
	assert.Equal(t, 900.0, b.BaseFreight)
	assert.False(t, b.IsHidden)
	assert.Equal(t, "1,150 km", b.Distance)
	assert.Equal(t, 2.88, b.EstimatedDays)
}

func TestQuote_NoTieUpsKeepsEveryPricedPublicCarrier(t *testing.T) {
	f := newFixture(false)
	f.tieUps.list = nil

	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Empty(t, res.TiedUp)
	assert.NotNil(t, res.TiedUp)
	assert.Equal(t, []float64{900, 1200}, totals(res.Public))
	for _, q := range res.Public {
		assert.True(t, q.IsHidden)
	}
}

func TestQuote_PublicQuoteEqualToTieUpIsKept(t *testing.T) {
	f := newFixture(true)
	f.rates.cards = []pricing.RateCard{zoneCard("B", 100), zoneCard("D", 100.01)}

	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, []float64{1000}, totals(res.Public))
}

func TestQuote_OriginOdaCarrierNeverAppears(t *testing.T) {
	f := newFixture(true)
	oda := newCarrier("E", ep(origin, "N1", true), ep(dest, "W1", false))
	f.carriers.serviceable = append(f.carriers.serviceable, oda)
	f.carriers.byID["E"] = &oda
	f.rates.cards = append(f.rates.cards, zoneCard("E", 10))
	f.tieUps.list = append(f.tieUps.list, tieUpWith("E", 10))

	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)

	for _, q := range append(res.TiedUp, res.Public...) {
		assert.NotEqual(t, types.ID("E"), q.CarrierID)
	}
	assert.Equal(t, []float64{1000}, totals(res.TiedUp))
}

func TestQuote_DestinationOdaAddsSurcharge(t *testing.T) {
	f := newFixture(true)
	f.tieUps.list = nil
	f.carriers.serviceable = []carrier.Carrier{newCarrier("B", ep(origin, "N1", false), ep(dest, "W1", true))}
	card := zoneCard("B", 90)
	card.PriceRate.OdaCharges = pricing.Charge{Fixed: 100, Variable: 50}
	f.rates.cards = []pricing.RateCard{card}

	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, res.Public, 1)
	assert.Equal(t, 105.0, res.Public[0].OdaCharges)
	assert.Equal(t, 1005.0, res.Public[0].TotalCharges)
}

func TestQuote_CarriersWithoutRateAreAbsent(t *testing.T) {
	f := newFixture(true)
	f.tieUps.list = append(f.tieUps.list, tieup.TiedUp{
		ID:         "tu-other-origin",
		CustomerID: "C",
		CarrierID:  "A",
		PriceChart: pricing.PincodeMatrix{"560001": {"W1": 1}},
	})
	f.carriers.serviceable = append(f.carriers.serviceable,
		newCarrier("F", ep(origin, "N1", false), ep(dest, "W1", false)),
		newCarrier("G", ep(origin, "N1", false), ep(dest, "W1", false)),
	)
	f.rates.cards = append(f.rates.cards, pricing.RateCard{CarrierID: "G", Rates: pricing.ZoneMatrix{"N1": {"S1": 1}}})

	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, []float64{1000}, totals(res.TiedUp))
	ids := []types.ID{}
	for _, q := range res.Public {
		ids = append(ids, q.CarrierID)
	}
	assert.Equal(t, []types.ID{"B"}, ids)
	assert.Equal(t, 1, f.carriers.getCount(), "tie-up without origin coverage needs no carrier read")
}

func TestQuote_CarrierReadFailureExcludesOnlyThatCarrier(t *testing.T) {
	f := newFixture(true)
	x := newCarrier("X", ep(origin, "N1", false), ep(dest, "W1", false))
	s := newCarrier("S", ep(origin, "N1", false), ep(dest, "W1", false))
	f.carriers.byID["X"] = &x
	f.carriers.byID["S"] = &s
	f.carriers.getErr = map[types.ID]error{"X": errors.New("connection reset")}
	f.carriers.slow = map[types.ID]bool{"S": true}
	f.tieUps.list = append(f.tieUps.list, tieUpWith("X", 50), tieUpWith("S", 50))
	f.cfg.ReadTimeout = 20 * time.Millisecond

	start := time.Now()
	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, []float64{1000}, totals(res.TiedUp))
	assert.Equal(t, []float64{900}, totals(res.Public))
}

func TestQuote_RequestTimeoutReturnsPartialResult(t *testing.T) {
	f := newFixture(true)
	x := newCarrier("X", ep(origin, "N1", false), ep(dest, "W1", false))
	f.carriers.byID["X"] = &x
	f.carriers.slow = map[types.ID]bool{"X": true}
	f.tieUps.list = append(f.tieUps.list, tieUpWith("X", 50))
	f.cfg.ReadTimeout = 10 * time.Second
	f.cfg.RequestTimeout = 100 * time.Millisecond

	start := time.Now()
	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second, "request budget must cut the slow carrier read")
	assert.Equal(t, []float64{1000}, totals(res.TiedUp), "slow tie-up X is dropped")
	assert.Equal(t, []float64{900}, totals(res.Public))
}

func TestQuote_ExpiredContextPricesNoPublicCarriers(t *testing.T) {
	f := newFixture(true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.service().Quote(ctx, validRequest())
	require.NoError(t, err)

	assert.Equal(t, []float64{1000}, totals(res.TiedUp))
	assert.Empty(t, res.Public)
}

func TestQuote_TieUpReadFailureDegradesToNoTieUps(t *testing.T) {
	f := newFixture(false)
	f.tieUps.err = errors.New("timeout")

	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, res.TiedUp)
	assert.Equal(t, []float64{900, 1200}, totals(res.Public))
}

func TestQuote_RateCardReadFailureDropsPublicQuotes(t *testing.T) {
	f := newFixture(true)
	f.rates.err = errors.New("timeout")

	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, []float64{1000}, totals(res.TiedUp))
	assert.Empty(t, res.Public)
}

func TestQuote_CustomerErrors(t *testing.T) {
	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture(false)
		req := validRequest()
		req.CustomerID = "nobody"
		_, err := f.service().Quote(context.Background(), req)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("customer lookup failure", func(t *testing.T) {
		f := newFixture(false)
		f.customers.err = errors.New("pool exhausted")
		_, err := f.service().Quote(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceUnavailable)
	})
}

func TestQuote_ValidationFailsBeforeAnyWork(t *testing.T) {
	f := newFixture(false)
	req := validRequest()
	req.Lines = nil

	_, err := f.service().Quote(context.Background(), req)

	assert.ErrorIs(t, err, ErrBadRequest)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Zero(t, f.distances.calls)
	assert.Zero(t, f.carriers.getCount())
}

func TestQuote_DistanceResolvedOnce(t *testing.T) {
	f := newFixture(true)
	b := newCarrier("B2", ep(origin, "N1", false), ep(dest, "W1", false))
	f.carriers.byID["B2"] = &b
	f.tieUps.list = append(f.tieUps.list, tieUpWith("B2", 95))

	res, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, f.distances.calls)
	assert.Equal(t, []float64{1000, 950}, totals(res.TiedUp), "tie-ups keep their input order")
	for _, q := range append(res.TiedUp, res.Public...) {
		assert.Equal(t, "1,150 km", q.Distance)
	}
}

func TestQuote_PublishesIssuedEvent(t *testing.T) {
	f := newFixture(false)
	f.publisher = &mockPublisher{events: make(chan any, 1)}

	_, err := f.service().Quote(context.Background(), validRequest())
	require.NoError(t, err)

	select {
	case v := <-f.publisher.events:
		ev, ok := v.(IssuedEvent)
		require.True(t, ok)
		assert.Equal(t, types.ID("C"), ev.CustomerID)
		assert.Equal(t, 1, ev.TiedUpCount)
		assert.Equal(t, 1, ev.PublicCount)
		require.NotNil(t, ev.BestTiedUpTotal)
		assert.Equal(t, 1000.0, *ev.BestTiedUpTotal)
		assert.NotEmpty(t, ev.CorrelationID)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}
