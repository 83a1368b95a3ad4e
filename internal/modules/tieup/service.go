// README: Tie-up service validates and records negotiated rate cards.
package tieup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"freightquote/internal/modules/carrier"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/types"
)

var (
	ErrNotFound        = errors.New("tie-up not found")
	ErrConflict        = errors.New("tie-up already exists")
	ErrUnknownCustomer = errors.New("customer not found")
	ErrBadRequest      = errors.New("bad request")
)

type Repository interface {
	ListByCustomer(ctx context.Context, customerID types.ID) ([]TiedUp, error)
	Create(ctx context.Context, t *TiedUp) error
	CreatePending(ctx context.Context, r *PendingRequest) error
	Delete(ctx context.Context, customerID, carrierID types.ID) error
}

type CarrierLookup interface {
	FindByName(ctx context.Context, name string) (*carrier.Carrier, error)
}

type Service struct {
	store    Repository
	carriers CarrierLookup
}

func NewService(store Repository, carriers CarrierLookup) *Service {
	return &Service{store: store, carriers: carriers}
}

type AddCommand struct {
	CustomerID  types.ID
	CompanyName string
	Vendor      VendorDetails
	PriceRate   *pricing.PriceRate
	PriceChart  pricing.PincodeMatrix
}

// Outcome of Add: the carrier was known (Added) or the request awaits verification.
type AddResult struct {
	ID      types.ID
	Pending bool
}

// Validate reports every missing required field at once.
func (c AddCommand) Validate() error {
	var missing []string
	check := func(name string, absent bool) {
		if absent {
			missing = append(missing, name)
		}
	}
	check("customerID", c.CustomerID == "")
	check("vendorCode", strings.TrimSpace(c.Vendor.VendorCode) == "")
	check("vendorPhone", strings.TrimSpace(c.Vendor.VendorPhone) == "")
	check("vendorEmail", strings.TrimSpace(c.Vendor.VendorEmail) == "")
	check("gstNo", strings.TrimSpace(c.Vendor.GstNo) == "")
	check("mode", strings.TrimSpace(c.Vendor.Mode) == "")
	check("address", strings.TrimSpace(c.Vendor.Address) == "")
	check("state", strings.TrimSpace(c.Vendor.State) == "")
	check("pincode", c.Vendor.Pincode <= 0)
	check("rating", c.Vendor.Rating <= 0)
	check("companyName", strings.TrimSpace(c.CompanyName) == "")
	check("priceRate", c.PriceRate == nil)
	check("priceChart", len(c.PriceChart) == 0)
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrBadRequest, strings.Join(missing, ", "))
	}
	return nil
}

// Add records a tie-up with a known carrier, or a pending request when the
// company is not on the marketplace.
func (s *Service) Add(ctx context.Context, cmd AddCommand) (AddResult, error) {
	if err := cmd.Validate(); err != nil {
		return AddResult{}, err
	}
	rate := *cmd.PriceRate
	rate.Normalize()
	now := time.Now().UTC()

	c, err := s.carriers.FindByName(ctx, strings.TrimSpace(cmd.CompanyName))
	if errors.Is(err, carrier.ErrNotFound) {
		req := &PendingRequest{
			ID:          types.ID(uuid.NewString()),
			CustomerID:  cmd.CustomerID,
			CompanyName: strings.TrimSpace(cmd.CompanyName),
			Vendor:      cmd.Vendor,
			PriceRate:   rate,
			PriceChart:  cmd.PriceChart,
			Status:      StatusPending,
			CreatedAt:   now,
		}
		if err := s.store.CreatePending(ctx, req); err != nil {
			return AddResult{}, err
		}
		return AddResult{ID: req.ID, Pending: true}, nil
	}
	if err != nil {
		return AddResult{}, err
	}

	t := &TiedUp{
		ID:         types.ID(uuid.NewString()),
		CustomerID: cmd.CustomerID,
		CarrierID:  c.ID,
		Vendor:     cmd.Vendor,
		PriceRate:  rate,
		PriceChart: cmd.PriceChart,
		CreatedAt:  now,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return AddResult{}, err
	}
	return AddResult{ID: t.ID}, nil
}

func (s *Service) List(ctx context.Context, customerID types.ID) ([]TiedUp, error) {
	if customerID == "" {
		return nil, ErrBadRequest
	}
	return s.store.ListByCustomer(ctx, customerID)
}

func (s *Service) Remove(ctx context.Context, customerID, carrierID types.ID) error {
	if customerID == "" || carrierID == "" {
		return ErrBadRequest
	}
	return s.store.Delete(ctx, customerID, carrierID)
}
