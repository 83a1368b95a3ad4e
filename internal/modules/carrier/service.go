// README: Carrier service exposes the read paths used for quoting and the carrier directory.
package carrier

import (
	"context"
	"strings"

	"freightquote/internal/types"
)

type Reader interface {
	FindServiceable(ctx context.Context, origin, destination types.Pincode) ([]Carrier, error)
	GetByID(ctx context.Context, id types.ID, pincodes ...types.Pincode) (*Carrier, error)
	FindByName(ctx context.Context, name string) (*Carrier, error)
	SearchNames(ctx context.Context, prefix string, limit int) ([]string, error)
	List(ctx context.Context) ([]Summary, error)
	Summary(ctx context.Context, id types.ID) (*Summary, error)
}

// searchLimit caps name suggestions.
const searchLimit = 10

type Service struct {
	store Reader
}

func NewService(store Reader) *Service {
	return &Service{store: store}
}

func (s *Service) FindServiceable(ctx context.Context, origin, destination types.Pincode) ([]Carrier, error) {
	if origin <= 0 || destination <= 0 {
		return nil, ErrBadRequest
	}
	return s.store.FindServiceable(ctx, origin, destination)
}

func (s *Service) Get(ctx context.Context, id types.ID, pincodes ...types.Pincode) (*Carrier, error) {
	if id == "" {
		return nil, ErrBadRequest
	}
	return s.store.GetByID(ctx, id, pincodes...)
}

func (s *Service) FindByName(ctx context.Context, name string) (*Carrier, error) {
	if name == "" {
		return nil, ErrBadRequest
	}
	return s.store.FindByName(ctx, name)
}

// Search suggests carrier names starting with prefix.
func (s *Service) Search(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, ErrBadRequest
	}
	return s.store.SearchNames(ctx, prefix, searchLimit)
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.store.List(ctx)
}

func (s *Service) Details(ctx context.Context, id types.ID) (*Summary, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, ErrBadRequest
	}
	return s.store.Summary(ctx, id)
}
