// README: Tie-up store backed by PostgreSQL (rate cards as jsonb).
package tieup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"freightquote/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) ListByCustomer(ctx context.Context, customerID types.ID) ([]TiedUp, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, customer_id, carrier_id,
               vendor_code, vendor_phone, vendor_email, gst_no, mode, address, state, pincode, rating,
               price_rate, price_chart, created_at
        FROM tied_up_relationships
        WHERE customer_id = $1
        ORDER BY created_at, id`, string(customerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TiedUp
	for rows.Next() {
		var t TiedUp
		var id, cust, carrierID string
		var pin int32
		var rateRaw, chartRaw []byte
		if err := rows.Scan(
			&id, &cust, &carrierID,
			&t.Vendor.VendorCode, &t.Vendor.VendorPhone, &t.Vendor.VendorEmail, &t.Vendor.GstNo,
			&t.Vendor.Mode, &t.Vendor.Address, &t.Vendor.State, &pin, &t.Vendor.Rating,
			&rateRaw, &chartRaw, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		t.ID, t.CustomerID, t.CarrierID = types.ID(id), types.ID(cust), types.ID(carrierID)
		t.Vendor.Pincode = types.Pincode(pin)
		if err := json.Unmarshal(rateRaw, &t.PriceRate); err != nil {
			return nil, fmt.Errorf("decode price_rate for tie-up %s: %w", id, err)
		}
		if err := json.Unmarshal(chartRaw, &t.PriceChart); err != nil {
			return nil, fmt.Errorf("decode price_chart for tie-up %s: %w", id, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, t *TiedUp) error {
	rate, chart, err := encodeRates(t.PriceRate, t.PriceChart)
	if err != nil {
		return err
	}
	v := t.Vendor
	_, err = s.db.Exec(ctx, `
        INSERT INTO tied_up_relationships (
            id, customer_id, carrier_id,
            vendor_code, vendor_phone, vendor_email, gst_no, mode, address, state, pincode, rating,
            price_rate, price_chart, created_at
        ) VALUES (
            $1, $2, $3,
            $4, $5, $6, $7, $8, $9, $10, $11, $12,
            $13::jsonb, $14::jsonb, $15
        )`,
		string(t.ID), string(t.CustomerID), string(t.CarrierID),
		v.VendorCode, v.VendorPhone, v.VendorEmail, v.GstNo, v.Mode, v.Address, v.State, int32(v.Pincode), v.Rating,
		rate, chart, t.CreatedAt,
	)
	return mapWriteError(err)
}

func (s *Store) CreatePending(ctx context.Context, r *PendingRequest) error {
	rate, chart, err := encodeRates(r.PriceRate, r.PriceChart)
	if err != nil {
		return err
	}
	v := r.Vendor
	_, err = s.db.Exec(ctx, `
        INSERT INTO tied_up_requests (
            id, customer_id, company_name,
            vendor_code, vendor_phone, vendor_email, gst_no, mode, address, state, pincode, rating,
            price_rate, price_chart, status, created_at
        ) VALUES (
            $1, $2, $3,
            $4, $5, $6, $7, $8, $9, $10, $11, $12,
            $13::jsonb, $14::jsonb, $15, $16
        )`,
		string(r.ID), string(r.CustomerID), r.CompanyName,
		v.VendorCode, v.VendorPhone, v.VendorEmail, v.GstNo, v.Mode, v.Address, v.State, int32(v.Pincode), v.Rating,
		rate, chart, r.Status, r.CreatedAt,
	)
	return err
}

func (s *Store) Delete(ctx context.Context, customerID, carrierID types.ID) error {
	tag, err := s.db.Exec(ctx, `
        DELETE FROM tied_up_relationships WHERE customer_id = $1 AND carrier_id = $2`,
		string(customerID), string(carrierID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeRates(rate any, chart any) (string, string, error) {
	r, err := json.Marshal(rate)
	if err != nil {
		return "", "", err
	}
	c, err := json.Marshal(chart)
	if err != nil {
		return "", "", err
	}
	return string(r), string(c), nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrConflict
		case "23503":
			return ErrUnknownCustomer
		}
	}
	return err
}
