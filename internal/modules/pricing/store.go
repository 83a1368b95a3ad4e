// README: Rate card store backed by PostgreSQL (price_rate and zone_rates as jsonb).
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freightquote/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetRateCards(ctx context.Context, carrierIDs []types.ID) ([]RateCard, error) {
	ids := make([]string, len(carrierIDs))
	for i, id := range carrierIDs {
		ids[i] = string(id)
	}
	rows, err := s.db.Query(ctx, `
        SELECT carrier_id, price_rate, zone_rates
        FROM rate_cards
        WHERE carrier_id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []RateCard
	for rows.Next() {
		var id string
		var rateRaw, zonesRaw []byte
		if err := rows.Scan(&id, &rateRaw, &zonesRaw); err != nil {
			return nil, err
		}
		card, err := decodeRateCard(types.ID(id), rateRaw, zonesRaw)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (s *Store) GetZoneMatrix(ctx context.Context, carrierID types.ID) (ZoneMatrix, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT zone_rates FROM rate_cards WHERE carrier_id = $1`, string(carrierID)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m := ZoneMatrix{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode zone_rates for %s: %w", carrierID, err)
	}
	return m, nil
}

func (s *Store) UpsertZoneMatrix(ctx context.Context, carrierID types.ID, m ZoneMatrix) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO rate_cards (carrier_id, zone_rates, updated_at)
        VALUES ($1, $2::jsonb, NOW())
        ON CONFLICT (carrier_id) DO UPDATE SET
            zone_rates = EXCLUDED.zone_rates,
            updated_at = NOW()`,
		string(carrierID), string(raw),
	)
	return err
}

func (s *Store) ClearZoneMatrix(ctx context.Context, carrierID types.ID) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE rate_cards SET zone_rates = '{}'::jsonb, updated_at = NOW()
        WHERE carrier_id = $1`, string(carrierID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeRateCard(id types.ID, rateRaw, zonesRaw []byte) (RateCard, error) {
	card := RateCard{CarrierID: id}
	if len(rateRaw) > 0 {
		if err := json.Unmarshal(rateRaw, &card.PriceRate); err != nil {
			return RateCard{}, fmt.Errorf("decode price_rate for %s: %w", id, err)
		}
	}
	card.PriceRate.Normalize()
	zones := ZoneMatrix{}
	if len(zonesRaw) > 0 {
		if err := json.Unmarshal(zonesRaw, &zones); err != nil {
			return RateCard{}, fmt.Errorf("decode zone_rates for %s: %w", id, err)
		}
	}
	card.Rates = zones
	return card, nil
}
