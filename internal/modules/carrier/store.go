// README: Carrier store backed by PostgreSQL (carriers + carrier_service).
package carrier

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freightquote/internal/modules/pricing"
	"freightquote/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// FindServiceable returns carriers whose service table contains both pincodes,
// with the service table trimmed to those two entries.
func (s *Store) FindServiceable(ctx context.Context, origin, destination types.Pincode) ([]Carrier, error) {
	rows, err := s.db.Query(ctx, `
        SELECT c.id, c.name, cs.pincode, cs.zone, cs.is_oda
        FROM carriers c
        JOIN carrier_service cs ON cs.carrier_id = c.id AND cs.pincode IN ($1, $2)
        WHERE EXISTS (SELECT 1 FROM carrier_service o WHERE o.carrier_id = c.id AND o.pincode = $1)
          AND EXISTS (SELECT 1 FROM carrier_service d WHERE d.carrier_id = c.id AND d.pincode = $2)
        ORDER BY c.id`,
		int32(origin), int32(destination),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Carrier
	index := make(map[types.ID]int)
	for rows.Next() {
		var id, name string
		var e pricing.Endpoint
		var pin int32
		if err := rows.Scan(&id, &name, &pin, &e.Zone, &e.IsOda); err != nil {
			return nil, err
		}
		e.Pincode = types.Pincode(pin)
		i, ok := index[types.ID(id)]
		if !ok {
			i = len(out)
			index[types.ID(id)] = i
			out = append(out, Carrier{ID: types.ID(id), Name: name, Service: make(map[types.Pincode]pricing.Endpoint, 2)})
		}
		out[i].Service[e.Pincode] = e
	}
	return out, rows.Err()
}

// GetByID loads a carrier. When pincodes are given only those service entries are read.
func (s *Store) GetByID(ctx context.Context, id types.ID, pincodes ...types.Pincode) (*Carrier, error) {
	c := Carrier{Service: make(map[types.Pincode]pricing.Endpoint)}
	var cid string
	err := s.db.QueryRow(ctx, `SELECT id, name FROM carriers WHERE id = $1`, string(id)).Scan(&cid, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.ID = types.ID(cid)

	var rows pgx.Rows
	if len(pincodes) > 0 {
		pins := make([]int32, len(pincodes))
		for i, p := range pincodes {
			pins[i] = int32(p)
		}
		rows, err = s.db.Query(ctx, `
            SELECT pincode, zone, is_oda FROM carrier_service
            WHERE carrier_id = $1 AND pincode = ANY($2)`, cid, pins)
	} else {
		rows, err = s.db.Query(ctx, `
            SELECT pincode, zone, is_oda FROM carrier_service
            WHERE carrier_id = $1`, cid)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e pricing.Endpoint
		var pin int32
		if err := rows.Scan(&pin, &e.Zone, &e.IsOda); err != nil {
			return nil, err
		}
		e.Pincode = types.Pincode(pin)
		c.Service[e.Pincode] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByName matches a carrier by name, case-insensitively.
func (s *Store) FindByName(ctx context.Context, name string) (*Carrier, error) {
	var c Carrier
	var id string
	err := s.db.QueryRow(ctx, `SELECT id, name FROM carriers WHERE LOWER(name) = LOWER($1)`, name).Scan(&id, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.ID = types.ID(id)
	return &c, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchNames returns up to limit carrier names starting with prefix,
// case-insensitively.
func (s *Store) SearchNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := s.db.Query(ctx, `
        SELECT name FROM carriers
        WHERE name ILIKE $1::text || '%'
        ORDER BY name
        LIMIT $2`,
		likeEscaper.Replace(prefix), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

const summarySelect = `
        SELECT c.id, c.name, c.created_at, COUNT(cs.pincode)
        FROM carriers c
        LEFT JOIN carrier_service cs ON cs.carrier_id = c.id`

// List returns every carrier ordered by name.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.Query(ctx, summarySelect+`
        GROUP BY c.id
        ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Summary returns one carrier's directory entry.
func (s *Store) Summary(ctx context.Context, id types.ID) (*Summary, error) {
	sum, err := scanSummary(s.db.QueryRow(ctx, summarySelect+`
        WHERE c.id = $1
        GROUP BY c.id`, string(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func scanSummary(row pgx.Row) (Summary, error) {
	var sum Summary
	var id string
	var pins int64
	if err := row.Scan(&id, &sum.Name, &sum.CreatedAt, &pins); err != nil {
		return Summary{}, err
	}
	sum.ID = types.ID(id)
	sum.ServicePincodes = int(pins)
	return sum, nil
}
