// README: Static pincode → coordinate reference table for the distance fallback.
package distance

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"freightquote/internal/types"
)

//go:embed pincodes.json
var embeddedPincodes []byte

// PincodeTable is read-only after construction and safe for concurrent use.
type PincodeTable struct {
	coords map[types.Pincode]types.Point
}

func NewPincodeTable(coords map[types.Pincode]types.Point) *PincodeTable {
	return &PincodeTable{coords: coords}
}

// LoadPincodeTable returns the embedded table, with entries from path (if set)
// added on top. The file uses the same {"<pincode>": {"lat", "lng"}} layout.
func LoadPincodeTable(path string) (*PincodeTable, error) {
	coords, err := decodePincodes(embeddedPincodes)
	if err != nil {
		return nil, fmt.Errorf("embedded pincodes: %w", err)
	}
	if path == "" {
		return NewPincodeTable(coords), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	extra, err := decodePincodes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for pin, pt := range extra {
		coords[pin] = pt
	}
	return NewPincodeTable(coords), nil
}

func (t *PincodeTable) Lookup(pin types.Pincode) (types.Point, bool) {
	if t == nil {
		return types.Point{}, false
	}
	pt, ok := t.coords[pin]
	return pt, ok
}

func (t *PincodeTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.coords)
}

func decodePincodes(data []byte) (map[types.Pincode]types.Point, error) {
	var raw map[string]types.Point
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	coords := make(map[types.Pincode]types.Point, len(raw))
	for key, pt := range raw {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("pincode %q: %w", key, err)
		}
		coords[types.Pincode(n)] = pt
	}
	return coords, nil
}
