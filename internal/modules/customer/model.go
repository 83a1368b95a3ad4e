// README: Customer account as seen by the quotation engine.
package customer

import (
	"errors"

	"freightquote/internal/types"
)

var ErrNotFound = errors.New("customer not found")

type Account struct {
	ID           types.ID `json:"id"`
	IsSubscribed bool     `json:"isSubscribed"`
}
