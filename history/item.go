// Package history records evaluated expressions in a file encrypted at rest.
package history

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"
)

// Item is one evaluated expression.
type Item struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Result     float64   `json:"result"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewItem creates an Item with a fresh random ID. The timestamp is recorded in
// UTC.
func NewItem(expr string, result float64, now time.Time) (Item, error) {
	id, err := newID()
	if err != nil {
		return Item{}, err
	}
	return Item{ID: id, Expression: expr, Result: result, Timestamp: now.UTC()}, nil
}

func (it Item) String() string {
	return it.ID + "  " + it.Timestamp.Local().Format("2006-01-02 15:04:05") + "  " + it.Expression + " = " + strconv.FormatFloat(it.Result, 'g', -1, 64)
}

func newID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("history: generating id: %w", err)
	}
	return strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36), nil
}
