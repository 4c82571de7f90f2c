package domain

import (
	"errors"
	"time"
)

type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
)

func ToTableStatus(s string) (TableStatus, error) {
	switch t := TableStatus(s); t {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved:
		return t, nil
	}
	return "", errors.New("invalid table status")
}

// Table is administrative metadata about a physical table. Status and
// CurrentOrder are mutated as a side effect of the order lifecycle for
// dine-in orders, never directly by clients during normal order flow.
type Table struct {
	Number       string
	Capacity     int
	Status       TableStatus
	CurrentOrder string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TablePatch carries the optional fields of an admin table update.
type TablePatch struct {
	Capacity     *int
	Status       *TableStatus
	CurrentOrder *string
}
