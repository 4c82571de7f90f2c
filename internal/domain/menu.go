package domain

import "time"

// MenuItem is the catalog record orders snapshot name/price from at creation.
type MenuItem struct {
	ID          string
	Name        string
	Category    string
	Price       float64
	Description string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MenuItemPatch struct {
	Name        *string
	Category    *string
	Price       *float64
	Description *string
	Available   *bool
}
