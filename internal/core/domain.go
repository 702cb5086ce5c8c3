package core

import "time"

type (
	// Transaction is one product sale record loaded from the seed dataset.
	Transaction struct {
		Title       string    `json:"title" bson:"title"`
		Description string    `json:"description" bson:"description"`
		Price       float64   `json:"price" bson:"price"`
		DateOfSale  time.Time `json:"dateOfSale" bson:"dateOfSale"`
		Sold        bool      `json:"sold" bson:"sold"`
		Category    string    `json:"category" bson:"category"`
	}

	// DateRange is an inclusive [From, To] interval on dateOfSale.
	DateRange struct {
		From time.Time
		To   time.Time
	}
)

// Contains reports whether t falls within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}
