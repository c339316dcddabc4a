package models

// Item represents a line expense charged against a budget. UserID is
// denormalized from the owning budget so per-user queries do not need a join.
type Item struct {
	Base
	UserID   string  `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetID string  `gorm:"type:uuid;not null;index" json:"budget_id"`
	Name     string  `gorm:"not null" json:"name"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Quantity int     `gorm:"not null" json:"quantity"`

	Budget *Budget `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
}

// Total returns the item's cost, unit amount times quantity.
func (i *Item) Total() float64 {
	return i.Amount * float64(i.Quantity)
}
