package models

// Budget represents a named spending ceiling owned by a user. Amount is the
// allocated ceiling; items charged against the budget may never push the sum
// of their costs past it at insert time.
type Budget struct {
	Base
	UserID      string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Amount      float64 `gorm:"not null" json:"amount"`

	Items []Item `gorm:"foreignKey:BudgetID" json:"items,omitempty"`
}
