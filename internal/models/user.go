package models

// User represents the user model in the database
type User struct {
	Base
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name"`
	Sessions []Session `gorm:"foreignKey:UserID" json:"-"`
	Budgets  []Budget  `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
	Items    []Item    `gorm:"foreignKey:UserID" json:"items,omitempty"`
}
