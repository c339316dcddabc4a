package services

import (
	"budgetbook/internal/models"
	"budgetbook/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, name, password string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	UpdateProfile(userID, name, email string) (*models.User, error)
	UpdatePassword(userID, oldPassword, newPassword string) error
	Deactivate(userID string) error
}

// SessionServicer defines the contract for server-side session management.
type SessionServicer interface {
	Create(userID string) (*models.Session, error)
	Authenticate(token string) (*models.User, error)
	Delete(token string) error
	DeleteExpired() (int64, error)
	IsFresh(token string) bool
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, name, description string, amount float64) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID, name, description string, amount float64) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
}

// BudgetItems bundles a budget's items with the budget itself, the shape
// the item listing endpoint responds with.
type BudgetItems struct {
	Items  []models.Item  `json:"items"`
	Budget *models.Budget `json:"budget"`
}

// ItemsOverview holds every item a user owns (paginated, budgets preloaded)
// alongside the user's budgets, for the cross-budget dashboard view.
type ItemsOverview struct {
	Items   pagination.PageResponse[models.Item] `json:"items"`
	Budgets []models.Budget                      `json:"budgets"`
}

// ItemServicer defines the contract for item-related business logic,
// including the over-budget guard on creation.
type ItemServicer interface {
	CreateItem(userID, budgetID, name string, amount float64, quantity int) (*models.Item, error)
	GetBudgetItems(userID, budgetID string) (*BudgetItems, error)
	GetAllItems(userID string, page pagination.PageRequest) (*ItemsOverview, error)
	UpdateItem(userID, budgetID, itemID, name string, amount float64, quantity int) (*models.Item, error)
	DeleteItem(userID, itemID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
