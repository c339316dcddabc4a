package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "budgetbook/internal/errors"
	"budgetbook/internal/models"
	"budgetbook/internal/pagination"
)

// itemService handles item-related business logic, including the
// over-budget guard on creation.
type itemService struct {
	db *gorm.DB
}

// NewItemService creates a new ItemServicer.
func NewItemService(db *gorm.DB) ItemServicer {
	return &itemService{db: db}
}

// CreateItem adds an item to a budget owned by the user. The budget lookup,
// the sum of existing item costs, and the insert run in one transaction so
// two concurrent inserts cannot both slip under the ceiling at the store's
// default isolation level. An item whose cost would push the cumulative
// total past the budget's amount is rejected; landing exactly on the
// ceiling is accepted.
func (s *itemService) CreateItem(userID, budgetID, name string, amount float64, quantity int) (*models.Item, error) {
	item := &models.Item{
		UserID:   userID,
		BudgetID: budgetID,
		Name:     name,
		Amount:   amount,
		Quantity: quantity,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBudgetNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var spent float64
		err := tx.Model(&models.Item{}).
			Select("COALESCE(SUM(amount * quantity), 0)").
			Where("budget_id = ? AND user_id = ?", budgetID, userID).
			Scan(&spent).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if spent+item.Total() > budget.Amount {
			return apperrors.ErrOverBudget
		}

		if err := tx.Create(item).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// GetBudgetItems returns a budget's items, newest first, together with the
// budget itself.
func (s *itemService) GetBudgetItems(userID, budgetID string) (*BudgetItems, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.Item
	err := s.db.Where("budget_id = ? AND user_id = ?", budgetID, userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if items == nil {
		items = []models.Item{}
	}
	return &BudgetItems{Items: items, Budget: &budget}, nil
}

// GetAllItems returns every item the user owns across budgets (paginated,
// newest first, owning budget preloaded) plus the user's budgets.
func (s *itemService) GetAllItems(userID string, page pagination.PageRequest) (*ItemsOverview, error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Item{}).Where("user_id = ?", userID).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.Item
	err := s.db.Where("user_id = ?", userID).
		Preload("Budget").
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&items).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	err = s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if budgets == nil {
		budgets = []models.Budget{}
	}
	return &ItemsOverview{
		Items:   pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems),
		Budgets: budgets,
	}, nil
}

// UpdateItem edits an item after a two-step ownership check: the budget must
// belong to the user and the item must belong to that budget.
func (s *itemService) UpdateItem(userID, budgetID, itemID, name string, amount float64, quantity int) (*models.Item, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var item models.Item
	err := s.db.Where("id = ? AND budget_id = ? AND user_id = ?", itemID, budgetID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{
		"name":     name,
		"amount":   amount,
		"quantity": quantity,
	}
	if err := s.db.Model(&item).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &item, nil
}

// DeleteItem removes an item owned by the user.
func (s *itemService) DeleteItem(userID, itemID string) error {
	var item models.Item
	if err := s.db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrItemNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
