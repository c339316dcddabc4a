package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetbook/internal/errors"
	"budgetbook/internal/pagination"
	"budgetbook/internal/services"
)

// ItemHandler handles item-related requests.
type ItemHandler struct {
	itemService  services.ItemServicer
	auditService services.AuditServicer
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService services.ItemServicer, auditService services.AuditServicer) *ItemHandler {
	return &ItemHandler{itemService: itemService, auditService: auditService}
}

// CreateItemRequest represents the request payload for adding an item.
type CreateItemRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	Amount   float64 `json:"amount" binding:"required,money"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	BudgetID string  `json:"budget_id" binding:"required,uuid"`
}

// UpdateItemRequest represents the request payload for editing an item.
// The owning budget is identified by the budgetId query parameter.
type UpdateItemRequest struct {
	ItemID   string  `json:"item_id" binding:"required,uuid"`
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	Amount   float64 `json:"amount" binding:"required,money"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
}

// CreateItem handles adding an item to one of the user's budgets.
// @Summary     Add an item
// @Description Add a line expense to an owned budget; rejected when the cumulative cost would exceed the budget's amount
// @Tags        items
// @Accept      json
// @Produce     json
// @Param       request body CreateItemRequest true "Item details"
// @Success     201 {object} models.Item "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthenticated"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     422 {object} ErrorResponse "Over budget"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /item [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.itemService.CreateItem(userID, req.BudgetID, req.Name, req.Amount, req.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ITEM", "item", item.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "amount": req.Amount, "quantity": req.Quantity})

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// GetItems handles listing the items of a single budget.
// @Summary     Get items for a budget
// @Description Get an owned budget's items, newest first, together with the budget
// @Tags        items
// @Produce     json
// @Param       budgetId query string true "Budget ID"
// @Success     200 {object} services.BudgetItems "Items and budget"
// @Failure     400 {object} ErrorResponse "Missing budgetId"
// @Failure     401 {object} ErrorResponse "Unauthenticated"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /item [get]
func (h *ItemHandler) GetItems(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID := c.Query("budgetId")
	if budgetID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing budgetId"))
		return
	}

	result, err := h.itemService.GetBudgetItems(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAllItems handles listing every item across the user's budgets.
// @Summary     Get all items
// @Description Get all of the user's items across budgets (paginated, budgets preloaded) plus the budgets themselves
// @Tags        items
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} services.ItemsOverview "Items and budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthenticated"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /item/all [get]
func (h *ItemHandler) GetAllItems(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.itemService.GetAllItems(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateItem handles editing an item within one of the user's budgets.
// @Summary     Edit an item
// @Description Update an owned item's name, amount, and quantity
// @Tags        items
// @Accept      json
// @Produce     json
// @Param       budgetId query string true "Budget ID"
// @Param       request body UpdateItemRequest true "Item fields"
// @Success     200 {object} models.Item "Updated item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthenticated"
// @Failure     404 {object} ErrorResponse "Budget or item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /item [patch]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budgetID := c.Query("budgetId")
	if budgetID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing budgetId"))
		return
	}

	item, err := h.itemService.UpdateItem(userID, budgetID, req.ItemID, req.Name, req.Amount, req.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ITEM", "item", item.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "amount": req.Amount, "quantity": req.Quantity})

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem handles deleting one of the user's items.
// @Summary     Delete an item
// @Description Delete an owned item
// @Tags        items
// @Produce     json
// @Param       itemId query string true "Item ID"
// @Success     200 {object} map[string]string "Item deleted"
// @Failure     400 {object} ErrorResponse "Missing itemId"
// @Failure     401 {object} ErrorResponse "Unauthenticated"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /item [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID := c.Query("itemId")
	if itemID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing itemId"))
		return
	}

	if err := h.itemService.DeleteItem(userID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ITEM", "item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
