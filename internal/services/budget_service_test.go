package services

import (
	"testing"

	"budgetbook/internal/models"
	"budgetbook/internal/pagination"
	"budgetbook/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(user.ID, "Groceries", "Food", 100)
		testutil.AssertNoError(t, err)

		if budget.ID == "" {
			t.Fatal("expected generated budget ID")
		}
		if budget.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", budget.Name)
		}
		if budget.Amount != 100 {
			t.Errorf("expected amount 100, got %v", budget.Amount)
		}
		if budget.UserID != user.ID {
			t.Errorf("expected owner %s, got %s", user.ID, budget.UserID)
		}
	})
}

func TestGetUserBudgets(t *testing.T) {
	t.Run("returns_user_budgets_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestBudget(t, db, user1.ID)
		testutil.CreateTestBudget(t, db, user1.ID)
		testutil.CreateTestBudget(t, db, user2.ID)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserBudgets(user1.ID, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 budgets, got %d", result.TotalItems)
		}
	})

	t.Run("empty_list_is_not_an_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		result, err := svc.GetUserBudgets(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 0 {
			t.Errorf("expected 0 budgets, got %d", result.TotalItems)
		}
		if result.Data == nil {
			t.Error("expected empty slice, not nil")
		}
	})
}

func TestGetBudgetByID(t *testing.T) {
	t.Run("owned_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		got, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if got.ID != budget.ID {
			t.Errorf("expected budget %s, got %s", budget.ID, got.ID)
		}
	})

	t.Run("someone_elses_budget_looks_absent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID)

		_, err := svc.GetBudgetByID(intruder.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("missing_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetBudgetByID(user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		updated, err := svc.UpdateBudget(user.ID, budget.ID, "Renamed", "New description", 250)
		testutil.AssertNoError(t, err)

		if updated.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %s", updated.Name)
		}
		if updated.Amount != 250 {
			t.Errorf("expected amount 250, got %v", updated.Amount)
		}
	})

	t.Run("lowering_amount_keeps_existing_items", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudgetWithAmount(t, db, user.ID, 100)
		testutil.CreateTestItem(t, db, user.ID, budget.ID, 40, 2)

		_, err := svc.UpdateBudget(user.ID, budget.ID, budget.Name, budget.Description, 50)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Item{}).Where("budget_id = ?", budget.ID).Count(&count)
		if count != 1 {
			t.Error("expected existing items to survive a lowered ceiling")
		}
	})

	t.Run("not_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID)

		_, err := svc.UpdateBudget(intruder.ID, budget.ID, "Hijacked", "", 1)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("removes_budget_and_items", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		testutil.CreateTestItem(t, db, user.ID, budget.ID, 5, 1)
		testutil.CreateTestItem(t, db, user.ID, budget.ID, 5, 2)

		err := svc.DeleteBudget(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		var budgetCount, itemCount int64
		db.Model(&models.Budget{}).Where("id = ?", budget.ID).Count(&budgetCount)
		db.Model(&models.Item{}).Where("budget_id = ?", budget.ID).Count(&itemCount)
		if budgetCount != 0 || itemCount != 0 {
			t.Errorf("expected budget and items gone, got %d budgets, %d items", budgetCount, itemCount)
		}
	})

	t.Run("not_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID)

		err := svc.DeleteBudget(intruder.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}
