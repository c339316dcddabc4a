package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"budgetbook/internal/models"
	"budgetbook/internal/uuid"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password behind every fixture user's hash.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestSession creates an unexpired session for the user.
func CreateTestSession(t *testing.T, db *gorm.DB, userID string) *models.Session {
	t.Helper()
	return CreateTestSessionWithExpiry(t, db, userID, time.Now().Add(time.Hour))
}

// CreateTestSessionWithExpiry creates a session expiring at the given time.
func CreateTestSessionWithExpiry(t *testing.T, db *gorm.DB, userID string, expireAt time.Time) *models.Session {
	t.Helper()

	token, err := uuid.NewToken()
	if err != nil {
		t.Fatalf("failed to generate session token: %v", err)
	}

	session := &models.Session{
		Token:    token,
		UserID:   userID,
		ExpireAt: expireAt,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	return session
}

// CreateTestBudget creates a budget with a 100.00 ceiling.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string) *models.Budget {
	t.Helper()
	return CreateTestBudgetWithAmount(t, db, userID, 100)
}

// CreateTestBudgetWithAmount creates a budget with the given ceiling.
func CreateTestBudgetWithAmount(t *testing.T, db *gorm.DB, userID string, amount float64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Budget %d", nextID()),
		Description: "fixture budget",
		Amount:      amount,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestItem creates an item with the given unit amount and quantity.
func CreateTestItem(t *testing.T, db *gorm.DB, userID, budgetID string, amount float64, quantity int) *models.Item {
	t.Helper()

	item := &models.Item{
		UserID:   userID,
		BudgetID: budgetID,
		Name:     fmt.Sprintf("Test Item %d", nextID()),
		Amount:   amount,
		Quantity: quantity,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}
	return item
}
