package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"budgetbook/internal/config"
	"budgetbook/internal/handlers"
	"budgetbook/internal/logger"
	"budgetbook/internal/middleware"
	"budgetbook/internal/models"
	"budgetbook/internal/services"
	"budgetbook/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Session{},
		&models.Budget{},
		&models.Item{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	sessionService := services.NewSessionService(db, 168*time.Hour)
	budgetService := services.NewBudgetService(db)
	itemService := services.NewItemService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, sessionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	itemHandler := handlers.NewItemHandler(itemService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	auth := router.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	authProtected := auth.Group("")
	authProtected.Use(middleware.SessionAuth(sessionService))
	authProtected.GET("/me", authHandler.Me)
	authProtected.PATCH("/update-user", authHandler.UpdateUser)
	authProtected.PATCH("/update-password", authHandler.UpdatePassword)
	authProtected.DELETE("/deactivate", authHandler.Deactivate)

	budgets := router.Group("/budget")
	budgets.Use(middleware.SessionAuth(sessionService))
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.PATCH("", budgetHandler.UpdateBudget)
	budgets.DELETE("", budgetHandler.DeleteBudget)

	items := router.Group("/item")
	items.Use(middleware.SessionAuth(sessionService))
	items.POST("", itemHandler.CreateItem)
	items.GET("", itemHandler.GetItems)
	items.GET("/all", itemHandler.GetAllItems)
	items.PATCH("", itemHandler.UpdateItem)
	items.DELETE("", itemHandler.DeleteItem)

	pages := router.Group("")
	pages.Use(middleware.PageGate(sessionService))
	pages.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router, presenting the given
// session token as the session cookie when non-empty.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: config.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// sessionCookie returns the session cookie on the response, or nil.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == config.SessionCookieName {
			return cookie
		}
	}
	return nil
}

// assertErrorCode checks the structured error envelope on the response.
func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got: %s", rec.Body.String())
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// registerUser registers a new user and returns the user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"name":"Test User","password":%q}`, email, password)
	rec := app.request("POST", "/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	return user["id"].(string)
}

// loginUser logs in and returns the session token from the cookie.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("login did not set a session cookie")
	}
	return cookie.Value
}

// signupAndLogin registers a fresh user and logs them in.
func (app *testApp) signupAndLogin(t *testing.T, email string) (userID, token string) {
	t.Helper()
	userID = app.registerUser(t, email, "password123")
	token = app.loginUser(t, email, "password123")
	return userID, token
}

// createBudget creates a budget over the API and returns its ID.
func (app *testApp) createBudget(t *testing.T, token, name string, amount float64) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"description":"created in test","amount":%v}`, name, amount)
	rec := app.request("POST", "/budget", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	return budget["id"].(string)
}

// createItem adds an item over the API and returns its ID.
func (app *testApp) createItem(t *testing.T, token, budgetID, name string, amount float64, quantity int) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"amount":%v,"quantity":%d,"budget_id":%q}`, name, amount, quantity, budgetID)
	rec := app.request("POST", "/item", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create item failed: %d %s", rec.Code, rec.Body.String())
	}
	item := parseJSON(t, rec)["item"].(map[string]interface{})
	return item["id"].(string)
}
