package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Wahiduz89/spendsmart/internal/alerts"
	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/models"
	"github.com/Wahiduz89/spendsmart/internal/pagination"
	"github.com/Wahiduz89/spendsmart/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn      func(userID uint, categoryID *uint, name string, amount decimal.Decimal, period models.BudgetPeriod, startDate, endDate time.Time) (*models.Budget, error)
	getUserBudgetsFn    func(userID uint, page pagination.PageRequest, isActive *bool, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error)
	getBudgetByIDFn     func(userID, budgetID uint) (*models.Budget, error)
	updateBudgetFn      func(userID, budgetID uint, name string, amount *decimal.Decimal, period *models.BudgetPeriod, endDate *time.Time, isActive *bool) (*models.Budget, error)
	deleteBudgetFn      func(userID, budgetID uint) error
	getBudgetProgressFn func(userID, budgetID uint) (*services.BudgetProgress, error)
}

func (m *mockBudgetService) CreateBudget(userID uint, categoryID *uint, name string, amount decimal.Decimal, period models.BudgetPeriod, startDate, endDate time.Time) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, categoryID, name, amount, period, startDate, endDate)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(userID uint, page pagination.PageRequest, isActive *bool, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(userID, page, isActive, period)
	}
	resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(userID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(userID, budgetID uint, name string, amount *decimal.Decimal, period *models.BudgetPeriod, endDate *time.Time, isActive *bool) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, budgetID, name, amount, period, endDate, isActive)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(userID, budgetID uint) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(userID, budgetID)
	}
	return nil
}

func (m *mockBudgetService) GetBudgetProgress(userID, budgetID uint) (*services.BudgetProgress, error) {
	if m.getBudgetProgressFn != nil {
		return m.getBudgetProgressFn(userID, budgetID)
	}
	return &services.BudgetProgress{}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

type mockMonitorService struct {
	runBudgetCheckFn func(ctx context.Context) (*alerts.RunResult, error)
}

func (m *mockMonitorService) RunBudgetCheck(ctx context.Context) (*alerts.RunResult, error) {
	if m.runBudgetCheckFn != nil {
		return m.runBudgetCheckFn(ctx)
	}
	return &alerts.RunResult{Emitted: []*models.Notification{}}, nil
}

var _ services.MonitorServicer = (*mockMonitorService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/budgets", handler.CreateBudget)
	auth.GET("/budgets", handler.GetBudgets)
	auth.POST("/budgets/check", handler.RunBudgetCheck)
	auth.GET("/budgets/:id", handler.GetBudget)
	auth.PUT("/budgets/:id", handler.UpdateBudget)
	auth.DELETE("/budgets/:id", handler.DeleteBudget)
	auth.GET("/budgets/:id/progress", handler.GetBudgetProgress)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(_ uint, categoryID *uint, name string, amount decimal.Decimal, period models.BudgetPeriod, _, _ time.Time) (*models.Budget, error) {
				return &models.Budget{
					Base:       models.Base{ID: 1},
					UserID:     1,
					CategoryID: categoryID,
					Name:       name,
					Amount:     amount,
					Period:     period,
					IsActive:   true,
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":1,"name":"Groceries","amount":"5000","period":"monthly","start_date":"2025-01-01T00:00:00Z","end_date":"2025-01-31T23:59:59Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["name"] != "Groceries" {
			t.Errorf("expected Groceries, got %v", budget["name"])
		}
		if budget["amount"] != "5000" {
			t.Errorf("expected amount 5000, got %v", budget["amount"])
		}
	})

	t.Run("omitted category creates overall budget", func(t *testing.T) {
		var capturedCategoryID *uint
		seen := false
		svc := &mockBudgetService{
			createBudgetFn: func(_ uint, categoryID *uint, _ string, _ decimal.Decimal, _ models.BudgetPeriod, _, _ time.Time) (*models.Budget, error) {
				capturedCategoryID = categoryID
				seen = true
				return &models.Budget{Base: models.Base{ID: 1}}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Everything","amount":"20000","period":"monthly","start_date":"2025-01-01T00:00:00Z","end_date":"2025-01-31T23:59:59Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !seen {
			t.Fatal("service was not called")
		}
		if capturedCategoryID != nil {
			t.Errorf("expected nil category ID, got %d", *capturedCategoryID)
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"amount":"5000","period":"monthly","start_date":"2025-01-01T00:00:00Z","end_date":"2025-01-31T23:59:59Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid period", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Groceries","amount":"5000","period":"daily","start_date":"2025-01-01T00:00:00Z","end_date":"2025-01-31T23:59:59Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing end date", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Groceries","amount":"5000","period":"monthly","start_date":"2025-01-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid window", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(_ uint, _ *uint, _ string, _ decimal.Decimal, _ models.BudgetPeriod, _, _ time.Time) (*models.Budget, error) {
				return nil, apperrors.ErrInvalidBudget
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Backwards","amount":"5000","period":"monthly","start_date":"2025-02-01T00:00:00Z","end_date":"2025-01-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_BUDGET")
	})

	t.Run("returns 404 on invalid category", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(_ uint, _ *uint, _ string, _ decimal.Decimal, _ models.BudgetPeriod, _, _ time.Time) (*models.Budget, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":999,"name":"Groceries","amount":"5000","period":"monthly","start_date":"2025-01-01T00:00:00Z","end_date":"2025-01-31T23:59:59Z"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonitorService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/budgets", handler.CreateBudget)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Groceries","amount":"5000","period":"monthly","start_date":"2025-01-01T00:00:00Z","end_date":"2025-01-31T23:59:59Z"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetBudgets(t *testing.T) {
	t.Run("returns 200 with paginated budgets", func(t *testing.T) {
		svc := &mockBudgetService{
			getUserBudgetsFn: func(_ uint, _ pagination.PageRequest, _ *bool, _ *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error) {
				resp := pagination.NewPageResponse([]models.Budget{
					{Base: models.Base{ID: 1}, Name: "Groceries"},
					{Base: models.Base{ID: 2}, Name: "Entertainment"},
				}, 1, 20, 2)
				return &resp, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 budgets, got %d", len(data))
		}
		if result["total_items"].(float64) != 2 {
			t.Errorf("expected total_items=2, got %v", result["total_items"])
		}
	})

	t.Run("passes filter params to service", func(t *testing.T) {
		var capturedIsActive *bool
		var capturedPeriod *models.BudgetPeriod
		svc := &mockBudgetService{
			getUserBudgetsFn: func(_ uint, _ pagination.PageRequest, isActive *bool, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error) {
				capturedIsActive = isActive
				capturedPeriod = period
				resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		doRequest(r, "GET", "/budgets?is_active=true&period=monthly", "")

		if capturedIsActive == nil || !*capturedIsActive {
			t.Error("expected is_active=true to be passed")
		}
		if capturedPeriod == nil || *capturedPeriod != models.BudgetPeriodMonthly {
			t.Error("expected period=monthly to be passed")
		}
	})

	t.Run("returns 400 on invalid is_active", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets?is_active=maybe", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid period", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets?period=daily", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestBudgetHandler_GetBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByIDFn: func(_, budgetID uint) (*models.Budget, error) {
				return &models.Budget{
					Base:   models.Base{ID: budgetID},
					Name:   "Groceries",
					Amount: decimal.NewFromInt(5000),
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["name"] != "Groceries" {
			t.Errorf("expected Groceries, got %v", budget["name"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByIDFn: func(_, _ uint) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})

	t.Run("returns 400 on invalid ID", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_UpdateBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			updateBudgetFn: func(_, budgetID uint, name string, amount *decimal.Decimal, _ *models.BudgetPeriod, _ *time.Time, _ *bool) (*models.Budget, error) {
				b := &models.Budget{
					Base: models.Base{ID: budgetID},
					Name: name,
				}
				if amount != nil {
					b.Amount = *amount
				}
				return b, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budgets/1", `{"name":"Updated Budget","amount":"7500"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["name"] != "Updated Budget" {
			t.Errorf("expected Updated Budget, got %v", budget["name"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetService{
			updateBudgetFn: func(_, _ uint, _ string, _ *decimal.Decimal, _ *models.BudgetPeriod, _ *time.Time, _ *bool) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budgets/999", `{"name":"Updated"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})
}

func TestBudgetHandler_DeleteBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "DELETE", "/budgets/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["message"] != "Budget deleted successfully" {
			t.Errorf("unexpected message: %v", result["message"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetService{
			deleteBudgetFn: func(_, _ uint) error {
				return apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "DELETE", "/budgets/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})
}

func TestBudgetHandler_GetBudgetProgress(t *testing.T) {
	t.Run("returns 200 with progress", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetProgressFn: func(_, budgetID uint) (*services.BudgetProgress, error) {
				return &services.BudgetProgress{
					BudgetID: budgetID,
					Budgeted: decimal.NewFromInt(1000),
					Evaluation: alerts.Evaluation{
						Spent:      decimal.NewFromInt(850),
						Remaining:  decimal.NewFromInt(150),
						Percentage: decimal.NewFromInt(85),
						Tier:       alerts.TierWarning,
					},
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/1/progress", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		progress := result["progress"].(map[string]interface{})
		if progress["budgeted"] != "1000" {
			t.Errorf("expected budgeted=1000, got %v", progress["budgeted"])
		}
		if progress["spent"] != "850" {
			t.Errorf("expected spent=850, got %v", progress["spent"])
		}
		if progress["tier"] != "WARNING" {
			t.Errorf("expected tier=WARNING, got %v", progress["tier"])
		}
	})

	t.Run("returns 404 when budget not found", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetProgressFn: func(_, _ uint) (*services.BudgetProgress, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(svc, &mockMonitorService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/999/progress", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})
}

func TestBudgetHandler_RunBudgetCheck(t *testing.T) {
	t.Run("returns 200 with pass result", func(t *testing.T) {
		relatedID := uint(7)
		svc := &mockMonitorService{
			runBudgetCheckFn: func(_ context.Context) (*alerts.RunResult, error) {
				return &alerts.RunResult{
					Checked: 3,
					Emitted: []*models.Notification{
						{Base: models.Base{ID: 1}, Kind: models.NotificationBudgetExceeded, RelatedID: &relatedID},
					},
				}, nil
			},
		}
		handler := NewBudgetHandler(&mockBudgetService{}, svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets/check", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["checked"].(float64) != 3 {
			t.Errorf("expected checked=3, got %v", result["checked"])
		}
		emitted := result["emitted"].([]interface{})
		if len(emitted) != 1 {
			t.Errorf("expected 1 emitted alert, got %d", len(emitted))
		}
		if result["failures"].(float64) != 0 {
			t.Errorf("expected failures=0, got %v", result["failures"])
		}
	})

	t.Run("returns 500 when the pass fails", func(t *testing.T) {
		svc := &mockMonitorService{
			runBudgetCheckFn: func(_ context.Context) (*alerts.RunResult, error) {
				return nil, apperrors.ErrInternalServer
			},
		}
		handler := NewBudgetHandler(&mockBudgetService{}, svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets/check", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
