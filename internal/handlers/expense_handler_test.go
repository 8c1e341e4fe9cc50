package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/models"
	"github.com/Wahiduz89/spendsmart/internal/pagination"
	"github.com/Wahiduz89/spendsmart/internal/services"
)

// --- mock expense service ---

type mockExpenseService struct {
	createExpenseFn   func(userID uint, categoryID *uint, amount decimal.Decimal, date time.Time, description, merchant string, paymentMethod *models.PaymentMethod, receiptID *uint) (*models.Expense, error)
	getUserExpensesFn func(userID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	getExpenseByIDFn  func(userID, expenseID uint) (*models.Expense, error)
	updateExpenseFn   func(userID, expenseID uint, categoryID *uint, amount *decimal.Decimal, date *time.Time, description, merchant string, paymentMethod *models.PaymentMethod) (*models.Expense, error)
	deleteExpenseFn   func(userID, expenseID uint) error
	spentBetweenFn    func(userID uint, categoryID *uint, start, end time.Time) (decimal.Decimal, error)
}

func (m *mockExpenseService) CreateExpense(userID uint, categoryID *uint, amount decimal.Decimal, date time.Time, description, merchant string, paymentMethod *models.PaymentMethod, receiptID *uint) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(userID, categoryID, amount, date, description, merchant, paymentMethod, receiptID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetUserExpenses(userID uint, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if m.getUserExpensesFn != nil {
		return m.getUserExpensesFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(userID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpense(userID, expenseID uint, categoryID *uint, amount *decimal.Decimal, date *time.Time, description, merchant string, paymentMethod *models.PaymentMethod) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(userID, expenseID, categoryID, amount, date, description, merchant, paymentMethod)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(userID, expenseID uint) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(userID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) SpentBetween(userID uint, categoryID *uint, start, end time.Time) (decimal.Decimal, error) {
	if m.spentBetweenFn != nil {
		return m.spentBetweenFn(userID, categoryID, start, end)
	}
	return decimal.Zero, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/expenses", handler.CreateExpense)
	auth.GET("/expenses", handler.GetExpenses)
	auth.GET("/expenses/:id", handler.GetExpense)
	auth.PUT("/expenses/:id", handler.UpdateExpense)
	auth.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(userID uint, categoryID *uint, amount decimal.Decimal, date time.Time, description, merchant string, paymentMethod *models.PaymentMethod, _ *uint) (*models.Expense, error) {
				return &models.Expense{
					Base:          models.Base{ID: 1},
					UserID:        userID,
					CategoryID:    categoryID,
					Amount:        amount,
					Date:          date,
					Description:   description,
					Merchant:      merchant,
					PaymentMethod: paymentMethod,
				}, nil
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"category_id":2,"amount":"249.50","date":"2024-06-10T12:00:00Z","merchant":"Swiggy","payment_method":"UPI"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		expense := result["expense"].(map[string]interface{})
		if expense["amount"] != "249.5" {
			t.Errorf("expected amount 249.5, got %v", expense["amount"])
		}
		if expense["merchant"] != "Swiggy" {
			t.Errorf("expected merchant Swiggy, got %v", expense["merchant"])
		}
	})

	t.Run("allows uncategorized expense", func(t *testing.T) {
		var capturedCategory *uint
		svc := &mockExpenseService{
			createExpenseFn: func(_ uint, categoryID *uint, amount decimal.Decimal, _ time.Time, _, _ string, _ *models.PaymentMethod, _ *uint) (*models.Expense, error) {
				capturedCategory = categoryID
				return &models.Expense{Amount: amount}, nil
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses", `{"amount":"50","date":"2024-06-10T12:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedCategory != nil {
			t.Errorf("expected nil category, got %v", *capturedCategory)
		}
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses", `{"date":"2024-06-10T12:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid payment method", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"amount":"50","date":"2024-06-10T12:00:00Z","payment_method":"barter"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when category belongs to another user", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(_ uint, _ *uint, _ decimal.Decimal, _ time.Time, _, _ string, _ *models.PaymentMethod, _ *uint) (*models.Expense, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"category_id":99,"amount":"50","date":"2024-06-10T12:00:00Z"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/expenses", handler.CreateExpense)

		rec := doRequest(r, "POST", "/expenses", `{"amount":"50","date":"2024-06-10T12:00:00Z"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetExpenses(t *testing.T) {
	t.Run("returns 200 with paginated expenses", func(t *testing.T) {
		svc := &mockExpenseService{
			getUserExpensesFn: func(_ uint, page pagination.PageRequest, _ services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
				resp := pagination.NewPageResponse([]models.Expense{
					{Base: models.Base{ID: 1}, Amount: decimal.NewFromInt(100)},
					{Base: models.Base{ID: 2}, Amount: decimal.NewFromInt(200)},
				}, page.Page, page.PageSize, 2)
				return &resp, nil
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses?page=1&page_size=20", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 expenses, got %d", len(data))
		}
		if result["total_items"].(float64) != 2 {
			t.Errorf("expected total_items=2, got %v", result["total_items"])
		}
	})

	t.Run("passes filters to the service", func(t *testing.T) {
		var captured services.ExpenseFilter
		svc := &mockExpenseService{
			getUserExpensesFn: func(_ uint, _ pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
				captured = filter
				resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		doRequest(r, "GET", "/expenses?category_id=3&min_amount=10&max_amount=500&from=2024-06-01T00:00:00Z", "")

		if captured.CategoryID == nil || *captured.CategoryID != 3 {
			t.Error("expected category_id=3 to be passed")
		}
		if captured.MinAmount == nil || !captured.MinAmount.Equal(decimal.NewFromInt(10)) {
			t.Error("expected min_amount=10 to be passed")
		}
		if captured.MaxAmount == nil || !captured.MaxAmount.Equal(decimal.NewFromInt(500)) {
			t.Error("expected max_amount=500 to be passed")
		}
		if captured.FromDate == nil {
			t.Error("expected from date to be passed")
		}
	})

	t.Run("returns 400 on malformed from date", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses?from=yesterday", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on malformed min_amount", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses?min_amount=lots", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetExpense(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(_, expenseID uint) (*models.Expense, error) {
				return &models.Expense{Base: models.Base{ID: expenseID}, Merchant: "Zomato"}, nil
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/7", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		expense := result["expense"].(map[string]interface{})
		if expense["merchant"] != "Zomato" {
			t.Errorf("expected merchant Zomato, got %v", expense["merchant"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(_, _ uint) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EXPENSE_NOT_FOUND")
	})

	t.Run("returns 400 on invalid ID", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_UpdateExpense(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var capturedAmount *decimal.Decimal
		svc := &mockExpenseService{
			updateExpenseFn: func(_, expenseID uint, _ *uint, amount *decimal.Decimal, _ *time.Time, _, merchant string, _ *models.PaymentMethod) (*models.Expense, error) {
				capturedAmount = amount
				return &models.Expense{Base: models.Base{ID: expenseID}, Merchant: merchant}, nil
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "PUT", "/expenses/7", `{"amount":"175.25","merchant":"Blinkit"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedAmount == nil || !capturedAmount.Equal(decimal.RequireFromString("175.25")) {
			t.Error("expected amount 175.25 to be passed")
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(_, _ uint, _ *uint, _ *decimal.Decimal, _ *time.Time, _, _ string, _ *models.PaymentMethod) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "PUT", "/expenses/999", `{"merchant":"Blinkit"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "DELETE", "/expenses/7", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["message"] != "Expense deleted successfully" {
			t.Errorf("unexpected message: %v", result["message"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockExpenseService{
			deleteExpenseFn: func(_, _ uint) error {
				return apperrors.ErrExpenseNotFound
			},
		}
		handler := NewExpenseHandler(svc, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "DELETE", "/expenses/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
