package api

import (
	"context"
	"strings"

	"utsav/aggregate"
	"utsav/database"
	"utsav/middleware"
	"utsav/models"

	"github.com/gin-gonic/gin"
)

// BudgetHandler the event budget screen
type BudgetHandler struct{}

// NewBudgetHandler creates the budget handler
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// ExpenseRequest add/edit expense form
type ExpenseRequest struct {
	Category string   `json:"category" binding:"required,max=100" example:"Venue"`
	Title    string   `json:"title" binding:"required,max=200" example:"Banquet hall advance"`
	Amount   *float64 `json:"amount" binding:"required,gte=0" example:"25000"`
}

// BudgetResponse budget summary with expenses grouped by category
type BudgetResponse struct {
	Summary    aggregate.BudgetSummary   `json:"summary"`
	Categories []aggregate.CategoryGroup `json:"categories"`
	Expenses   []models.Expense          `json:"expenses"`
}

func (r *ExpenseRequest) normalize() bool {
	r.Category = strings.TrimSpace(r.Category)
	r.Title = strings.TrimSpace(r.Title)
	return r.Category != "" && r.Title != ""
}

func loadBudget(ctx context.Context, event *models.Event) (*BudgetResponse, error) {
	expenses, err := database.Expenses.List(ctx, database.Filter{"event_id": event.ID})
	if err != nil {
		return nil, err
	}
	return &BudgetResponse{
		Summary:    aggregate.Budget(expenses, event.BudgetTotal),
		Categories: aggregate.GroupByCategory(expenses),
		Expenses:   expenses,
	}, nil
}

func (h *BudgetHandler) respond(c *gin.Context, message string) {
	resp, err := loadBudget(c.Request.Context(), middleware.GetEvent(c))
	if err != nil {
		storeError(c, err, "", "failed to load budget")
		return
	}
	SuccessWithMessage(c, message, resp)
}

// Get returns the budget screen
// @Summary Event budget
// @Tags Budget
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Success 200 {object} Response{data=BudgetResponse}
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId}/budget [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	h.respond(c, "success")
}

// AddExpense records an expense. Overspending is allowed.
// @Summary Add expense
// @Tags Budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param request body ExpenseRequest true "expense"
// @Success 200 {object} Response{data=BudgetResponse}
// @Failure 400 {object} Response
// @Router /api/v1/events/{eventId}/expenses [post]
func (h *BudgetHandler) AddExpense(c *gin.Context) {
	event := middleware.GetEvent(c)

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid expense"))
		return
	}
	if !req.normalize() {
		BadRequest(c, "category and title are required")
		return
	}

	expense := models.Expense{
		EventID:  event.ID,
		Category: req.Category,
		Title:    req.Title,
		Amount:   *req.Amount,
	}
	if err := database.Expenses.Insert(c.Request.Context(), &expense); err != nil {
		storeError(c, err, "", "failed to add expense")
		return
	}

	h.respond(c, "expense added")
}

// UpdateExpense edits an expense of the event
// @Summary Update expense
// @Tags Budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param id path int true "expense id"
// @Param request body ExpenseRequest true "expense"
// @Success 200 {object} Response{data=BudgetResponse}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId}/expenses/{id} [put]
func (h *BudgetHandler) UpdateExpense(c *gin.Context) {
	event := middleware.GetEvent(c)
	ctx := c.Request.Context()
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid expense"))
		return
	}
	if !req.normalize() {
		BadRequest(c, "category and title are required")
		return
	}

	scope := database.Filter{"id": id, "event_id": event.ID}
	if _, err := database.Expenses.Get(ctx, scope); err != nil {
		storeError(c, err, "expense not found", "failed to load expense")
		return
	}
	patch := map[string]any{"category": req.Category, "title": req.Title, "amount": *req.Amount}
	if _, err := database.Expenses.Update(ctx, patch, scope); err != nil {
		storeError(c, err, "", "failed to update expense")
		return
	}

	h.respond(c, "expense updated")
}

// DeleteExpense removes an expense of the event
// @Summary Delete expense
// @Tags Budget
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "event id"
// @Param id path int true "expense id"
// @Success 200 {object} Response{data=BudgetResponse}
// @Failure 404 {object} Response
// @Router /api/v1/events/{eventId}/expenses/{id} [delete]
func (h *BudgetHandler) DeleteExpense(c *gin.Context) {
	event := middleware.GetEvent(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	n, err := database.Expenses.Delete(c.Request.Context(), database.Filter{"id": id, "event_id": event.ID})
	if err != nil {
		storeError(c, err, "", "failed to delete expense")
		return
	}
	if n == 0 {
		NotFound(c, "expense not found")
		return
	}

	h.respond(c, "expense deleted")
}
