package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockroom-api/internal/application/service"
	"github.com/sangkips/stockroom-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stockroom-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// BillingHandler serves point-of-sale sessions
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

func sessionBody(v *service.SessionView) gin.H {
	return gin.H{
		"session": v.Session,
		"totals":  v.Totals,
	}
}

// CreateSession opens a new billing session for the caller
func (h *BillingHandler) CreateSession(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	view, err := h.billingService.CreateSession(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Billing session created", sessionBody(view))
}

// GetSession returns a session with its current totals
func (h *BillingHandler) GetSession(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUUID(c, "id", "session")
	if !ok {
		return
	}

	view, err := h.billingService.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Billing session retrieved", sessionBody(view))
}

// DeleteSession discards a session
func (h *BillingHandler) DeleteSession(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUUID(c, "id", "session")
	if !ok {
		return
	}

	if err := h.billingService.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddItem adds one unit of a product to the cart
func (h *BillingHandler) AddItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUUID(c, "id", "session")
	if !ok {
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.billingService.AddItem(c.Request.Context(), userID, sessionID, req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", sessionBody(view))
}

// SetQuantity sets the quantity of a cart line
func (h *BillingHandler) SetQuantity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUUID(c, "id", "session")
	if !ok {
		return
	}
	productID, ok := paramUUID(c, "productId", "product")
	if !ok {
		return
	}

	var req request.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.billingService.SetQuantity(c.Request.Context(), &service.SetQuantityInput{
		UserID:    userID,
		SessionID: sessionID,
		ProductID: productID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart updated", sessionBody(view))
}

// RemoveItem drops a line from the cart
func (h *BillingHandler) RemoveItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUUID(c, "id", "session")
	if !ok {
		return
	}
	productID, ok := paramUUID(c, "productId", "product")
	if !ok {
		return
	}

	view, err := h.billingService.RemoveItem(c.Request.Context(), userID, sessionID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart", sessionBody(view))
}

// Reset clears the cart and all adjustments
func (h *BillingHandler) Reset(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUUID(c, "id", "session")
	if !ok {
		return
	}

	view, err := h.billingService.ResetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Billing session reset", sessionBody(view))
}

// UpdateAdjustments changes customer, discount, tax flag or notes
func (h *BillingHandler) UpdateAdjustments(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUUID(c, "id", "session")
	if !ok {
		return
	}

	var req request.UpdateAdjustmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateAdjustmentsInput{
		UserID:        userID,
		SessionID:     sessionID,
		CustomerID:    req.CustomerID,
		ClearCustomer: req.ClearCustomer,
		TaxEnabled:    req.TaxEnabled,
		Notes:         req.Notes,
	}
	if req.DiscountPercent != nil {
		d := decimal.NewFromFloat(*req.DiscountPercent)
		input.DiscountPercent = &d
	}

	view, err := h.billingService.UpdateAdjustments(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill adjustments updated", sessionBody(view))
}

// GenerateBill turns the session's cart into a persisted bill
func (h *BillingHandler) GenerateBill(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUUID(c, "id", "session")
	if !ok {
		return
	}

	out, err := h.billingService.GenerateBill(c.Request.Context(), userID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill generated successfully", gin.H{
		"bill":    out.Bill,
		"session": sessionBody(out.Session),
	})
}
