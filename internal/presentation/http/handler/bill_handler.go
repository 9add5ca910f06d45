package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/stockroom-api/internal/application/service"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	"github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stockroom-api/internal/presentation/http/dto/response"
	"github.com/sangkips/stockroom-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// BillHandler serves stored bills
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// List handles listing bills with search, status, customer and date filters
func (h *BillHandler) List(c *gin.Context) {
	var filter request.BillFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		SortOrder:  filter.SortOrder,
	}

	switch strings.ToLower(filter.Status) {
	case "":
	case "paid":
		s := enum.BillStatusPaid
		params.Status = &s
	case "cancelled":
		s := enum.BillStatusCancelled
		params.Status = &s
	default:
		response.BadRequest(c, "Invalid status filter")
		return
	}

	if filter.CustomerID != "" {
		id, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &id
	}

	if filter.StartDate != "" {
		start, err := time.Parse(dateLayout, filter.StartDate)
		if err != nil {
			response.BadRequest(c, "start_date must be YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := time.Parse(dateLayout, filter.EndDate)
		if err != nil {
			response.BadRequest(c, "end_date must be YYYY-MM-DD")
			return
		}
		// inclusive of the whole end day
		end = end.Add(24*time.Hour - time.Nanosecond)
		params.EndDate = &end
	}

	result, err := h.billService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Bills retrieved successfully", result)
}

// Get handles getting a bill by ID or bill number
func (h *BillHandler) Get(c *gin.Context) {
	ref := c.Param("id")

	var (
		bill *entity.Bill
		err  error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		bill, err = h.billService.GetBill(c.Request.Context(), id)
	} else {
		bill, err = h.billService.GetBillByNumber(c.Request.Context(), ref)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// Cancel handles cancelling a bill and restocking its items
func (h *BillHandler) Cancel(c *gin.Context) {
	id, ok := paramUUID(c, "id", "bill")
	if !ok {
		return
	}

	bill, err := h.billService.CancelBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill cancelled successfully", bill)
}
