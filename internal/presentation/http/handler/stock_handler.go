package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/deskastudio/kasir-umkm-api/internal/application/service"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/enum"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/repository"
	"github.com/deskastudio/kasir-umkm-api/internal/presentation/http/dto/request"
	"github.com/deskastudio/kasir-umkm-api/internal/presentation/http/dto/response"
	"github.com/deskastudio/kasir-umkm-api/pkg/pagination"
)

// StockHandler handles stock adjustment HTTP requests
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Adjust handles POST /stock/adjustments
func (h *StockHandler) Adjust(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	adjustment, err := h.stockService.AdjustStock(c.Request.Context(), &service.AdjustStockInput{
		ProductID: req.ProductID,
		UserID:    *userID,
		Type:      adjustmentType(req.Type),
		Quantity:  req.Quantity,
		Note:      req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Stock adjusted", adjustment)
}

// List handles GET /stock/adjustments
func (h *StockHandler) List(c *gin.Context) {
	var req request.AdjustmentFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}

	params := &repository.AdjustmentFilterParams{
		Pagination: &pagination.Params{Page: req.Page, PerPage: req.PerPage},
	}
	if req.ProductID != "" {
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product ID")
			return
		}
		params.ProductID = &productID
	}
	if req.StartDate != "" {
		start, err := ParseDate(req.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := ParseDate(req.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		end = end.AddDate(0, 0, 1)
		params.EndDate = &end
	}

	result, err := h.stockService.ListAdjustments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Adjustments retrieved", result)
}

// ProductHistory handles GET /stock/adjustments/product/:id
func (h *StockHandler) ProductHistory(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	adjustments, err := h.stockService.GetProductHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Adjustment history retrieved", adjustments)
}

func adjustmentType(value string) enum.AdjustmentType {
	switch value {
	case "in":
		return enum.AdjustmentIn
	case "out":
		return enum.AdjustmentOut
	default:
		return enum.AdjustmentCorrection
	}
}
