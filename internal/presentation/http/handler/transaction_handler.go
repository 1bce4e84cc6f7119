package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/deskastudio/kasir-umkm-api/internal/application/service"
	"github.com/deskastudio/kasir-umkm-api/internal/checkout"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/repository"
	"github.com/deskastudio/kasir-umkm-api/internal/presentation/http/dto/request"
	"github.com/deskastudio/kasir-umkm-api/internal/presentation/http/dto/response"
	"github.com/deskastudio/kasir-umkm-api/pkg/pagination"
)

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Create handles POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	cashierID := GetUserID(c)
	if cashierID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	input := &service.CreateTransactionInput{
		CashierID: *cashierID,
		Items:     make([]service.TransactionItemInput, 0, len(req.Items)),
		Discount:  discountSpec(req.Discount),
		Payment:   req.Payment,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.TransactionItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Transaction created", transaction)
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Transaction retrieved", transaction)
}

// GetByInvoice handles GET /transactions/invoice/:invoice_no
func (h *TransactionHandler) GetByInvoice(c *gin.Context) {
	invoiceNo := c.Param("invoice_no")
	if invoiceNo == "" {
		response.BadRequest(c, "Invoice number is required")
		return
	}

	transaction, err := h.transactionService.GetTransactionByInvoice(c.Request.Context(), invoiceNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Transaction retrieved", transaction)
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	var req request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.Params{Page: req.Page, PerPage: req.PerPage},
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.CashierID != "" {
		cashierID, err := uuid.Parse(req.CashierID)
		if err != nil {
			response.BadRequest(c, "Invalid cashier ID")
			return
		}
		params.CashierID = &cashierID
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

	result, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Transactions retrieved", result)
}

func discountSpec(req request.DiscountRequest) checkout.DiscountSpec {
	if req.Kind == "" {
		return checkout.NoDiscount
	}
	return checkout.DiscountSpec{
		Kind:  checkout.DiscountKind(req.Kind),
		Value: req.Value,
	}
}
