package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deskastudio/kasir-umkm-api/internal/application/service"
	"github.com/deskastudio/kasir-umkm-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles receipt printer HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// Status handles GET /printer/status
func (h *PrinterHandler) Status(c *gin.Context) {
	response.Success(c, http.StatusOK, "Printer status retrieved", h.printerService.GetStatus())
}

// Test handles POST /printer/test
func (h *PrinterHandler) Test(c *gin.Context) {
	receipt, err := h.printerService.TestPrint()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Test receipt printed", receipt)
}

// PrintReceipt handles POST /printer/receipts/:id
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	receipt, err := h.printerService.PrintTransactionReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Receipt printed", receipt)
}
