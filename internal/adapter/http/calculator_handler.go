package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"egsa-loan-service/internal/usecase/calculator"
)

type CalculatorHandler struct{}

func NewCalculatorHandler() *CalculatorHandler { return &CalculatorHandler{} }

// Quote serves the live loan preview: tiered rate plus amortized
// monthly and total payments.
func (h *CalculatorHandler) Quote(c echo.Context) error {
	amount, err := strconv.ParseFloat(c.QueryParam("amount"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be a number"})
	}
	months, err := strconv.Atoi(c.QueryParam("duration_months"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "duration_months must be an integer"})
	}

	q, err := calculator.Compute(amount, months)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be >= 0 and duration_months >= 1"})
	}
	return c.JSON(http.StatusOK, q)
}
