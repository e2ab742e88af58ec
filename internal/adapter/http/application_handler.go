package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	appDomain "egsa-loan-service/internal/domain/application"
	appUC "egsa-loan-service/internal/usecase/application"
)

type ApplicationHandler struct{ uc *appUC.Usecase }

func NewApplicationHandler(uc *appUC.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

// submitReq mirrors the intake form. Attachments arrive as multipart
// files and are read separately.
type submitReq struct {
	Name           string  `form:"name"             validate:"required"`
	NationalID     string  `form:"national_id"      validate:"required"`
	StaffStatus    string  `form:"staff_status"     validate:"required,oneof=Active Inactive Contractor Other"`
	MonthlySalary  float64 `form:"monthly_salary"   validate:"gte=0,dec2"`
	LoanAmount     float64 `form:"loan_amount"      validate:"gte=0,dec2"`
	Interest       float64 `form:"interest"         validate:"gte=0"`
	MonthlyPayment float64 `form:"monthly_payment"  validate:"gte=0"`
	TotalToRepay   float64 `form:"total_to_repay"   validate:"gte=0,dec2"`
	RepaymentDate  string  `form:"repayment_date"   validate:"required,datetime=2006-01-02"`
	GuarantorName  string  `form:"guarantor_name"   validate:"required"`
	GuarantorID    string  `form:"guarantor_id"     validate:"required"`
	GuarantorPhone string  `form:"guarantor_phone"  validate:"required"`
	// The guarantee-and-borrower agreement checkbox; submissions
	// without it are rejected outright.
	Agreement bool `form:"agreement" validate:"required"`
}

func (h *ApplicationHandler) Submit(c echo.Context) error {
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	letter, err := readFormFile(c, "support_letter")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "support letter and photo are both required"})
	}
	photo, err := readFormFile(c, "photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "support letter and photo are both required"})
	}

	repayment, _ := time.Parse("2006-01-02", req.RepaymentDate)

	dto, err := h.uc.Submit(c.Request().Context(), appUC.SubmitInput{
		Name:           req.Name,
		NationalID:     req.NationalID,
		StaffStatus:    req.StaffStatus,
		MonthlySalary:  req.MonthlySalary,
		LoanAmount:     req.LoanAmount,
		Interest:       req.Interest,
		MonthlyPayment: req.MonthlyPayment,
		TotalToRepay:   req.TotalToRepay,
		RepaymentDate:  repayment,
		GuarantorName:  req.GuarantorName,
		GuarantorID:    req.GuarantorID,
		GuarantorPhone: req.GuarantorPhone,
		SupportLetter:  letter,
		Photo:          photo,
	})
	if err != nil {
		if errors.Is(err, appDomain.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not store application"})
	}
	return c.JSON(http.StatusCreated, dto)
}

func readFormFile(c echo.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	return readMultipartFile(fh)
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
