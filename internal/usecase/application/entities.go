package application

import (
	"time"

	appDomain "egsa-loan-service/internal/domain/application"
)

// SubmitInput is the validated draft handed over by the intake form.
// Both attachments are required in the extended form variant.
type SubmitInput struct {
	Name           string
	NationalID     string
	StaffStatus    string
	MonthlySalary  float64
	LoanAmount     float64
	Interest       float64
	MonthlyPayment float64
	TotalToRepay   float64
	RepaymentDate  time.Time
	GuarantorName  string
	GuarantorID    string
	GuarantorPhone string
	SupportLetter  []byte
	Photo          []byte
}

// ApplicationDTO is the wire shape of one application. Attachments are
// exposed as presence flags only; bytes go through the download
// endpoints.
type ApplicationDTO struct {
	ID             uint64    `json:"id"`
	Reference      string    `json:"reference"`
	Name           string    `json:"name"`
	NationalID     string    `json:"national_id"`
	StaffStatus    string    `json:"staff_status"`
	MonthlySalary  float64   `json:"monthly_salary"`
	LoanAmount     float64   `json:"loan_amount"`
	Interest       float64   `json:"interest"`
	MonthlyPayment float64   `json:"monthly_payment"`
	TotalToRepay   float64   `json:"total_to_repay"`
	RepaymentDate  string    `json:"repayment_date"`
	GuarantorName  string    `json:"guarantor_name"`
	GuarantorID    string    `json:"guarantor_id"`
	GuarantorPhone string    `json:"guarantor_phone"`
	SubmittedDate  time.Time `json:"submitted_date"`
	Status         string    `json:"status"`
	AdminComment   string    `json:"admin_comment"`
	Notified       bool      `json:"notified"`
	HasLetter      bool      `json:"has_support_letter"`
	HasPhoto       bool      `json:"has_photo"`
}

func toDTO(a *appDomain.Application) *ApplicationDTO {
	repayment := ""
	if !a.RepaymentDate.IsZero() {
		repayment = a.RepaymentDate.Format("2006-01-02")
	}
	return &ApplicationDTO{
		ID:             a.ID,
		Reference:      a.Reference,
		Name:           a.Name,
		NationalID:     a.NationalID,
		StaffStatus:    string(a.StaffStatus),
		MonthlySalary:  a.MonthlySalary,
		LoanAmount:     a.LoanAmount,
		Interest:       a.Interest,
		MonthlyPayment: a.MonthlyPayment,
		TotalToRepay:   a.TotalToRepay,
		RepaymentDate:  repayment,
		GuarantorName:  a.GuarantorName,
		GuarantorID:    a.GuarantorID,
		GuarantorPhone: a.GuarantorPhone,
		SubmittedDate:  a.SubmittedDate,
		Status:         string(a.Status),
		AdminComment:   a.AdminComment,
		Notified:       a.Notified,
		HasLetter:      len(a.SupportLetter) > 0,
		HasPhoto:       len(a.Photo) > 0,
	}
}
