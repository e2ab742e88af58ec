package application

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("application not found")
	ErrInvalidInput  = errors.New("invalid application input")
	ErrInvalidStatus = errors.New("invalid application status")
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Valid reports whether s is one of the stored status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Decided statuses are the only legal targets of a status transition.
func (s Status) Decided() bool { return s == StatusApproved || s == StatusRejected }

type StaffStatus string

const (
	StaffActive     StaffStatus = "Active"
	StaffInactive   StaffStatus = "Inactive"
	StaffContractor StaffStatus = "Contractor"
	StaffOther      StaffStatus = "Other"
)

// StatusFilter selects rows for List. FilterAll returns every row.
type StatusFilter string

const (
	FilterAll      StatusFilter = "All"
	FilterPending  StatusFilter = "Pending"
	FilterApproved StatusFilter = "Approved"
	FilterRejected StatusFilter = "Rejected"
)

// ParseStatusFilter maps the query value to a filter; empty means All.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch StatusFilter(raw) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterApproved:
		return FilterApproved, nil
	case FilterRejected:
		return FilterRejected, nil
	}
	return "", ErrInvalidStatus
}

type Application struct {
	// Internal numeric PK; assigned by the store, immutable afterwards.
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public reference code (32-char lowercase hex), handed back on submit.
	Reference string `gorm:"column:reference;size:32;uniqueIndex:ux_applications_reference"`

	Name string `gorm:"column:name;size:255;not null"`
	// National ID stays textual; leading zeros and long values must survive.
	NationalID  string      `gorm:"column:national_id;size:64;not null"`
	StaffStatus StaffStatus `gorm:"column:staff_status;size:16"`

	MonthlySalary float64 `gorm:"column:monthly_salary;type:decimal(18,2)"`
	LoanAmount    float64 `gorm:"column:loan_amount;type:decimal(18,2)"`
	// Interest as entered on the form: amount or percent, no stored unit.
	Interest       float64   `gorm:"column:interest;type:decimal(18,2)"`
	MonthlyPayment float64   `gorm:"column:monthly_payment;type:decimal(18,2)"`
	TotalToRepay   float64   `gorm:"column:total_to_repay;type:decimal(18,2)"`
	RepaymentDate  time.Time `gorm:"column:repayment_date;type:date"`

	GuarantorName  string `gorm:"column:guarantor_name;size:255"`
	GuarantorID    string `gorm:"column:guarantor_id;size:64"`
	GuarantorPhone string `gorm:"column:guarantor_phone;size:32"`

	// Set once at creation, never touched by updates.
	SubmittedDate time.Time `gorm:"column:submitted_date;index:idx_applications_submitted"`
	Status        Status    `gorm:"column:status;size:16;default:'Pending';index:idx_applications_status"`
	AdminComment  string    `gorm:"column:admin_comment;type:text"`
	Notified      bool      `gorm:"column:notified;default:false"`

	SupportLetter []byte `gorm:"column:support_letter;type:blob"`
	Photo         []byte `gorm:"column:photo;type:blob"`
}

func (Application) TableName() string { return "applications" }
