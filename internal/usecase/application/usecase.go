package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	appDomain "egsa-loan-service/internal/domain/application"
	"egsa-loan-service/internal/domain/notification"
	"egsa-loan-service/pkg/refcode"
)

type Usecase struct {
	repo     appDomain.Repository
	notifier notification.Notifier // nil disables outbound notices
}

func NewUsecase(r appDomain.Repository, n notification.Notifier) *Usecase {
	return &Usecase{repo: r, notifier: n}
}

func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*ApplicationDTO, error) {
	if in.Name == "" || in.NationalID == "" ||
		in.GuarantorName == "" || in.GuarantorID == "" || in.GuarantorPhone == "" {
		return nil, fmt.Errorf("%w: missing required field", appDomain.ErrInvalidInput)
	}
	if in.RepaymentDate.IsZero() {
		return nil, fmt.Errorf("%w: missing repayment date", appDomain.ErrInvalidInput)
	}
	if len(in.SupportLetter) == 0 || len(in.Photo) == 0 {
		return nil, fmt.Errorf("%w: support letter and photo are required", appDomain.ErrInvalidInput)
	}

	a := &appDomain.Application{
		Reference:      refcode.New(),
		Name:           in.Name,
		NationalID:     in.NationalID,
		StaffStatus:    appDomain.StaffStatus(in.StaffStatus),
		MonthlySalary:  in.MonthlySalary,
		LoanAmount:     in.LoanAmount,
		Interest:       in.Interest,
		MonthlyPayment: in.MonthlyPayment,
		TotalToRepay:   in.TotalToRepay,
		RepaymentDate:  in.RepaymentDate,
		GuarantorName:  in.GuarantorName,
		GuarantorID:    in.GuarantorID,
		GuarantorPhone: in.GuarantorPhone,
		SubmittedDate:  time.Now().UTC(),
		SupportLetter:  in.SupportLetter,
		Photo:          in.Photo,
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toDTO(a), nil
}

func (u *Usecase) List(ctx context.Context, rawFilter string) ([]ApplicationDTO, error) {
	filter, err := appDomain.ParseStatusFilter(rawFilter)
	if err != nil {
		return nil, err
	}
	rows, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*ApplicationDTO, error) {
	a, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(a), nil
}

func (u *Usecase) Approve(ctx context.Context, id uint64, comment string) (*ApplicationDTO, error) {
	return u.decide(ctx, id, appDomain.StatusApproved, comment)
}

func (u *Usecase) Reject(ctx context.Context, id uint64, comment string) (*ApplicationDTO, error) {
	return u.decide(ctx, id, appDomain.StatusRejected, comment)
}

// decide applies the status transition and then makes a best-effort
// attempt to notify the guarantor. Re-deciding an already-decided
// application is allowed: the store overwrites status and comment and
// drops the notified flag again.
func (u *Usecase) decide(ctx context.Context, id uint64, status appDomain.Status, comment string) (*ApplicationDTO, error) {
	if _, err := u.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := u.repo.SetStatus(ctx, id, status, comment); err != nil {
		return nil, err
	}

	a, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Delivery failures never roll back the decision.
	if u.notifier != nil {
		if err := u.notifier.NotifyStatusChange(ctx, noticeFor(a)); err != nil {
			log.Printf("notify application %d: %v", id, err)
		} else if err := u.repo.MarkNotified(ctx, id); err != nil {
			return nil, err
		} else {
			a.Notified = true
		}
	}
	return toDTO(a), nil
}

// Notify re-sends the decision notice on demand and records success.
func (u *Usecase) Notify(ctx context.Context, id uint64) (*ApplicationDTO, error) {
	a, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.notifier != nil {
		if err := u.notifier.NotifyStatusChange(ctx, noticeFor(a)); err != nil {
			return nil, err
		}
	}
	if err := u.repo.MarkNotified(ctx, id); err != nil {
		return nil, err
	}
	a.Notified = true
	return toDTO(a), nil
}

func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	return u.repo.Delete(ctx, id)
}

// SupportLetter returns the raw attachment bytes for download.
func (u *Usecase) SupportLetter(ctx context.Context, id uint64) ([]byte, error) {
	return u.attachment(ctx, id, func(a *appDomain.Application) []byte { return a.SupportLetter })
}

func (u *Usecase) Photo(ctx context.Context, id uint64) ([]byte, error) {
	return u.attachment(ctx, id, func(a *appDomain.Application) []byte { return a.Photo })
}

func (u *Usecase) attachment(ctx context.Context, id uint64, pick func(*appDomain.Application) []byte) ([]byte, error) {
	a, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b := pick(a)
	if len(b) == 0 {
		return nil, appDomain.ErrNotFound
	}
	return b, nil
}

var csvHeader = []string{
	"id", "reference", "name", "national_id", "staff_status",
	"monthly_salary", "loan_amount", "interest", "monthly_payment",
	"total_to_repay", "repayment_date", "guarantor_name", "guarantor_id",
	"guarantor_phone", "submitted_date", "status", "admin_comment", "notified",
}

// ExportCSV renders the (optionally filtered) list as a flat table.
// Monetary fields are fixed to two decimals; attachment blobs are
// excluded from tabular export.
func (u *Usecase) ExportCSV(ctx context.Context, rawFilter string) ([]byte, error) {
	filter, err := appDomain.ParseStatusFilter(rawFilter)
	if err != nil {
		return nil, err
	}
	rows, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	money := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	for i := range rows {
		a := &rows[i]
		repayment := ""
		if !a.RepaymentDate.IsZero() {
			repayment = a.RepaymentDate.Format("2006-01-02")
		}
		rec := []string{
			strconv.FormatUint(a.ID, 10),
			a.Reference,
			a.Name,
			a.NationalID,
			string(a.StaffStatus),
			money(a.MonthlySalary),
			money(a.LoanAmount),
			money(a.Interest),
			money(a.MonthlyPayment),
			money(a.TotalToRepay),
			repayment,
			a.GuarantorName,
			a.GuarantorID,
			a.GuarantorPhone,
			a.SubmittedDate.UTC().Format("2006-01-02 15:04:05"),
			string(a.Status),
			a.AdminComment,
			strconv.FormatBool(a.Notified),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func noticeFor(a *appDomain.Application) notification.StatusNotice {
	return notification.StatusNotice{
		ApplicationID:  a.ID,
		Reference:      a.Reference,
		ApplicantName:  a.Name,
		GuarantorName:  a.GuarantorName,
		GuarantorPhone: a.GuarantorPhone,
		Status:         a.Status,
		Comment:        a.AdminComment,
	}
}
