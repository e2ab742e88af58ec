package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	appDomain "egsa-loan-service/internal/domain/application"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *ApplicationRepository) Tx(ctx context.Context, fn func(repo appDomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ApplicationRepository{db: tx})
	})
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.Application) error {
	// Intake defaults are forced here: the store does not trust the
	// caller to have run a validation layer first.
	a.Status = appDomain.StatusPending
	a.AdminComment = ""
	a.Notified = false
	if a.SubmittedDate.IsZero() {
		a.SubmittedDate = time.Now().UTC()
	}
	clampMoney(a)
	return r.db.WithContext(ctx).Create(a).Error
}

// clampMoney floors the monetary fields at zero.
func clampMoney(a *appDomain.Application) {
	for _, f := range []*float64{
		&a.MonthlySalary, &a.LoanAmount, &a.Interest,
		&a.MonthlyPayment, &a.TotalToRepay,
	} {
		if *f < 0 {
			*f = 0
		}
	}
}

func (r *ApplicationRepository) List(ctx context.Context, filter appDomain.StatusFilter) ([]appDomain.Application, error) {
	q := r.db.WithContext(ctx).Order("submitted_date DESC, id DESC")
	if filter != appDomain.FilterAll {
		q = q.Where("status = ?", string(filter))
	}
	var out []appDomain.Application
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uint64) (*appDomain.Application, error) {
	var out appDomain.Application
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, appDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *ApplicationRepository) SetStatus(ctx context.Context, id uint64, status appDomain.Status, comment string) error {
	if !status.Decided() {
		return appDomain.ErrInvalidStatus
	}
	// RowsAffected == 0 means the id does not exist; that is a no-op,
	// not an error. Every transition drops the notified flag.
	return r.db.WithContext(ctx).
		Model(&appDomain.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        string(status),
			"admin_comment": comment,
			"notified":      false,
		}).Error
}

func (r *ApplicationRepository) MarkNotified(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&appDomain.Application{}).
		Where("id = ?", id).
		Update("notified", true).Error
}

func (r *ApplicationRepository) Delete(ctx context.Context, id uint64) error {
	// Hard delete; repeating it on a gone id is a no-op.
	return r.db.WithContext(ctx).
		Unscoped().
		Delete(&appDomain.Application{}, id).Error
}
