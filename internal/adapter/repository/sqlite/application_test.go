package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appDomain "egsa-loan-service/internal/domain/application"
	"egsa-loan-service/pkg/refcode"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&appDomain.Application{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeApplication(submitted time.Time) *appDomain.Application {
	return &appDomain.Application{
		Reference:      refcode.New(),
		Name:           "Abebe Kebede",
		NationalID:     "0012345678",
		StaffStatus:    appDomain.StaffActive,
		MonthlySalary:  2_500.00,
		LoanAmount:     10_000.00,
		Interest:       35,
		TotalToRepay:   11_995.56,
		RepaymentDate:  submitted.AddDate(1, 0, 0),
		GuarantorName:  "Mulu Alem",
		GuarantorID:    "0098765432",
		GuarantorPhone: "+251911000000",
		SubmittedDate:  submitted,
		SupportLetter:  []byte("%PDF-1.4 letter"),
		Photo:          []byte{0x89, 'P', 'N', 'G'},
	}
}

func TestCreate_ForcesIntakeDefaults(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	a := makeApplication(time.Now().UTC())
	a.Status = appDomain.StatusApproved // must be overridden
	a.AdminComment = "sneaky"
	a.Notified = true
	a.MonthlySalary = -100 // must be clamped

	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != appDomain.StatusPending {
		t.Errorf("status = %q, want Pending", got.Status)
	}
	if got.AdminComment != "" || got.Notified {
		t.Errorf("intake defaults not forced: comment=%q notified=%v", got.AdminComment, got.Notified)
	}
	if got.MonthlySalary != 0 {
		t.Errorf("negative salary not clamped: %v", got.MonthlySalary)
	}
	if got.SubmittedDate.IsZero() {
		t.Errorf("submitted date not set")
	}
	if string(got.SupportLetter) != "%PDF-1.4 letter" {
		t.Errorf("support letter not persisted")
	}
}

func TestList_OrderAndFilter(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()

	oldest := makeApplication(now.Add(-3 * time.Hour))
	middle := makeApplication(now.Add(-2 * time.Hour))
	newest := makeApplication(now.Add(-1 * time.Hour))
	for _, a := range []*appDomain.Application{oldest, middle, newest} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.SetStatus(ctx, middle.ID, appDomain.StatusRejected, "incomplete docs"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	all, err := repo.List(ctx, appDomain.FilterAll)
	if err != nil {
		t.Fatalf("List(All): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(All) rows = %d, want 3", len(all))
	}
	// most recent first
	if all[0].ID != newest.ID || all[2].ID != oldest.ID {
		t.Errorf("wrong order: got ids %d,%d,%d", all[0].ID, all[1].ID, all[2].ID)
	}

	rejected, err := repo.List(ctx, appDomain.FilterRejected)
	if err != nil {
		t.Fatalf("List(Rejected): %v", err)
	}
	if len(rejected) != 1 || rejected[0].ID != middle.ID {
		t.Fatalf("List(Rejected) = %+v, want only id %d", rejected, middle.ID)
	}

	pending, err := repo.List(ctx, appDomain.FilterPending)
	if err != nil {
		t.Fatalf("List(Pending): %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("List(Pending) rows = %d, want 2", len(pending))
	}
}

func TestSetStatus_UpdatesAndResetsNotified(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	a := makeApplication(time.Now().UTC())
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.MarkNotified(ctx, a.ID); err != nil {
		t.Fatalf("MarkNotified: %v", err)
	}

	if err := repo.SetStatus(ctx, a.ID, appDomain.StatusApproved, "ok"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != appDomain.StatusApproved || got.AdminComment != "ok" {
		t.Errorf("got status=%q comment=%q", got.Status, got.AdminComment)
	}
	if got.Notified {
		t.Errorf("notified not reset on transition")
	}
	if !got.SubmittedDate.Equal(a.SubmittedDate) {
		t.Errorf("submitted date changed on update")
	}
}

func TestSetStatus_MissingID_IsNoOp(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	if err := repo.SetStatus(ctx, 9999, appDomain.StatusRejected, "whatever"); err != nil {
		t.Fatalf("SetStatus on missing id should be silent, got %v", err)
	}
}

func TestSetStatus_RejectsPendingTarget(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	a := makeApplication(time.Now().UTC())
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.SetStatus(ctx, a.ID, appDomain.StatusPending, "")
	if !errors.Is(err, appDomain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestMarkNotified_LeavesStatusAlone(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	a := makeApplication(time.Now().UTC())
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SetStatus(ctx, a.ID, appDomain.StatusApproved, "ok"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := repo.MarkNotified(ctx, a.ID); err != nil {
		t.Fatalf("MarkNotified: %v", err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Notified {
		t.Errorf("notified not set")
	}
	if got.Status != appDomain.StatusApproved || got.AdminComment != "ok" {
		t.Errorf("MarkNotified altered status/comment: %+v", got)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	a := makeApplication(time.Now().UTC())
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, a.ID); !errors.Is(err, appDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// second delete is a no-op, not an error
	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}

	all, err := repo.List(ctx, appDomain.FilterAll)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("row still listed after delete: %+v", all)
	}
}

func TestTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	wantErr := errors.New("boom")
	var createdID uint64

	_ = repo.Tx(ctx, func(r appDomain.Repository) error {
		a := makeApplication(time.Now().UTC())
		if err := r.Create(ctx, a); err != nil {
			return err
		}
		createdID = a.ID
		return wantErr // force rollback
	})

	if _, err := repo.GetByID(ctx, createdID); !errors.Is(err, appDomain.ErrNotFound) {
		t.Fatalf("expected not found after rollback, got %v", err)
	}
}
