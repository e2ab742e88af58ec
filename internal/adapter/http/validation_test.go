package http

import (
	"errors"
	"testing"
)

func TestDec2Validation(t *testing.T) {
	type P struct {
		Amount float64 `validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []float64{0, 100, 2500.5, 10_000.25} {
		if err := cv.Validate(P{Amount: v}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{0.001, 99.999, 1234.5678} {
		err := cv.Validate(P{Amount: v})
		if err == nil {
			t.Fatalf("expected error for %v", v)
		}
		fe := ToFieldErrors(err)
		if len(fe) != 1 || fe[0].Field != "Amount" {
			t.Fatalf("unexpected field errors: %+v", fe)
		}
		if fe[0].Message != "must have at most 2 decimal places" {
			t.Fatalf("message = %q", fe[0].Message)
		}
	}
}

func TestToFieldErrors_RequiredAndOneof(t *testing.T) {
	type P struct {
		Name   string `validate:"required"`
		Status string `validate:"oneof=Active Inactive"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Name: "", Status: "Retired"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	fe := ToFieldErrors(err)
	if len(fe) != 2 {
		t.Fatalf("field errors = %+v, want 2", fe)
	}
	if fe[0].Field != "Name" || fe[0].Message != "is required" {
		t.Fatalf("unexpected first error: %+v", fe[0])
	}
	if fe[1].Field != "Status" || fe[1].Message != "must be one of: Active Inactive" {
		t.Fatalf("unexpected second error: %+v", fe[1])
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected fallback: %+v", fe)
	}
}
