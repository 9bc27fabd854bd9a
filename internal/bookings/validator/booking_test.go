package validator

import (
	"strings"
	"testing"
	"time"

	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

func newValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.TEXT,
		Service: "test",
	}))
}

func validRequest() *model.BookingRequest {
	start := time.Now().UTC().Add(24 * time.Hour)
	return &model.BookingRequest{
		VehicleID:   "64b0f0a1c2d3e4f5a6b7c8d9",
		StoreID:     "64b0f0a1c2d3e4f5a6b7c8da",
		UserID:      "64b0f0a1c2d3e4f5a6b7c8db",
		StartTime:   start,
		EndTime:     start.Add(4 * time.Hour),
		TotalAmount: 45000,
		Currency:    "USD",
	}
}

func TestValidate_ValidRequest(t *testing.T) {
	v := newValidator()

	if err := v.Validate(validRequest()); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
}

func TestValidate_OmittedCurrencyAllowed(t *testing.T) {
	v := newValidator()

	req := validRequest()
	req.Currency = ""
	if err := v.Validate(req); err != nil {
		t.Errorf("empty currency should pass, the service applies the default: %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req *model.BookingRequest)
		wantField string
	}{
		{"missing vehicle id", func(r *model.BookingRequest) { r.VehicleID = "" }, "VehicleID"},
		{"malformed vehicle id", func(r *model.BookingRequest) { r.VehicleID = "garage-7" }, "VehicleID"},
		{"missing store id", func(r *model.BookingRequest) { r.StoreID = "" }, "StoreID"},
		{"missing user id", func(r *model.BookingRequest) { r.UserID = "" }, "UserID"},
		{"missing start time", func(r *model.BookingRequest) { r.StartTime = time.Time{} }, "StartTime"},
		{"end before start", func(r *model.BookingRequest) { r.EndTime = r.StartTime.Add(-time.Hour) }, "EndTime"},
		{"end equals start", func(r *model.BookingRequest) { r.EndTime = r.StartTime }, "EndTime"},
		{"zero amount", func(r *model.BookingRequest) { r.TotalAmount = 0 }, "TotalAmount"},
		{"negative amount", func(r *model.BookingRequest) { r.TotalAmount = -100 }, "TotalAmount"},
		{"invalid currency", func(r *model.BookingRequest) { r.Currency = "BUCKS" }, "Currency"},
		{"start in the past", func(r *model.BookingRequest) {
			r.StartTime = time.Now().UTC().Add(-2 * time.Hour)
			r.EndTime = time.Now().UTC().Add(2 * time.Hour)
		}, "StartTime"},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.Validate(req)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("expected error to mention %s, got: %v", tt.wantField, err)
			}
		})
	}
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	v := newValidator()

	req := validRequest()
	req.VehicleID = ""
	req.TotalAmount = 0

	err := v.Validate(req)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	var verrs ValidationErrors
	if !asValidationErrors(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) < 2 {
		t.Errorf("expected both field errors to be reported, got %d: %v", len(verrs), verrs)
	}
}

func asValidationErrors(err error, target *ValidationErrors) bool {
	verrs, ok := err.(ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}
