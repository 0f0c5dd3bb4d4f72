package products

import (
	"errors"
	"testing"
	"time"

	"dokan/models"
)

func TestNormalizeDiscountsDuplicateCode(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := NormalizeDiscounts([]models.Discount{
		{Code: "SAVE10", Percentage: 10, ValidFrom: now, ValidTo: now.AddDate(0, 0, 7), IsActive: true},
		{Code: "SAVE10", Percentage: 20, ValidFrom: now, ValidTo: now.AddDate(0, 0, 7), IsActive: true},
	}, now)
	if !errors.Is(err, ErrDuplicateDiscountCode) {
		t.Fatalf("expected ErrDuplicateDiscountCode, got %v", err)
	}
}

func TestNormalizeDiscountsInvalidPeriod(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := NormalizeDiscounts([]models.Discount{
		{Code: "BACKWARDS", Percentage: 10, ValidFrom: now, ValidTo: now.Add(-time.Hour), IsActive: true},
	}, now)
	if !errors.Is(err, ErrInvalidDiscountPeriod) {
		t.Fatalf("expected ErrInvalidDiscountPeriod, got %v", err)
	}
}

func TestNormalizeDiscountsDerivesActive(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	out, err := NormalizeDiscounts([]models.Discount{
		{Code: "LIVE", Percentage: 10, ValidFrom: now.AddDate(0, 0, -1), ValidTo: now.AddDate(0, 0, 7), IsActive: true},
		{Code: "DEAD", Percentage: 10, ValidFrom: now.AddDate(0, 0, -14), ValidTo: now.AddDate(0, 0, -7), IsActive: true},
		{Code: "OFF", Percentage: 10, ValidFrom: now.AddDate(0, 0, -1), ValidTo: now.AddDate(0, 0, 7), IsActive: false},
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	if !out[0].IsActive {
		t.Error("in-window discount should stay active")
	}
	if out[1].IsActive {
		t.Error("expired discount should be deactivated")
	}
	if out[2].IsActive {
		t.Error("seller-disabled discount should stay inactive")
	}
	if out[0].ID == "" || out[0].ID == out[1].ID {
		t.Error("discounts should receive fresh distinct ids")
	}
}
