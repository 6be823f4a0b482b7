package service

import (
	"testing"

	"github.com/sangkips/library-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

func assertKind(t *testing.T, err error, want apperror.Kind) *apperror.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if !apperror.IsKind(err, want) {
		t.Fatalf("expected %s error, got %v", want, err)
	}
	return apperror.GetAppError(err)
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
