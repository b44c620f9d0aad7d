// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"

	"github.com/iwvelando/ratewise/pkg/constants"
)

// Tolerance for comparing rounded currency values.
const Tolerance = constants.CurrencyTolerance

// Close reports whether got is within tol of want.
func Close(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol+1e-9
}

// AssertClose fails the test when got is not within one cent of want.
func AssertClose(t testing.TB, field string, got, want float64) {
	t.Helper()
	if !Close(got, want, Tolerance) {
		t.Errorf("%s = %.4f, expected %.4f", field, got, want)
	}
}

// Field pairs a label with an observed and expected value for table checks.
type Field struct {
	Name     string
	Got      float64
	Expected float64
}

// AssertFields runs AssertClose on every field.
func AssertFields(t testing.TB, fields ...Field) {
	t.Helper()
	for _, f := range fields {
		AssertClose(t, f.Name, f.Got, f.Expected)
	}
}
