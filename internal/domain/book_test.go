package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "9780143127741", "9780143127741"},
		{"trailing newline from scanner", "9780143127741\n", "9780143127741"},
		{"surrounding whitespace", "  9780143127741 \t", "9780143127741"},
		{"empty", "", ""},
		{"only whitespace", " \n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeISBN(tt.input))
		})
	}
}

func TestIsValidCuratorRating(t *testing.T) {
	assert.False(t, IsValidCuratorRating(0))
	assert.True(t, IsValidCuratorRating(1))
	assert.True(t, IsValidCuratorRating(5))
	assert.False(t, IsValidCuratorRating(6))
	assert.False(t, IsValidCuratorRating(-1))
}

func TestAddedSince(t *testing.T) {
	cutoff := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	before := &Book{CreatedAt: cutoff.Add(-time.Hour)}
	atCutoff := &Book{CreatedAt: cutoff}
	after := &Book{CreatedAt: cutoff.Add(time.Hour)}

	assert.False(t, before.AddedSince(cutoff))
	assert.True(t, atCutoff.AddedSince(cutoff))
	assert.True(t, after.AddedSince(cutoff))
}

func TestRouteScan(t *testing.T) {
	assert.Equal(t, ScanActionRegister, RouteScan(nil))
	assert.Equal(t, ScanActionCheckout, RouteScan(&Book{ISBN: "123"}))
	assert.Equal(t, ScanActionReturn, RouteScan(&Book{ISBN: "123", IsCheckedOut: true}))
}
