package cart

import "testing"

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"25.00", 2500},
		{"0.05", 5},
		{"19.99", 1999},
		{"100", 10000},
		{" 12.50 ", 1250},
		{"", 0},
		{"abc", 0},
		{"-3.25", -325},
	}
	for _, tt := range tests {
		m := Money{Amount: tt.amount}
		if got := m.MinorUnits(); got != tt.want {
			t.Errorf("MinorUnits(%q) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}

func TestEffectiveQuantity(t *testing.T) {
	tests := []struct {
		qty  int
		want int
	}{
		{3, 3},
		{1, 1},
		{0, 1},
		{-2, 1},
	}
	for _, tt := range tests {
		l := Line{Quantity: tt.qty}
		if got := l.EffectiveQuantity(); got != tt.want {
			t.Errorf("EffectiveQuantity(%d) = %d, want %d", tt.qty, got, tt.want)
		}
	}
}

func TestSnapshotCurrency(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"USD", "USD"},
		{"eur", "EUR"},
		{"", "USD"},
	}
	for _, tt := range tests {
		s := Snapshot{Subtotal: Money{CurrencyCode: tt.code}}
		if got := s.Currency(); got != tt.want {
			t.Errorf("Currency(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
