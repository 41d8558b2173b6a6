package services

import (
	"math"
	"testing"
)

func TestDiscount(t *testing.T) {
	cases := []struct {
		name   string
		base   float64
		points int
		want   float64
	}{
		{"no points", 1000, 0, 0},
		{"negative points", 1000, -50, 0},
		{"below one step", 1000, 9, 0},
		{"exact steps", 1000, 200, 100}, // 200 points = 20 steps = ৳100
		{"partial step truncates", 1000, 205, 100},
		{"capped at 20 percent", 1000, 1000, 200},
		{"cap on small base", 50, 1000, 10},
		{"zero base", 0, 500, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Discount(tc.base, tc.points)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Discount(%v, %d) = %v, want %v", tc.base, tc.points, got, tc.want)
			}
		})
	}
}

func TestAmountDue(t *testing.T) {
	cases := []struct {
		name   string
		base   float64
		points int
		want   float64
	}{
		{"two hundred points on a thousand", 1000, 200, 900},
		{"no redemption", 650, 0, 650},
		{"cap keeps due at 80 percent", 100, 10000, 80},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AmountDue(tc.base, tc.points)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("AmountDue(%v, %d) = %v, want %v", tc.base, tc.points, got, tc.want)
			}
		})
	}
}

func TestAmountDueNeverNegative(t *testing.T) {
	for points := 0; points <= 5000; points += 137 {
		for _, base := range []float64{0, 1, 19.99, 100, 1000} {
			if due := AmountDue(base, points); due < 0 {
				t.Fatalf("AmountDue(%v, %d) = %v, went negative", base, points, due)
			}
		}
	}
}

func TestDiscountNeverExceedsCap(t *testing.T) {
	for points := 0; points <= 10000; points += 251 {
		for _, base := range []float64{1, 50, 499.5, 1000} {
			if d := Discount(base, points); d > base*maxDiscountRate+1e-9 {
				t.Fatalf("Discount(%v, %d) = %v exceeds 20%% cap", base, points, d)
			}
		}
	}
}
