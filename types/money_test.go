package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   int64
		currency string
		display  string
	}{
		{"BRL", BRL(125000), 125000, "brl", "R$1250.00"},
		{"USD", USD(4900), 4900, "usd", "$49.00"},
		{"EUR", EUR(19900), 19900, "eur", "€199.00"},
		{"GBP", GBP(9900), 9900, "gbp", "£99.00"},
		{"JPY", JPY(100), 100, "jpy", "¥100"},
		{"Zero BRL", Zero("BRL"), 0, "brl", "R$0.00"},
		{"Zero USD", Zero("USD"), 0, "usd", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return BRL(100).Add(BRL(200)) }, BRL(300)},
		{"Subtract", func() Money { return BRL(500).Subtract(BRL(200)) }, BRL(300)},
		{"Subtract below zero", func() Money { return BRL(100).Subtract(BRL(300)) }, BRL(-200)},
		{"SubtractClamped", func() Money { return BRL(500).SubtractClamped(BRL(200)) }, BRL(300)},
		{"SubtractClamped at floor", func() Money { return BRL(100).SubtractClamped(BRL(300)) }, BRL(0)},
		{"Multiply", func() Money { return BRL(100).Multiply(3) }, BRL(300)},
		{"Negate", func() Money { return BRL(100).Negate() }, BRL(-100)},
		{"Abs positive", func() Money { return BRL(100).Abs() }, BRL(100)},
		{"Abs negative", func() Money { return BRL(-100).Abs() }, BRL(100)},
		{"Complex", func() Money {
			return BRL(1000).Add(BRL(500)).Multiply(2).Subtract(BRL(1000))
		}, BRL(2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMoneyScale(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		num, den int64
		expected Money
	}{
		{"Exact half", BRL(1000), 1, 2, BRL(500)},
		{"Third rounds down", BRL(1000), 1, 3, BRL(333)},
		{"Two thirds rounds up", BRL(1000), 2, 3, BRL(667)},
		{"Half cent rounds away", BRL(25), 1, 10, BRL(3)},  // 2.5 -> 3
		{"Negative half away", BRL(-25), 1, 10, BRL(-3)},   // -2.5 -> -3
		{"Just under half down", BRL(24), 1, 10, BRL(2)},   // 2.4 -> 2
		{"Percentage", BRL(123456), 15, 100, BRL(18518)},   // 15% of 1234.56 = 185.184 -> 185.18
		{"Identity", BRL(999), 1, 1, BRL(999)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.money.Scale(tt.num, tt.den)
			if !result.Equal(tt.expected) {
				t.Errorf("Scale(%d, %d): got %v, want %v", tt.num, tt.den, result, tt.expected)
			}
		})
	}
}

func TestMoneyScaleZeroDenominator(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for zero denominator")
		}
	}()

	_ = BRL(100).Scale(1, 0)
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	// This should panic
	_ = BRL(100).Add(USD(100))
}

func TestMoneyComparison(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Money
		compare int
	}{
		{"Equal", BRL(100), BRL(100), 0},
		{"Less", BRL(50), BRL(100), -1},
		{"Greater", BRL(200), BRL(100), 1},
		{"Zero equal", BRL(0), Zero("brl"), 0},
		{"Negative less", BRL(-100), BRL(100), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.compare {
				t.Errorf("Compare: got %d, want %d", got, tt.compare)
			}
			if got := tt.a.LessThan(tt.b); got != (tt.compare < 0) {
				t.Errorf("LessThan: got %v, want %v", got, tt.compare < 0)
			}
			if got := tt.a.GreaterThan(tt.b); got != (tt.compare > 0) {
				t.Errorf("GreaterThan: got %v, want %v", got, tt.compare > 0)
			}
			if got := tt.a.Equal(tt.b); got != (tt.compare == 0) {
				t.Errorf("Equal: got %v, want %v", got, tt.compare == 0)
			}
		})
	}
}

func TestMoneyMinMax(t *testing.T) {
	a, b := BRL(100), BRL(200)

	if got := a.Min(b); !got.Equal(a) {
		t.Errorf("Min: got %v, want %v", got, a)
	}
	if got := a.Max(b); !got.Equal(b) {
		t.Errorf("Max: got %v, want %v", got, b)
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		currency string
		expected int64
		wantErr  bool
	}{
		{"Plain dot decimal", "1234.56", "brl", 123456, false},
		{"Comma decimal", "1234,56", "brl", 123456, false},
		{"Dot grouping comma decimal", "1.234,56", "brl", 123456, false},
		{"Comma grouping dot decimal", "1,234.56", "usd", 123456, false},
		{"Integer only", "1234", "brl", 123400, false},
		{"Single decimal digit", "1234.5", "eur", 123450, false},
		{"Zero", "0", "brl", 0, false},
		{"Zero with decimals", "0,00", "brl", 0, false},
		{"Leading fraction", ".50", "brl", 50, false},
		{"Negative", "-10,50", "brl", -1050, false},
		{"Explicit plus", "+10.50", "brl", 1050, false},
		{"Whitespace trimmed", "  99,90  ", "brl", 9990, false},
		{"Yen no decimals", "1500", "jpy", 1500, false},
		{"Empty", "", "brl", 0, true},
		{"Bare sign", "-", "brl", 0, true},
		{"Letters", "12a,00", "brl", 0, true},
		{"Too many decimals", "1,234", "brl", 0, true},
		{"Yen with decimals", "15.00", "jpy", 0, true},
		{"Trailing separator", "123,", "brl", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input, tt.currency)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Amount != tt.expected {
				t.Errorf("Amount: got %d, want %d", got.Amount, tt.expected)
			}
			if got.Currency != strings.ToLower(tt.currency) {
				t.Errorf("Currency: got %s, want %s", got.Currency, strings.ToLower(tt.currency))
			}
		})
	}
}

func TestParseMoneyNoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 style values that misbehave in binary floating point must
	// survive a parse/add round trip exactly.
	a, err := ParseMoney("0,10", "brl")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseMoney("0,20", "brl")
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Add(b); got.Amount != 30 {
		t.Errorf("got %d centavos, want 30", got.Amount)
	}
}

func TestMoneyFormatMajor(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		expected string
	}{
		{"Two decimals", BRL(125000), "1250.00"},
		{"Small amount", BRL(5), "0.05"},
		{"Negative", BRL(-1050), "-10.50"},
		{"Yen", JPY(100), "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.FormatMajor(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(BRL(4900))
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded.Amount != 4900 {
		t.Errorf("Amount: got %d, want 4900", decoded.Amount)
	}
	if decoded.Currency != "brl" {
		t.Errorf("Currency: got %s, want brl", decoded.Currency)
	}
	if decoded.Display != "R$49.00" {
		t.Errorf("Display: got %s, want R$49.00", decoded.Display)
	}
}

func TestSum(t *testing.T) {
	tests := []struct {
		name     string
		values   []Money
		expected Money
	}{
		{"Empty", nil, Zero("brl")},
		{"Single", []Money{BRL(100)}, BRL(100)},
		{"Several", []Money{BRL(100), BRL(200), BRL(300)}, BRL(600)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sum(tt.values...); !got.Equal(tt.expected) {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}
