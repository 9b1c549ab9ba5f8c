package numfmt

import (
	"errors"
	"math"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		spec string
		in   float64
		want string
	}{
		{",", 1234567.891, "1,234,567.891"},
		{".2f", 3.14159, "3.14"},
		{"$,.2f", -1234.5, "−$1,234.50"},
		{"+.1%", 0.123, "+12.3%"},
		{".0%", 0.5, "50%"},
		{".3s", 1234, "1.23k"},
		{"~s", 1500, "1.5k"},
		{".2s", 0.00042, "420µ"},
		{".3s", 1.5e9, "1.50G"},
		{".1s", 2e24, "2Y"},
		{"08.2f", -3.5, "−0003.50"},
		{"#x", 255, "0xff"},
		{"X", 255, "FF"},
		{"b", 5, "101"},
		{"o", 8, "10"},
		{"e", 12345, "1.234500e+4"},
		{"d", 2.5, "3"},
		{",d", 1e6, "1,000,000"},
		{"", 0.1 + 0.2, "0.3"},
		{"", 42, "42"},
		{"(.1f", -2, "(2.0)"},
		{".1f", -0.01, "0.0"},
		{"<8d", 42, "42      "},
		{"^7d", 42, "  42   "},
		{"*>6d", 7, "*****7"},
		{"010,d", 1234567, "01,234,567"},
		{".2r", 1234.5, "1200"},
		{".3p", 0.12345, "12.3%"},
		{".3~g", 0.0000001234, "1.23e-7"},
		{".4g", 0.001234, "0.001234"},
		{"c", 65, "65"},
		{",.2f", math.NaN(), "NaN"},
		{".2f", 1.005, "1.00"},
		{".0f", 2.5, "3"},
		{".1f", 999.96, "1000.0"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Format(tt.spec, tt.in)
			if err != nil {
				t.Fatalf("Format(%q) error = %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.spec, tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSpecifier(t *testing.T) {
	s, err := ParseSpecifier("*^+$012,.3~f")
	if err != nil {
		t.Fatalf("ParseSpecifier() error = %v", err)
	}
	want := Specifier{Fill: "*", Align: '^', Sign: '+', Symbol: '$', Zero: true, Width: 12, Comma: true, Precision: 3, Trim: true, Type: 'f'}
	if s != want {
		t.Errorf("ParseSpecifier() = %+v, want %+v", s, want)
	}
	if got := s.String(); got != "*^+$012,.3~f" {
		t.Errorf("String() = %q", got)
	}

	for _, bad := range []string{"abc", ".f", "10.2ff", ".2ff", "$$"} {
		_, err := ParseSpecifier(bad)
		var invalid InvalidSpecifierError
		if !errors.As(err, &invalid) {
			t.Errorf("ParseSpecifier(%q) error = %v, want InvalidSpecifierError", bad, err)
		}
	}
}

func TestPrecision(t *testing.T) {
	if got := PrecisionFixed(0.05); got != 2 {
		t.Errorf("PrecisionFixed(0.05) = %d, want 2", got)
	}
	if got := PrecisionFixed(10); got != 0 {
		t.Errorf("PrecisionFixed(10) = %d, want 0", got)
	}
	if got := PrecisionRound(0.01, 1.01); got != 3 {
		t.Errorf("PrecisionRound(0.01, 1.01) = %d, want 3", got)
	}
	if got := PrecisionPrefix(1e5, 1.3e6); got != 1 {
		t.Errorf("PrecisionPrefix(1e5, 1.3e6) = %d, want 1", got)
	}
}

func TestNewPrefix(t *testing.T) {
	s, _ := ParseSpecifier(",.0")
	f := NewPrefix(s, 1e-6)
	if got := f(0.00042); got != "420µ" {
		t.Errorf("prefix format = %q, want 420µ", got)
	}
	s, _ = ParseSpecifier(".1")
	f = NewPrefix(s, 2e6)
	if got := f(1.5e6); got != "1.5M" {
		t.Errorf("prefix format = %q, want 1.5M", got)
	}
}

func BenchmarkFormat(b *testing.B) {
	f, err := New("$,.2f")
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f(float64(i) * 1.5)
	}
}
