package fixedpoint

import "testing"

func mustFrac(t *testing.T, num, den int64) Decimal {
	t.Helper()
	d, err := NewFromFraction(num, den)
	if err != nil {
		t.Fatalf("NewFromFraction(%d, %d): %v", num, den, err)
	}
	return d
}

func TestRoundCeilFloorHalfEven(t *testing.T) {
	cases := []struct {
		name   string
		value  Decimal
		mode   RoundMode
		places int32
		want   string
	}{
		{"ceil up", mustFrac(t, 1, 3), Ceil, 2, "0.34"},
		{"floor down", mustFrac(t, 1, 3), Floor, 2, "0.33"},
		{"half even tie down", mustFrac(t, 25, 1000), HalfEven, 2, "0.02"},
		{"half even tie up", mustFrac(t, 15, 1000), HalfEven, 2, "0.02"},
		{"ceil exact stays exact", mustFrac(t, 1, 4), Ceil, 2, "0.25"},
		{"floor negative rounds down", mustFrac(t, -1, 3), Floor, 2, "-0.34"},
		{"ceil negative rounds up", mustFrac(t, -1, 3), Ceil, 2, "-0.33"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.value.Round(tc.mode, tc.places).ToDecimalStringRound(tc.mode, tc.places)
			if got != tc.want {
				t.Fatalf("Round(%v,%d) = %s, want %s", tc.mode, tc.places, got, tc.want)
			}
		})
	}
}

func TestDivRoundDivisionByZero(t *testing.T) {
	_, err := One.Quo(Zero)
	if err == nil {
		t.Fatal("expected DomainError dividing by zero")
	}
	var domainErr DomainError
	if _, ok := asDomainError(err); !ok {
		t.Fatalf("expected DomainError type, got %T: %v", err, err)
	}
	_ = domainErr
}

func asDomainError(err error) (DomainError, bool) {
	de, ok := err.(DomainError)
	return de, ok
}

func TestIntPow(t *testing.T) {
	two := NewFromInt64(2)
	got := two.IntPow(10)
	want := NewFromInt64(1024)
	if !got.Equal(want) {
		t.Fatalf("2^10 = %s, want %s", got.String(), want.String())
	}
	one := two.IntPow(0)
	if !one.Equal(One) {
		t.Fatalf("2^0 = %s, want 1", one.String())
	}
}

func TestSqrt(t *testing.T) {
	four := NewFromInt64(4)
	got, err := four.Sqrt(HalfEven, 10)
	if err != nil {
		t.Fatalf("sqrt(4): %v", err)
	}
	want := NewFromInt64(2)
	if !got.Equal(want) {
		t.Fatalf("sqrt(4) = %s, want 2", got.String())
	}

	two := NewFromInt64(2)
	root, err := two.Sqrt(Ceil, 20)
	if err != nil {
		t.Fatalf("sqrt(2): %v", err)
	}
	squared := root.Mul(root)
	if squared.LessThan(two) {
		t.Fatalf("ceil-rounded sqrt(2)^2 = %s should be >= 2", squared.String())
	}

	if _, err := NewFromInt64(-1).Sqrt(Ceil, 10); err == nil {
		t.Fatal("expected DomainError for sqrt of negative value")
	}
}

func TestFromDecimalStringRoundTrip(t *testing.T) {
	d, err := FromDecimalString("123.456000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := d.ToDecimalString(6)
	if got != "123.456000" {
		t.Fatalf("got %s, want 123.456000", got)
	}
}

func TestFromDecimalStringInvalid(t *testing.T) {
	if _, err := FromDecimalString("not-a-number"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPowEpsilonAddsDownwardMargin(t *testing.T) {
	base := mustFrac(t, 1, 2)
	exp := NewFromInt64(1)
	got := base.PowEpsilon(exp)
	if got.LessThan(base) {
		t.Fatalf("PowEpsilon(0.5,1) = %s should be >= 0.5 after epsilon", got.String())
	}
}

func TestDecimalJSONRoundTripExact(t *testing.T) {
	d := mustFrac(t, 1, 3)
	bz, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var got Decimal
	if err := got.UnmarshalJSON(bz); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if got.Cmp(d) != 0 {
		t.Fatalf("round trip lost precision: got %s, want %s", got.String(), d.String())
	}
}

func TestDecimalUnmarshalJSONPlainDecimal(t *testing.T) {
	var got Decimal
	if err := got.UnmarshalJSON([]byte(`"1.5"`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if got.ToDecimalString(1) != "1.5" {
		t.Fatalf("got %s, want 1.5", got.ToDecimalString(1))
	}
}
