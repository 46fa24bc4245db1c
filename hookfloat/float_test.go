// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hookfloat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eatozee/xrpld-hooks/hookapi"
)

func TestSetNormalizes(t *testing.T) {
	require := require.New(t)

	f := Set(0, 1)
	require.GreaterOrEqual(f, int64(0))
	require.Equal(MinMantissa, Mantissa(f))
	require.Equal(int64(-15), Exponent(f))
	require.False(IsNegative(f))

	f = Set(0, -1)
	require.GreaterOrEqual(f, int64(0))
	require.Equal(MinMantissa, Mantissa(f))
	require.True(IsNegative(f))

	require.Equal(int64(0), Set(10, 0))
}

func TestSetUnderOverflow(t *testing.T) {
	require := require.New(t)

	require.Equal(hookapi.INVALID_FLOAT, Set(MinExponent, 1))
	require.Equal(hookapi.INVALID_FLOAT, Set(MaxExponent, MaxMantissa*10/9))
}

func TestCanonicalRangeInvariant(t *testing.T) {
	require := require.New(t)

	cases := []struct {
		exp int32
		man int64
	}{
		{0, 1},
		{-6, 1},
		{-6, 999},
		{5, 123456789},
		{-30, -987654321987654},
		{20, MaxMantissa},
		{-96, MinMantissa},
		{80, MinMantissa},
	}
	for _, tc := range cases {
		f := Set(tc.exp, tc.man)
		require.GreaterOrEqual(f, int64(0), "set(%d, %d)", tc.exp, tc.man)
		if f == 0 {
			continue
		}
		m, e := Mantissa(f), Exponent(f)
		require.GreaterOrEqual(m, MinMantissa)
		require.LessOrEqual(m, MaxMantissa)
		require.GreaterOrEqual(e, int64(MinExponent))
		require.LessOrEqual(e, int64(MaxExponent))
	}
}

func TestSignHelpers(t *testing.T) {
	require := require.New(t)

	f := Set(-6, 5)
	require.Equal(int64(0), Sign(f))
	n := Negate(f)
	require.Equal(int64(1), Sign(n))
	require.Equal(f, Negate(n))
	require.Equal(int64(0), Negate(0))
}

func TestOne(t *testing.T) {
	require := require.New(t)

	one := One()
	require.Equal(MinMantissa, Mantissa(one))
	require.Equal(int64(-15), Exponent(one))
	require.Equal(int64(1_000_000), Int(one, 0, false))
}

func TestIntRescaling(t *testing.T) {
	require := require.New(t)

	// 2.5 -> 2500000 at 6 implied decimals
	f := Set(-1, 25)
	require.Equal(int64(2_500_000), Int(f, 0, false))

	neg := Set(-1, -25)
	require.Equal(hookapi.CANT_RETURN_NEGATIVE, Int(neg, 0, false))
	require.Equal(int64(2_500_000), Int(neg, 0, true))

	require.Equal(hookapi.INVALID_ARGUMENT, Int(f, 16, false))
	require.Equal(hookapi.INVALID_FLOAT, Int(Set(30, 1), 0, false))
}

func TestMultiply(t *testing.T) {
	require := require.New(t)

	two := Set(0, 2)
	three := Set(0, 3)
	require.Equal(Set(0, 6), Multiply(two, three))

	// signs
	require.Equal(Set(0, -6), Multiply(Negate(two), three))
	require.Equal(Set(0, 6), Multiply(Negate(two), Negate(three)))

	require.Equal(int64(0), Multiply(two, 0))
	require.Equal(hookapi.INVALID_FLOAT, Multiply(-1, two))

	big := Set(70, MaxMantissa)
	require.Equal(hookapi.OVERFLOW, Multiply(big, big))
}

func TestMultiplyPrecision(t *testing.T) {
	require := require.New(t)

	// 1234567.890123456 * 2 = 2469135.780246912
	a := Set(-9, 1234567890123456)
	b := Set(0, 2)
	require.Equal(Set(-9, 2469135780246912), Multiply(a, b))
}

func TestMulRatio(t *testing.T) {
	require := require.New(t)

	f := Set(0, 100)
	require.Equal(Set(0, 50), MulRatio(f, false, 1, 2))
	require.Equal(hookapi.DIVISION_BY_ZERO, MulRatio(f, false, 1, 0))
	require.Equal(int64(0), MulRatio(0, false, 1, 2))

	// 1/3 with and without rounding
	one := Set(0, 1)
	down := MulRatio(one, false, 1, 3)
	up := MulRatio(one, true, 1, 3)
	require.Equal(int64(1), Compare(up, down, hookapi.CompareGreater))
}

func TestDivide(t *testing.T) {
	require := require.New(t)

	six := Set(0, 6)
	two := Set(0, 2)
	require.Equal(Set(0, 3), Divide(six, two))
	require.Equal(hookapi.DIVISION_BY_ZERO, Divide(six, 0))
	require.Equal(int64(0), Divide(0, two))

	third := Divide(Set(0, 1), Set(0, 3))
	require.Equal(int64(3333333333333330), Mantissa(third))
	require.Equal(int64(-16), Exponent(third))
}

func TestInvert(t *testing.T) {
	require := require.New(t)

	require.Equal(Set(0, 2), Invert(Set(-1, 5)))
	require.Equal(hookapi.DIVISION_BY_ZERO, Invert(0))
	require.Equal(One(), Invert(One()))
}

func TestSum(t *testing.T) {
	require := require.New(t)

	two := Set(0, 2)
	three := Set(0, 3)
	require.Equal(Set(0, 5), Sum(two, three))
	require.Equal(two, Sum(two, 0))
	require.Equal(three, Sum(0, three))
	require.Equal(int64(0), Sum(two, Negate(two)))

	// differing exponents
	require.Equal(Set(-1, 25), Sum(two, Set(-1, 5)))
}

func TestCompare(t *testing.T) {
	require := require.New(t)

	two := Set(0, 2)
	three := Set(0, 3)

	require.Equal(int64(1), Compare(two, three, hookapi.CompareLess))
	require.Equal(int64(0), Compare(two, three, hookapi.CompareGreater))
	require.Equal(int64(1), Compare(two, two, hookapi.CompareEqual))
	require.Equal(int64(1), Compare(two, three, hookapi.CompareLess|hookapi.CompareGreater))
	require.Equal(int64(0), Compare(two, two, hookapi.CompareLess|hookapi.CompareGreater))
	require.Equal(int64(1), Compare(Negate(two), two, hookapi.CompareLess))
	require.Equal(int64(1), Compare(0, two, hookapi.CompareLess))
	require.Equal(int64(1), Compare(0, Negate(two), hookapi.CompareGreater))

	require.Equal(hookapi.INVALID_ARGUMENT, Compare(two, three, 0))
	require.Equal(hookapi.INVALID_ARGUMENT, Compare(two, three, 7))
}

func TestValidateRejectsMangled(t *testing.T) {
	require := require.New(t)

	require.False(Validate(-5))
	require.True(Validate(0))
	require.True(Validate(Set(0, 42)))

	// in-range exponent but mantissa below canonical minimum
	mangled := SetExponent(SetMantissa(0, 5), 0)
	require.False(Validate(mangled))
}
