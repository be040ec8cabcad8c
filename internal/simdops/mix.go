package simdops

// AccumulateShifted adds src·gain into dst starting at dst[shift].
//
// Contributions that would land at or past len(dst) are dropped; nothing
// wraps around. scratch must hold at least len(src) elements and is
// overwritten. A negative shift is treated as zero.
func AccumulateShifted[F Float](dst, src, scratch []F, gain F, shift int) {
	if shift < 0 {
		shift = 0
	}
	if shift >= len(dst) {
		return
	}

	n := min(len(src), len(dst)-shift)
	if n == 0 {
		return
	}

	scaled := scratch[:n]
	For[F]().Scale(scaled, src[:n], gain)

	out := dst[shift : shift+n]
	for i, v := range scaled {
		out[i] += v
	}
}

// Interleave converts two equal-length planar channels to [L0, R0, L1, R1, ...].
// The shorter length wins if they differ.
func Interleave[F Float](left, right []F) []F {
	n := min(len(left), len(right))
	out := make([]F, 2*n)
	if n > 0 {
		For[F]().Interleave2(out, left[:n], right[:n])
	}
	return out
}

// Energy returns Σ x².
func Energy[F Float](x []F) F {
	if len(x) == 0 {
		return 0
	}
	return For[F]().DotProductUnsafe(x, x)
}

// Mean returns the arithmetic mean of x, or 0 when x is empty.
func Mean[F Float](x []F) F {
	if len(x) == 0 {
		return 0
	}
	return For[F]().Sum(x) / F(len(x))
}
