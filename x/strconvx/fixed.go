package strconvx

import "math"

// Allocation-free formatting used by the rp2040 build. Kept untagged so
// the host tests run it directly.
// Supported bases: 2..36 for the integer forms.

const digits = "0123456789abcdefghijklmnopqrstuvwxyz"

func appendUint(dst []byte, u uint64, base int) []byte {
	if base < 2 || base > 36 {
		base = 10
	}
	if u == 0 {
		return append(dst, '0')
	}
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for u > 0 {
		i--
		buf[i] = digits[u%b]
		u /= b
	}
	return append(dst, buf[i:]...)
}

type parseError struct{}

func (parseError) Error() string { return "invalid syntax" }

type rangeError struct{}

func (rangeError) Error() string { return "value out of range" }

// bitSize: 0,8,16,32,64 like strconv. 0 => 64 here.
func parseUint(s string, base, bitSize int) (uint64, error) {
	if len(s) == 0 {
		return 0, parseError{}
	}
	if base < 2 || base > 36 {
		base = 10
	}
	if bitSize == 0 {
		bitSize = 64
	}
	var limit uint64 = 1<<uint(bitSize) - 1
	if bitSize == 64 {
		limit = math.MaxUint64
	}
	var n uint64
	b := uint64(base)
	for i := 0; i < len(s); i++ {
		d := digitVal(s[i])
		if d >= b {
			return 0, parseError{}
		}
		if n > (limit-d)/b {
			return 0, rangeError{}
		}
		n = n*b + d
	}
	return n, nil
}

func digitVal(c byte) uint64 {
	switch {
	case '0' <= c && c <= '9':
		return uint64(c - '0')
	case 'a' <= c && c <= 'z':
		return uint64(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return uint64(c-'A') + 10
	}
	return 36
}

// appendFixed writes f in fixed-point notation with prec fractional digits.
// NaN and infinities are spelled the way strconv spells them.
// Magnitudes beyond 1e18 are written as infinities.
func appendFixed(dst []byte, f float64, prec int) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, 1) || f >= 1e18:
		return append(dst, "+Inf"...)
	case math.IsInf(f, -1) || f <= -1e18:
		return append(dst, "-Inf"...)
	}
	if prec < 0 {
		prec = 6
	}
	if prec > 9 {
		prec = 9
	}
	if math.Signbit(f) {
		dst = append(dst, '-')
		f = -f
	}
	pow := uint64(1)
	for i := 0; i < prec; i++ {
		pow *= 10
	}
	intp := uint64(f)
	fracN := uint64((f-float64(intp))*float64(pow) + 0.5)
	if fracN >= pow {
		intp++
		fracN -= pow
	}
	dst = appendUint(dst, intp, 10)
	if prec == 0 {
		return dst
	}
	dst = append(dst, '.')
	// zero-pad fractional part
	for p := pow / 10; p > 1 && fracN < p; p /= 10 {
		dst = append(dst, '0')
	}
	if fracN == 0 {
		return append(dst, '0')
	}
	return appendUint(dst, fracN, 10)
}
