//go:build rp2040

package strconvx

// Same signatures as strconv, no allocation except FormatUint's string.
// Float formatting is fixed-point only ('f'); other verbs fall back to it.

func FormatUint(u uint64, base int) string { return string(appendUint(nil, u, base)) }

func ParseUint(s string, base, bitSize int) (uint64, error) { return parseUint(s, base, bitSize) }

func AppendUint(dst []byte, u uint64, base int) []byte { return appendUint(dst, u, base) }

func AppendFloat(dst []byte, f float64, _ byte, prec, _ int) []byte {
	return appendFixed(dst, f, prec)
}
