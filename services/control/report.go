package control

import "thermoblink-go/x/strconvx"

const (
	reportPrefix = "Temperature "
	reportSuffix = " Celcius\r\n"
	faultPrefix  = "Temperature sensor out of range (raw "
	faultSuffix  = ")\r\n"
)

// AppendReport appends "Temperature <c with 2 decimals> Celcius\r\n" to dst.
// NaN and infinities print as NaN, +Inf and -Inf.
func AppendReport(dst []byte, c float64) []byte {
	dst = append(dst, reportPrefix...)
	dst = strconvx.AppendFloat(dst, c, 'f', 2, 64)
	return append(dst, reportSuffix...)
}

// AppendFault appends the line written in place of a report when the
// sample sits on a rail and cannot be converted.
func AppendFault(dst []byte, raw uint16) []byte {
	dst = append(dst, faultPrefix...)
	dst = strconvx.AppendUint(dst, uint64(raw), 10)
	return append(dst, faultSuffix...)
}
