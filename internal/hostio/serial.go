package hostio

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"thermoblink-go/drivers/ntc"
	"thermoblink-go/errcode"
	"thermoblink-go/x/strconvx"
)

const (
	// DefaultReadTimeout bounds one request/response exchange.
	DefaultReadTimeout = time.Second

	requestByte = 'r'
	maxLine     = 16
)

// SerialSampler asks an ADC bridge board for one conversion per Read.
// The bridge answers a single 'r' byte with "<count>\n" (optionally "\r\n").
// Input left over from an earlier exchange is discarded before each request
// so a late answer is never taken for the current one.
type SerialSampler struct {
	port  io.ReadWriter
	line  [maxLine]byte
	stale bool // last exchange did not end on a complete line
}

// inputResetter is implemented by serial.Port.
type inputResetter interface {
	ResetInputBuffer() error
}

// OpenSerial opens name at baud and returns a sampler plus a closer for the port.
func OpenSerial(name string, baud int) (*SerialSampler, io.Closer, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	if err := port.SetReadTimeout(DefaultReadTimeout); err != nil {
		port.Close()
		return nil, nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, nil, fmt.Errorf("failed to reset input buffer: %w", err)
	}
	return NewSerialSampler(port), port, nil
}

// NewSerialSampler wraps an already-open port. A Read returning (0, nil)
// is treated as a timeout, matching go.bug.st/serial.
func NewSerialSampler(port io.ReadWriter) *SerialSampler {
	return &SerialSampler{port: port}
}

func (s *SerialSampler) Read() (uint16, error) {
	if err := s.discard(); err != nil {
		return 0, err
	}
	if _, err := s.port.Write([]byte{requestByte}); err != nil {
		return 0, &errcode.E{C: errcode.SensorRead, Op: "serial", Msg: "request", Err: err}
	}
	line, err := s.readLine()
	if err != nil {
		s.stale = true
		return 0, err
	}
	s.stale = false
	v, err := strconvx.ParseUint(string(line), 10, 16)
	if err != nil {
		return 0, &errcode.E{C: errcode.SensorRead, Op: "serial", Msg: "bad sample " + string(line), Err: err}
	}
	if v > ntc.VMax {
		return 0, &errcode.E{C: errcode.SensorRead, Op: "serial", Msg: "sample above full scale " + string(line)}
	}
	return uint16(v), nil
}

// discard drops pending input. Ports without ResetInputBuffer are drained
// until they time out, which is only done after a failed exchange.
func (s *SerialSampler) discard() error {
	if r, ok := s.port.(inputResetter); ok {
		if err := r.ResetInputBuffer(); err != nil {
			return &errcode.E{C: errcode.SensorRead, Op: "serial", Msg: "reset input", Err: err}
		}
		return nil
	}
	if !s.stale {
		return nil
	}
	var b [maxLine]byte
	for {
		m, err := s.port.Read(b[:])
		if err != nil {
			return &errcode.E{C: errcode.SensorRead, Op: "serial", Err: err}
		}
		if m == 0 {
			return nil
		}
	}
}

func (s *SerialSampler) readLine() ([]byte, error) {
	n := 0
	var b [1]byte
	for {
		m, err := s.port.Read(b[:])
		if err != nil {
			return nil, &errcode.E{C: errcode.SensorRead, Op: "serial", Err: err}
		}
		if m == 0 {
			return nil, &errcode.E{C: errcode.SensorRead, Op: "serial", Err: errcode.Timeout}
		}
		switch c := b[0]; c {
		case '\r':
		case '\n':
			return s.line[:n], nil
		default:
			if n == len(s.line) {
				return nil, &errcode.E{C: errcode.SensorRead, Op: "serial", Msg: "line too long"}
			}
			s.line[n] = c
			n++
		}
	}
}
