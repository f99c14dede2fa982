package boards

// Board describes the wiring the firmware relies on.
// These are plain GPIO numbers; mapping to machine.Pin happens in the platform.
type Board struct {
	Name string

	ADCPin  int // thermistor divider tap
	ADCBits uint8
	LEDPin  int

	UARTTX, UARTRX int
	Baud           uint32
}

// PicoDefault: divider on ADC0 (GP26), onboard LED on GP25, console on UART0.
var PicoDefault = Board{
	Name:    "pico_default",
	ADCPin:  26,
	ADCBits: 12,
	LEDPin:  25,
	UARTTX:  0,
	UARTRX:  1,
	Baud:    115200,
}
