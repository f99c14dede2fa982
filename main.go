package main

import (
	"context"
	"time"

	"thermoblink-go/errcode"
	"thermoblink-go/internal/platform"
	"thermoblink-go/internal/platform/boards"
	"thermoblink-go/services/control"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	res, err := platform.Setup(boards.PicoDefault)
	if err != nil {
		halt(nil, err)
	}

	loop, err := control.New(control.Config{}, res.ADC, res.LED, res.Console, res.Clock)
	if err != nil {
		halt(res.LED, err)
	}

	// Run only returns on an unreadable sensor.
	halt(res.LED, loop.Run(context.Background()))
}

// halt reports a fatal error and parks the core. Nothing is sampled or
// blinked again until reset.
func halt(led control.DigitalOutput, err error) {
	if led != nil {
		led.Set(false)
	}
	if err == nil {
		err = errcode.Error
	}
	println("fatal:", string(errcode.Of(err)), err.Error())
	select {}
}
