// Command pcspkr-midi turns the PC speaker into a MIDI device.
//
// It registers a sequencer port and plays every incoming note on the speaker,
// one tone at a time:
//
//	$ sudo modprobe pcspkr
//	$ pcspkr-midi
//	$ aconnect <keyboard> pcspkr-midi
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/leandrodaf/pcspkr-midi/internal/logger"
	"github.com/leandrodaf/pcspkr-midi/internal/shutdown"
	"github.com/leandrodaf/pcspkr-midi/sdk/bridge"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
)

func main() {
	var (
		client   = flag.String("client", bridge.DefaultName, "sequencer client name")
		port     = flag.String("port", bridge.DefaultName, "sequencer port name")
		source   = flag.String("source", "", "event source backend: "+strings.Join(bridge.Backends(), ", ")+" (default by OS)")
		toneName = flag.String("tone", "", "tone backend: evdev, console, serial (default by OS)")
		device   = flag.String("device", "", "tone device node or serial port")
		baud     = flag.Int("baud", 0, "serial baud rate for the serial tone backend")
		timeout  = flag.Duration("timeout", contracts.DefaultPollTimeout, "how often the loop checks for shutdown")
		level    = flag.String("log-level", "info", "log level: debug, info, warn, error")
		logFile  = flag.String("log-file", "", "write logs to this file instead of stderr")
	)
	flag.Parse()

	logLevel, ok := contracts.ParseLogLevel(*level)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown log level %q\n", *level)
		os.Exit(2)
	}

	log := logger.NewZapLogger()

	ctrl := shutdown.New()
	ctrl.Install()
	defer ctrl.Stop()

	b, err := bridge.New(ctrl,
		contracts.WithLogger(log),
		contracts.WithLogLevel(logLevel),
		contracts.WithLogFile(*logFile),
		contracts.WithClientName(*client),
		contracts.WithPortName(*port),
		contracts.WithSourceBackend(*source),
		contracts.WithToneBackend(*toneName),
		contracts.WithToneDevice(*device),
		contracts.WithSerialBaud(*baud),
		contracts.WithPollTimeout(*timeout),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Opened MIDI client:port %s\n", b.Address())
	fmt.Fprintf(os.Stderr, "Found %s\n", b.Device())

	start := time.Now()
	if err := b.Run(); err != nil {
		log.Error("Bridge stopped with an error", log.Field().Error("error", err))
		ctrl.Stop()
		os.Exit(1)
	}
	log.Debug("Bridge stopped", log.Field().Duration("uptime", time.Since(start)))
}
