//go:build darwin
// +build darwin

package coremidi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/pcspkr-midi/internal/seq"
	"github.com/leandrodaf/pcspkr-midi/sdk/contracts"
	"github.com/youpy/go-coremidi"
	"gitlab.com/gomidi/midi/v2"
)

// Error definitions for CoreMIDI setup.
var (
	ErrCreateInputPort      = errors.New("error creating input port")
	ErrIncompleteMIDIPacket = errors.New("incomplete MIDI packet")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// Source receives MIDI from every CoreMIDI source through one input port.
// Each source connection is reported as a subscription, since CoreMIDI has no
// notion of controllers subscribing to us.
type Source struct {
	*seq.Queue

	logger    contracts.Logger
	client    coremidi.Client
	inputPort coremidi.InputPort
	conns     []internalPortConnection
	name      string
	stopOnce  sync.Once
}

// Open creates the CoreMIDI client and input port and connects every source.
func Open(options *contracts.BridgeOptions) (contracts.EventSource, error) {
	client, err := coremidi.NewClient(options.ClientName)
	if err != nil {
		return nil, contracts.Startup("open sequencer", err)
	}
	if err != nil {
		return nil, contracts.Startup("open CoreMIDI client", err)
	}
	options.Logger.Info("MIDI client successfully created")

	s := &Source{
		Queue:  seq.NewQueue(options.QueueSize, options.Logger),
		logger: options.Logger,
		client: client,
		name:   options.PortName,
	}

	s.inputPort, err = coremidi.NewInputPort(client, options.PortName, s.handleMIDIMessage)
	if err != nil {
		return nil, contracts.Startup("create port", fmt.Errorf("%w: %v", ErrCreateInputPort, err))
	}

	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, contracts.Startup("list MIDI sources", err)
	}
	for _, source := range sources {
		conn, err := s.inputPort.Connect(source)
		if err != nil {
			s.logger.Warn("Could not connect MIDI source",
				s.logger.Field().String("source", source.Name()),
				s.logger.Field().Error("error", err))
			continue
		}
		s.conns = append(s.conns, conn)
		s.Push(contracts.Event{
			Kind: contracts.EventSubscribed,
			Peer: contracts.Address{Client: -1, Name: source.Name()},
		})
	}
	return s, nil
}

// Address returns the input port name.
func (s *Source) Address() contracts.Address {
	return contracts.Address{Client: -1, Name: s.name}
}

// handleMIDIMessage classifies incoming packets and queues them for the loop.
func (s *Source) handleMIDIMessage(source coremidi.Source, packet coremidi.Packet) {
	if len(packet.Data) == 0 {
		s.logger.Warn(ErrIncompleteMIDIPacket.Error())
		return
	}
	ev := seq.FromMessage(midi.Message(packet.Data))
	if ev.Kind == contracts.EventOther {
		ev.Detail = fmt.Sprintf("%s from %s", ev.Detail, source.Name())
	}
	s.Push(ev)
}

// Close disconnects all sources and stops the queue. Only the first call acts.
func (s *Source) Close() error {
	s.stopOnce.Do(func() {
		for _, conn := range s.conns {
			conn.Disconnect()
		}
		s.conns = nil
		s.Shutdown()
		s.logger.Info("MIDI capture stopped")
	})
	return nil
}
