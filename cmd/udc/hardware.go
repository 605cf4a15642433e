package main

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/conn/v3/uart/uartreg"

	"github.com/flavioheleno/udc/config"
	"github.com/flavioheleno/udc/display"
	"github.com/flavioheleno/udc/flipdot"
	"github.com/flavioheleno/udc/ibis"
	"github.com/flavioheleno/udc/internal/gpioline"
	"github.com/flavioheleno/udc/segfont"
	"github.com/flavioheleno/udc/splitflap"
	"github.com/flavioheleno/udc/transport"
	"github.com/flavioheleno/udc/ws281x"
)

// flipdotFrequency clocks the shift registers holding the control word.
const flipdotFrequency = physic.MegaHertz

type device interface {
	display.Renderer
	Halt() error
	String() string
}

// hardware is an opened display and the host resources behind it.
type hardware struct {
	dev device
	res closers
}

// Close halts the display and releases its resources.
func (h *hardware) Close() error {
	return errors.Join(h.dev.Halt(), h.res.Close())
}

// openHardware opens the buses named in cfg and the display on them.
func openHardware(cfg *config.Config, sc *scene) (*hardware, error) {
	h := &hardware{}
	dev, err := h.open(cfg, sc)
	if err != nil {
		h.res.Close()
		return nil, err
	}
	h.dev = dev
	return h, nil
}

func (h *hardware) open(cfg *config.Config, sc *scene) (device, error) {
	d := &cfg.Display
	switch d.Kind {
	case display.KindWS281x, display.KindWS281xDual:
		opts := &ws281x.Opts{
			Font:       segfont.ByName(d.Font),
			Brightness: d.Brightness,
			Gamma:      d.Gamma,
			Split:      d.Split,
			Frequency:  ws281x.DefaultFrequency,
			ResetGap:   ws281x.DefaultResetGap,
		}
		a, err := h.spi(cfg.Bus.SPI, ws281x.DefaultFrequency)
		if err != nil {
			return nil, err
		}
		var dev *ws281x.Dev
		if d.Kind == display.KindWS281xDual {
			b, err := h.spi(cfg.Bus.SPI2, ws281x.DefaultFrequency)
			if err != nil {
				return nil, err
			}
			dev, err = ws281x.NewDual(a, b, sc.m, opts)
			if err != nil {
				return nil, err
			}
		} else if dev, err = ws281x.New(a, sc.m, opts); err != nil {
			return nil, err
		}
		dev.SetShader(sc.shader)
		return dev, nil

	case display.KindFlipdot:
		t, err := h.spi(cfg.Bus.SPI, flipdotFrequency)
		if err != nil {
			return nil, err
		}
		pulse, err := gpioline.Open(cfg.Bus.Chip, cfg.Bus.PulseLine)
		if err != nil {
			return nil, err
		}
		h.res = append(h.res, pulse)
		return flipdot.New(t, pulse, &flipdot.Opts{
			Width:      d.Width,
			Height:     d.Height,
			PanelWidth: d.PanelWidth,
			PulseWidth: time.Duration(d.PulseWidth),
			SettleTime: time.Duration(d.SettleTime),
		})

	case display.KindSplitFlap:
		proto, err := splitflap.ParseProtocol(d.Protocol)
		if err != nil {
			return nil, err
		}
		line := proto.Line()
		t, err := h.uart(cfg.Bus.UART, &line)
		if err != nil {
			return nil, err
		}
		return splitflap.New(t, &splitflap.Opts{
			Protocol:  proto,
			Units:     d.Units,
			Addresses: d.AddressBytes(),
		})

	case display.KindIBIS:
		line := ibis.Line
		t, err := h.uart(cfg.Bus.UART, &line)
		if err != nil {
			return nil, err
		}
		return ibis.New(t, &ibis.Opts{Row: d.Row})
	}
	return nil, fmt.Errorf("unsupported display kind %v", d.Kind)
}

func (h *hardware) spi(name string, f physic.Frequency) (*transport.Async, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("spi %q: %w", name, err)
	}
	h.res = append(h.res, p)
	return transport.OpenSPI(p, f)
}

func (h *hardware) uart(name string, opts *transport.UARTOpts) (*transport.Paced, error) {
	p, err := uartreg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("uart %q: %w", name, err)
	}
	h.res = append(h.res, p)
	return transport.OpenUART(p, opts)
}
