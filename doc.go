// Package udc is the rendering core of a controller for character displays:
// 16-segment LED displays built from WS281x chains, flipdot panels, serial
// split-flap units and IBIS destination signs.
//
// The root package holds no code. The work is split over these packages:
//
//	segfont    16-segment glyph tables and the LED ranges of each segment
//	charbuf    text to character buffer conversion
//	hsv, fx    colour conversion, gamma and Q20.12 fixed point helpers
//	pixbuf     1, 8 and 24 bit pixel buffers
//	ledmap     logical LED to pixel buffer table
//	bitmap     procedural generators painting the pixel buffer
//	shader     LED shaders, transitions and text effects
//	transport  asynchronous SPI and paced UART senders
//	display    frames, the renderer interface and the render loop
//	ws281x, flipdot, splitflap, ibis
//	           the renderers
//	config     JSON configuration
//
// # Display Characteristics
//
// - Segment displays: 49 LEDs per character, 12 bytes of SPI data per LED,
// optionally split over two SPI buses
// - Flipdot: up to 8 panels of 28 columns and 28 rows, one coil pulse per
// changed disc
// - Split-flap: up to 128 units on one serial line, position or BCD codes
// - IBIS: 1200 baud 7E2 text telegrams with XOR checksum
//
// # Hardware Connection
//
// Segment display on a Raspberry Pi:
//
//	Display      Raspberry Pi
//	GND          GND
//	5V           external supply
//	DIN          GPIO10 (SPI0 MOSI), through a 3.3V to 5V level shifter
//
// Flipdot controller:
//
//	Controller   Raspberry Pi
//	DATA         GPIO10 (SPI0 MOSI)
//	CLK          GPIO11 (SPI0 CLK)
//	LATCH        GPIO8 (SPI0 CE0)
//	PULSE        any GPIO line, given as chip and offset
//
// Split-flap and IBIS displays hang on a UART through the matching line
// driver (RS-485 or the IBIS current loop).
//
// # Basic Usage
//
//	package main
//
//	import (
//		"log"
//
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//
//		"github.com/flavioheleno/udc/charbuf"
//		"github.com/flavioheleno/udc/ledmap"
//		"github.com/flavioheleno/udc/shader"
//		"github.com/flavioheleno/udc/transport"
//		"github.com/flavioheleno/udc/ws281x"
//	)
//
//	func main() {
//		host.Init()
//
//		p, err := spireg.Open("")
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer p.Close()
//
//		t, err := transport.OpenSPI(p, ws281x.DefaultFrequency)
//		if err != nil {
//			log.Fatal(err)
//		}
//		dev, err := ws281x.New(t, ledmap.Reference, nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer dev.Halt()
//		dev.SetShader(shader.DefaultStatic)
//
//		b := charbuf.New(21, 2)
//		charbuf.ConvertString(b, "12.5 MIN", ' ')
//		dev.Draw(0, b, nil)
//	}
//
// # Differential Updates
//
// The flipdot, split-flap and IBIS renderers remember what the display shows
// and only send what changed. An identical frame costs no bus traffic. A
// failed transfer leaves the snapshot matching the hardware, so the next
// frame retries the rest.
//
// # Busy Transports
//
// A renderer never waits for a transfer started by a previous frame: when the
// transport is still busy the frame is dropped and Render returns nil.
//
// # Command
//
// cmd/udc runs the render loop from a JSON configuration. Use -preview to
// draw frames on the console without hardware.
package udc
