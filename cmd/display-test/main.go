package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/hauntedmirror/conn"
	"github.com/BeatGlow/hauntedmirror/controller"
	"github.com/BeatGlow/hauntedmirror/display"
	"github.com/BeatGlow/hauntedmirror/pixel"
)

const stripeHeight = 8

func main() {
	widthFlag := flag.Int("width", 240, "Display width")
	heightFlag := flag.Int("height", 240, "Display height")
	sizeFlag := flag.Int("size", 160, "Test pattern size, centered on the display")
	bgrFlag := flag.Bool("bgr", false, "Panel expects BGR pixels")
	portFlag := flag.String("spi", "", "SPI port (default: use first available)")
	speedFlag := flag.Uint("speed", uint(conn.DefaultSPIConfig.SpeedHz), "SPI speed in Hz")
	resetPinFlag := flag.String("reset", "GPIO27", "Reset GPIO pin")
	dcPinFlag := flag.String("dc", "GPIO25", "Data/Command GPIO pin (DC)")
	csPinFlag := flag.String("cs", "", "Chip select GPIO pin (default: driven by the SPI port)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <controller>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Supported controllers: %s\n", strings.Join(controller.Names(), ", "))
		os.Exit(1)
	}

	ctlr, err := controller.ByName(flag.Arg(0))
	if err != nil {
		fatal(err)
	}
	if *sizeFlag <= 0 || *sizeFlag%stripeHeight != 0 {
		fatal(fmt.Errorf("pattern size must be a multiple of %d", stripeHeight))
	}

	if _, err = host.Init(); err != nil {
		fatal(err)
	}

	bus, err := conn.OpenSPI(&conn.SPIConfig{
		Port:       *portFlag,
		SpeedHz:    uint32(*speedFlag),
		Mode:       conn.DefaultSPIConfig.Mode,
		Reset:      gpioreg.ByName(*resetPinFlag),
		DC:         gpioreg.ByName(*dcPinFlag),
		CS:         gpioreg.ByName(*csPinFlag),
		Controller: ctlr,
	})
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using connection: %s\n", bus)

	output, err := display.New(bus, &display.Config{
		Width:  *widthFlag,
		Height: *heightFlag,
	})
	if err != nil {
		fatal(err)
	}
	defer output.Close()
	fmt.Printf("using display: %s\n", output)

	channel := pixel.RGB
	if *bgrFlag {
		channel = pixel.BGR
	}

	// Paint the whole panel dark gray so the pattern bounds are visible.
	border := pixel.NewRGB565Image(*widthFlag, stripeHeight, channel)
	border.Fill(color.Gray{Y: 0x20})
	output.BeginFrame(*widthFlag, *heightFlag, 0, 0)
	var last display.TransactionID
	for y := 0; y < *heightFlag; y += stripeHeight {
		if last, err = output.SendStripe(y, min(stripeHeight, *heightFlag-y), border.Pix); err != nil {
			fatal(err)
		}
	}
	output.EndFrame()
	if err = output.AwaitTransaction(last); err != nil {
		fatal(err)
	}

	var (
		offset  int
		size    = *sizeFlag
		pattern = pixel.NewRGB565Image(size, size, channel)
		ticker  = time.NewTicker(50 * time.Millisecond)
	)
	defer ticker.Stop()

	fmt.Println("hit control-c to stop...")
	for {
		// The previous frame must be on the glass before the pattern is redrawn.
		if err = output.AwaitAll(); err != nil {
			fatal(err)
		}

		// Draw box around edge, gradient inside.
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				if x == 0 || y == 0 || x == size-1 || y == size-1 {
					pattern.Set(x, y, color.White)
					continue
				}
				pattern.Set(x, y, color.RGBA{
					R: uint8(x + y + offset),
					G: uint8(x - y + offset),
					B: uint8(x + y - offset),
					A: 0xff,
				})
			}
		}

		output.BeginFrameCentered(size, size)
		for y := 0; y < size; y += stripeHeight {
			if _, err = output.SendStripe(y, stripeHeight, pattern.Rows(y, stripeHeight)); err != nil {
				fatal(err)
			}
		}
		output.EndFrame()

		offset++
		<-ticker.C
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
