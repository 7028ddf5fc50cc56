// Command mkframes converts a sequence of images into a raw animation reel.
//
// Usage:
//
//	mkframes -o soul_f.raw [flags] frame_000.png frame_001.png ...
//
// Frames are written in argument order.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/BeatGlow/hauntedmirror/pixel"
)

func main() {
	outputFlag := flag.String("o", "", "Output reel file")
	widthFlag := flag.Int("width", 240, "Frame width")
	heightFlag := flag.Int("height", 240, "Frame height")
	formatFlag := flag.String("format", pixel.RGB.String(), "Pixel format: rgb565 or bgr565")
	paddingFlag := flag.Int("padding", 4096, "Pad the reel with 0xff to a multiple of this many bytes, 0 to disable")
	verboseFlag := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verboseFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *outputFlag == "" || flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s -o <reel> [flags] <image>...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	o := &options{
		width:   *widthFlag,
		height:  *heightFlag,
		padding: *paddingFlag,
	}
	switch *formatFlag {
	case pixel.RGB.String():
		o.order = pixel.RGB
	case pixel.BGR.String():
		o.order = pixel.BGR
	default:
		log.Fatal().Str("format", *formatFlag).Msg("unsupported pixel format")
	}
	if o.width <= 0 || o.height <= 0 || o.padding < 0 {
		log.Fatal().Int("width", o.width).Int("height", o.height).Int("padding", o.padding).Msg("invalid frame geometry")
	}

	frames, err := convert(afero.NewOsFs(), flag.Args(), *outputFlag, o)
	if err != nil {
		log.Fatal().Err(err).Msg("conversion failed")
	}
	log.Info().Str("reel", *outputFlag).Int("frames", frames).Stringer("format", o.order).Msg("reel written")
}
