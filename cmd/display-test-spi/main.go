package main

import (
	"flag"
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/hauntedmirror/conn"
	"github.com/BeatGlow/hauntedmirror/controller"
)

func main() {
	portFlag := flag.String("spi", "", "SPI port (default: use first available)")
	controllerFlag := flag.String("controller", controller.GC9A01.Name, "Display controller")
	resetPinFlag := flag.String("reset", "GPIO27", "Reset GPIO pin")
	dcPinFlag := flag.String("dc", "GPIO25", "Data/Command GPIO pin (DC)")
	decodeFlag := flag.Bool("decode", false, "Only print the controller init string")
	flag.Parse()

	ctlr, err := controller.ByName(*controllerFlag)
	if err != nil {
		log.Fatalln("controller: ", err)
	}

	commands, err := controller.Decode(ctlr.InitString)
	if err != nil {
		log.Fatalln("init string: ", err)
	}
	fmt.Printf("%s: %d init commands\n", ctlr, len(commands))
	for _, c := range commands {
		if c.HasDelay {
			fmt.Printf("  %#02x % x (delay %s)\n", c.Cmd, c.Data, c.Delay)
		} else {
			fmt.Printf("  %#02x % x\n", c.Cmd, c.Data)
		}
	}
	if *decodeFlag {
		return
	}

	if _, err = host.Init(); err != nil {
		log.Fatalln("host init failed: ", err)
	}
	c, err := conn.OpenSPI(&conn.SPIConfig{
		Port:       *portFlag,
		SpeedHz:    conn.DefaultSPIConfig.SpeedHz,
		Mode:       conn.DefaultSPIConfig.Mode,
		Reset:      gpioreg.ByName(*resetPinFlag),
		DC:         gpioreg.ByName(*dcPinFlag),
		Controller: ctlr,
	})
	if err != nil {
		log.Fatalln("open failed: ", err)
	}
	fmt.Println("connected using", c)
	if err = c.Close(); err != nil {
		log.Fatalln("close failed: ", err)
	}
}
