package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/mlauria/dotmatrix/dotmatrix"
	"github.com/mlauria/dotmatrix/dotmatrix/backend"
	"github.com/mlauria/dotmatrix/dotmatrix/backend/headless"
	"github.com/mlauria/dotmatrix/dotmatrix/backend/sdl2"
	"github.com/mlauria/dotmatrix/dotmatrix/backend/terminal"
	"github.com/mlauria/dotmatrix/dotmatrix/backend/ui"
	"github.com/mlauria/dotmatrix/dotmatrix/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "dotmatrix"
	app.Description = "A Game Boy emulator"
	app.Usage = "dotmatrix [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Frontend to use: gui, terminal, sdl2, headless",
			Value: "gui",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor",
			Value: 3,
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "serial-trace",
			Usage: "Print bytes written to the link port (test rom output)",
		},
		cli.BoolFlag{
			Name:  "battery",
			Usage: "Load and save external cartridge RAM next to the ROM",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	emu, err := dotmatrix.NewWithFile(romPath)
	if err != nil {
		return err
	}

	if c.Bool("serial-trace") {
		emu.EnableSerialTrace(os.Stdout)
	}

	savePath := strings.TrimSuffix(romPath, filepath.Ext(romPath)) + ".sav"
	if c.Bool("battery") {
		if err := emu.LoadBatteryRAM(savePath); err != nil {
			return fmt.Errorf("loading battery RAM: %w", err)
		}
	}

	config := backend.Config{
		Title: "dotmatrix - " + filepath.Base(romPath),
		Scale: c.Int("scale"),
	}

	switch name := c.String("backend"); name {
	case "gui":
		err = ui.Run(emu, config)
	case "terminal":
		err = runWithBackend(emu, terminal.New(), config, timing.NewTickerLimiter())
	case "sdl2":
		err = runWithBackend(emu, sdl2.New(), config, timing.NewTickerLimiter())
	case "headless":
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames with a positive value")
		}
		err = runWithBackend(emu, headless.New(frames), config, timing.NewNoOpLimiter())
	default:
		return fmt.Errorf("unknown backend %q", name)
	}
	if err != nil {
		return err
	}

	if c.Bool("battery") {
		if err := emu.SaveBatteryRAM(savePath); err != nil {
			return fmt.Errorf("saving battery RAM: %w", err)
		}
	}
	return nil
}

func runWithBackend(emu *dotmatrix.DMG, b backend.Backend, config backend.Config, limiter timing.Limiter) error {
	if err := b.Init(config); err != nil {
		return err
	}
	defer b.Cleanup()

	return backend.Run(emu, b, limiter)
}
