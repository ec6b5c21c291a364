package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"BattFit/internal/di"
	"BattFit/internal/domain/models"
	"BattFit/pkg/config"
)

// Exit codes, one per error kind.
const (
	exitOK = iota
	exitUnexpected
	exitFile
	exitParse
	exitInvalidInput
	exitInsufficientData
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// Parse flags and load config
	cfg, err := config.FromArgs(args, os.Getenv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "battfit: %v\n", err)
		return exitCode(err)
	}

	// Wire dependencies
	app, err := di.InitializeApp(cfg, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "battfit: app initialization failed: %v\n", err)
		return exitUnexpected
	}

	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintf(stderr, "battfit: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, models.ErrFile):
		return exitFile
	case errors.Is(err, models.ErrParse):
		return exitParse
	case errors.Is(err, models.ErrInvalidInput):
		return exitInvalidInput
	case errors.Is(err, models.ErrInsufficientData):
		return exitInsufficientData
	default:
		return exitUnexpected
	}
}
