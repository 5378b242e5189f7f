package main

import (
	"bufio"
	"os"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/loop"
	"golang.org/x/term"
)

func main() {
	// Redirect stderr (2>file) to keep log lines off the playfield.
	logger := config.NewLogger(os.Stderr, "invaders")

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal("failed to enable raw mode", "err", err)
	}

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(reader, os.Stdout, loop.Options{
		Logger:   logger,
		Strict:   config.GetEnvBool("INVADERS_STRICT", false),
		MaxDelta: config.GetEnvDuration("INVADERS_MAX_DELTA", 0),
	})
	_ = term.Restore(fd, oldState)
	if err != nil {
		logger.Fatal("game error", "err", err)
	}
}
