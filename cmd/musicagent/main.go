package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cabobadilla/AIMusicAgent/internal/cli"
)

const (
	exitSuccess     = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		fmt.Fprintln(os.Stderr, "Interrupted (Ctrl-C)")
		os.Exit(exitInterrupted)
	}()

	os.Exit(exitCode(cli.Execute(context.Background(), os.Args[1:])))
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ue cli.UsageError
	if errors.As(err, &ue) {
		fmt.Fprintln(os.Stderr, ue.Msg)
		return exitUsage
	}
	if !cli.Reported(err) {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
	}
	return exitFailure
}
