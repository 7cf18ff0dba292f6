package main

import "os"

const (
	appName  = "countdown"
	appTitle = "Countdown"
	appID    = "io.countdown.app"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
