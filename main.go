package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/config"
	"cinema-booking-cli/service"
	"cinema-booking-cli/store"
	"cinema-booking-cli/tui"
)

const appName = "cinema-booking-cli"

var (
	version = "dev"
	commit  = "none"
)

func printUsage(out *os.File) {
	fmt.Fprintf(out, "Usage: %s [--version]\n", appName)
}

func printVersion() {
	fmt.Printf("%s %s", appName, version)
	if commit != "none" && commit != "" {
		fmt.Printf(" (%s)", commit)
	}
	fmt.Println()
}

func handleArgs(args []string) bool {
	if len(args) == 0 {
		return true
	}

	for _, arg := range args {
		switch arg {
		case "-h", "--help", "help":
			printUsage(os.Stdout)
			return false
		case "-v", "--version", "version":
			printVersion()
			return false
		default:
			fmt.Fprintf(os.Stderr, "Unknown argument: %s\n", arg)
			printUsage(os.Stderr)
			os.Exit(2)
		}
	}

	return false
}

func main() {
	if !handleArgs(os.Args[1:]) {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ownedStore, err := store.NewOwnedStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flow := booking.FlowMulti
	if cfg.SingleSelect {
		flow = booking.FlowSingle
	}
	state, err := booking.NewState(flow, ownedStore)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var api service.API
	if cfg.UseMock {
		api = service.NewMock()
	} else {
		api = service.NewClient(nil, cfg.APIBase)
	}

	if _, err := tea.NewProgram(tui.New(api, state, cfg), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
