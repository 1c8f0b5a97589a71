package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/rplan/internal/calculation"
	"github.com/rgehrsitz/rplan/internal/tui"
)

// fileLogger implements calculation.Logger on a log file; the terminal
// belongs to the TUI.
type fileLogger struct{ *log.Logger }

func (l fileLogger) Debugf(format string, args ...any) { l.Printf("DEBUG: "+format, args...) }
func (l fileLogger) Infof(format string, args ...any)  { l.Printf("INFO: "+format, args...) }
func (l fileLogger) Warnf(format string, args ...any)  { l.Printf("WARN: "+format, args...) }
func (l fileLogger) Errorf(format string, args ...any) { l.Printf("ERROR: "+format, args...) }

func main() {
	debugLog := flag.String("debug-log", "", "Write calculation logs to this file")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: rplan-tui [--debug-log file] [plan-file]")
		flag.PrintDefaults()
	}
	flag.Parse()

	configPath := flag.Arg(0)
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			fmt.Printf("Error: Config file not found: %s\n", configPath)
			os.Exit(1)
		}
	}

	engine := calculation.NewCalculationEngine()
	if *debugLog != "" {
		f, err := tea.LogToFile(*debugLog, "rplan")
		if err != nil {
			fmt.Printf("Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		engine.SetLogger(fileLogger{log.Default()})
	}

	p := tea.NewProgram(
		tui.NewModel(configPath, engine),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
