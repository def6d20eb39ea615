package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color functions for terminal output
var (
	Cyan    = color.New(color.FgCyan).SprintFunc()
	Yellow  = color.New(color.FgYellow).SprintFunc()
	Red     = color.New(color.FgRed).SprintFunc()
	Green   = color.New(color.FgGreen).SprintFunc()
	Magenta = color.New(color.FgMagenta).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
)

var (
	mu        sync.Mutex
	out       io.Writer = os.Stdout
	quietMode bool
)

// ConfigureOutput disables colour when requested or when stdout is not a terminal
func ConfigureOutput(noColor bool) {
	color.NoColor = noColor || !term.IsTerminal(int(os.Stdout.Fd()))
}

// SetOutput redirects console output, mainly for tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(quiet bool) {
	mu.Lock()
	defer mu.Unlock()
	quietMode = quiet
}

// IsQuietMode reports whether quiet mode is on
func IsQuietMode() bool {
	mu.Lock()
	defer mu.Unlock()
	return quietMode
}

func write(force bool, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if quietMode && !force {
		return
	}
	fmt.Fprintf(out, format, args...)
}

// PrintBanner announces a collection run
func PrintBanner(subreddit, sort string, limit int) {
	write(false, "\n%s %s\n", Magenta("Extracting images from"), Cyan("r/"+subreddit))
	write(false, "   %s\n", Dim(fmt.Sprintf("(Sort: %s, Target: %d posts)", sort, limit)))
}

// PrintProgress prints an indented progress line
func PrintProgress(msg string) {
	write(false, "   %s\n", Dim(msg))
}

// PrintError prints an error message in red; errors ignore quiet mode
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		write(true, "%s\n", Red(msg+": "+fmt.Sprintf("%v", args[0])))
		return
	}
	write(true, "%s\n", Red(msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	write(false, "%s\n", Green(msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	write(false, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		write(false, "%s\n", Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
		return
	}
	write(false, "%s\n", Yellow(msg))
}
