package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/skillsift/skillsift/schema"
)

// Color printers for score labels.
var (
	strongColor = color.New(color.FgGreen, color.Bold)
	goodColor   = color.New(color.FgCyan)
	okColor     = color.New(color.FgYellow)
	weakColor   = color.New(color.FgRed)
)

// GetPlainLabel returns a human-readable label for a dimension level.
func GetPlainLabel(level schema.DimensionLevel) string {
	switch level {
	case schema.StrongLevel:
		return "Strong"
	case schema.GoodLevel:
		return "Good"
	case schema.OkLevel:
		return "Ok"
	default:
		return "Needs Improvement"
	}
}

// GetColorLabel returns a colored label for a dimension level.
func GetColorLabel(level schema.DimensionLevel) string {
	switch level {
	case schema.StrongLevel:
		return strongColor.Sprint("Strong")
	case schema.GoodLevel:
		return goodColor.Sprint("Good")
	case schema.OkLevel:
		return okColor.Sprint("Ok")
	default:
		return weakColor.Sprint("Needs Improvement")
	}
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+msg+"\n", args...)
}

// LogFatal logs an error message to stderr and exits.
func LogFatal(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

// GetDBFilePath returns the default SQLite path for the project store.
func GetDBFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skillsift.db"
	}
	return filepath.Join(home, ".skillsift.db")
}

// ParseBoolString converts yes/no style flag values into a bool.
func ParseBoolString(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "on":
		return true, nil
	case "no", "n", "false", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected yes or no (received %q)", value)
	}
}

// TruncatePath shortens a path to maxLen runes, keeping the tail.
func TruncatePath(path string, maxLen int) string {
	if len(path) <= maxLen || maxLen <= 3 {
		return path
	}
	return "..." + path[len(path)-(maxLen-3):]
}

// SelectOutputFile returns the destination for rendered output, defaulting
// to stdout when no file was requested.
func SelectOutputFile(outputFile string) (*os.File, func(), error) {
	if outputFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create output file %q: %w", outputFile, err)
	}
	return f, func() { _ = f.Close() }, nil
}
