package main

import (
	"fmt"
	"os"

	"github.com/vcidst/demo-bank/internal/storage"
)

// ANSI escapes for console output, suppressed by --no-color.
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiBold   = "\033[1m"
)

func paint(code, text string) string {
	if noColor {
		return text
	}
	return code + text + ansiReset
}

func printSuccess(format string, args ...any) {
	fmt.Fprintln(os.Stderr, paint(ansiGreen, "✓ "+fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, paint(ansiRed, "✗ "+fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, paint(ansiYellow, "⚠ "+fmt.Sprintf(format, args...)))
}

func printStep(format string, args ...any) {
	fmt.Fprintln(os.Stderr, paint(ansiCyan, "→ "+fmt.Sprintf(format, args...)))
}

func printStatus(label string, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", paint(ansiBold, label+":"), fmt.Sprintf(format, args...))
}

// formatUserRow renders one account line for the setup listing.
func formatUserRow(u storage.User) string {
	return fmt.Sprintf("ID: %-3d | Username: %-10s | Email: %s", u.ID, u.Username, u.Email)
}

// printUsers lists the seeded accounts so demo credentials are easy to find.
func printUsers(users []storage.User) {
	fmt.Fprintln(os.Stderr, paint(ansiBold, "Accounts in database:"))
	for _, u := range users {
		fmt.Fprintf(os.Stderr, "  %s\n", formatUserRow(u))
	}
}
