package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	persistAdvisory = []string{
		"You have indicated that you would like to persist the master secret for this service instance.",
		"Be aware that this is less secure than manually entering the secret on startup.",
		"The persisted file will be encrypted and primarily protected through OS permissions.",
	}
	promptAdvisory = []string{
		"Be aware that you will need to enter your master secret for future starts exactly as you do here.",
		"This secret is needed to access protected resources for the service process.",
		"The master secret must be protected, kept secret and not stored in clear text anywhere.",
	}

	advisoryColor = color.New(color.FgYellow)
)

// writeAdvisory prints the one-time notice shown before the first prompt.
// Colour is dropped automatically when w is not a terminal or NO_COLOR is set.
func writeAdvisory(w io.Writer, persist bool) {
	lines := promptAdvisory
	if persist {
		lines = persistAdvisory
	}

	rule := strings.Repeat("*", 99)
	_, _ = advisoryColor.Fprintln(w, rule)
	for _, line := range lines {
		_, _ = fmt.Fprintln(w, line)
	}
	_, _ = advisoryColor.Fprintln(w, rule)
}
