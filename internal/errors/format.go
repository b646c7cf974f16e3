package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	// Color functions auto-detect terminal support and degrade to plain text.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	abortLabel  = color.New(color.FgYellow, color.Bold).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// Format renders a CLIError for terminal display. User aborts render as a
// single plain line; they are a decision, not a failure to diagnose.
func Format(err *CLIError) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	if err.Category == UserAbort {
		sb.WriteString(abortLabel("Aborted:"))
		sb.WriteString(" ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(errorLabel("Error"))
	sb.WriteString(" [")
	sb.WriteString(categoryFmt(err.Category.String()))
	sb.WriteString("]: ")
	sb.WriteString(errorMsg(err.Message))
	sb.WriteString("\n")

	if len(err.Remediation) > 0 {
		sb.WriteString("\n")
		sb.WriteString(fixLabel("To fix this:"))
		sb.WriteString("\n")
		for _, step := range err.Remediation {
			sb.WriteString("  ")
			sb.WriteString(bullet("•"))
			sb.WriteString(" ")
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// Fprint writes a formatted error to the given writer. A plain error is
// rendered under the Execution category.
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = &CLIError{Category: Execution, Message: err.Error()}
	}
	fmt.Fprint(w, Format(cliErr))
}
