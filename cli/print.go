package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// infof prints a message prefixed with a cyan "Info: ".
func infof(w io.Writer, format string, a ...interface{}) {
	prefixedf(w, infoColor, "Info", format, a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	prefixedf(w, warningColor, "Warning", format, a...)
}

func prefixedf(w io.Writer, c *color.Color, prefix, format string, a ...interface{}) {
	//nolint:errcheck
	c.Fprint(w, prefix+": ")
	printf(w, format, a...)
}

// statusf prints a run outcome, green when it succeeded and red otherwise.
func statusf(w io.Writer, ok bool, format string, a ...interface{}) {
	c := failureColor
	if ok {
		c = successColor
	}
	//nolint:errcheck
	c.Fprintln(w, strings.TrimSpace(fmt.Sprintf(format, a...)))
}
