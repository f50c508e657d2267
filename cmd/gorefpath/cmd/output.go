package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

// outputWriter is used for printing output, can be overridden in tests
var outputWriter io.Writer = os.Stdout

// setOutputWriter sets the output writer (used for testing)
func setOutputWriter(w io.Writer) {
	outputWriter = w
}

// resetOutputWriter resets output to stdout (used for testing)
func resetOutputWriter() {
	outputWriter = os.Stdout
}

func printf(format string, args ...interface{}) {
	fmt.Fprintf(outputWriter, format, args...)
}

func printLine(args ...interface{}) {
	fmt.Fprintln(outputWriter, args...)
}

// printHeader prints a formatted header
func printHeader(format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	width := visualWidth(title) + 4
	fmt.Fprintln(outputWriter, strings.Repeat("=", width))
	fmt.Fprintf(outputWriter, "  %s\n", color.Bold.Sprint(title))
	fmt.Fprintln(outputWriter, strings.Repeat("=", width))
}

// printSection prints a section header
func printSection(title string) {
	fmt.Fprintf(outputWriter, "[%s]\n", color.Cyan.Sprint(title))
	fmt.Fprintln(outputWriter, strings.Repeat("-", visualWidth(title)+2))
}

func printOK(format string, args ...interface{}) {
	fmt.Fprintf(outputWriter, "%s %s\n", color.Green.Sprint("✅"), fmt.Sprintf(format, args...))
}

func printFail(format string, args ...interface{}) {
	fmt.Fprintf(outputWriter, "%s %s\n", color.Red.Sprint("❌"), fmt.Sprintf(format, args...))
}

func printWarn(format string, args ...interface{}) {
	fmt.Fprintf(outputWriter, "%s %s\n", color.Yellow.Sprint("⚠"), fmt.Sprintf(format, args...))
}

// printSideBySide prints two blocks of text side by side
// padding is the minimum spaces between the two columns
func printSideBySide(leftLines, rightLines []string, padding int) {
	leftWidth := 0
	for _, line := range leftLines {
		if w := visualWidth(line); w > leftWidth {
			leftWidth = w
		}
	}

	rows := len(leftLines)
	if len(rightLines) > rows {
		rows = len(rightLines)
	}

	for i := 0; i < rows; i++ {
		leftPart, rightPart := "", ""
		if i < len(leftLines) {
			leftPart = leftLines[i]
		}
		if i < len(rightLines) {
			rightPart = rightLines[i]
		}

		fmt.Fprint(outputWriter, leftPart)
		if rightPart == "" {
			fmt.Fprintln(outputWriter)
			continue
		}
		if spaces := leftWidth - visualWidth(leftPart) + padding; spaces > 0 {
			fmt.Fprint(outputWriter, strings.Repeat(" ", spaces))
		}
		fmt.Fprintln(outputWriter, rightPart)
	}
}

// visualWidth returns the terminal width of s. Colour codes are not counted.
func visualWidth(s string) int {
	return runewidth.StringWidth(color.ClearCode(s))
}

// cardinalityText renders a declared cardinality.
func cardinalityText(c int) string {
	if c <= 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", c)
}
