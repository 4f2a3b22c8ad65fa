package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// GetSimpleText prints a prompt to w and reads the next line from in, trimmed.
// It reads through the same scanner as the REPL, so answers typed ahead on a
// pipe are not lost to a second buffer.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(in *bufio.Scanner, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(in.Text()), nil
}

// Confirm asks a yes/no question; only "y" or "yes" count as yes.
func Confirm(in *bufio.Scanner, prompt string, w io.Writer) bool {
	answer, err := GetSimpleText(in, prompt+" [y/N]", w)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
