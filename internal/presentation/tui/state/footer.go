package state

import "strings"

// FooterText returns the footer content for the current session.
// The status line is hidden while a request is in flight.
func FooterText(session Session, loading bool, status, helpText string) string {
	status = strings.TrimSpace(status)
	if loading || status == "" || session == QuitView {
		return helpText
	}
	if helpText == "" {
		return status
	}
	return status + "\n" + helpText
}
