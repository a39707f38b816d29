package domain

import "fmt"

// ClientError is an uncaught script error reported by a page's global error
// handler. Line and Column stay as reported; empty means the browser did
// not supply them.
type ClientError struct {
	Message string
	URL     string
	Line    string
	Column  string
	Stack   string
}

// LogEntry is the body posted to the client log endpoint.
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// DeveloperNotice is what a page in developer mode keeps as its last error.
type DeveloperNotice struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// LogEntry formats the error the way the client log endpoint expects it.
func (e ClientError) LogEntry() LogEntry {
	msg := fmt.Sprintf("msg: %s row: %s col: %s stack: %s url: %s",
		e.Message, position(e.Line), position(e.Column), e.Stack, e.URL)
	return LogEntry{Level: "ERROR", Message: msg}
}

// DeveloperNotice builds the notice shown to developers.
func (e ClientError) DeveloperNotice() DeveloperNotice {
	msg := fmt.Sprintf("DEVELOPER MODE: A JavaScript error has occurred.  Please use the JavaScript console to capture and report the error (row: %s col: %s).",
		position(e.Line), position(e.Column))
	return DeveloperNotice{Type: "developer", Message: msg}
}

// position renders a missing row or column as the browser's string
// concatenation does.
func position(v string) string {
	if v == "" {
		return "undefined"
	}
	return v
}
