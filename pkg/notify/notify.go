// Package notify carries toast-style user notifications out of the core
// packages without binding them to a particular UI.
package notify

import (
	"sync"

	"github.com/touchgrass/cli/pkg/output"
)

// Level classifies a notification
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a single user-facing message
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives user-facing notifications from core packages
type Notifier interface {
	Notify(level Level, message string)
}

// Console prints notifications to the terminal
type Console struct{}

// Notify implements Notifier
func (Console) Notify(level Level, message string) {
	switch level {
	case LevelSuccess:
		output.PrintSuccess("%s", message)
	case LevelError:
		output.PrintError("%s", message)
	default:
		output.PrintInfo("%s", message)
	}
}

// Recorder collects notifications for inspection in tests
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// Notify implements Notifier
func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Level: level, Message: message})
}

// All returns a copy of every recorded notification
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Discard drops every notification. Useful default for non-interactive paths.
type Discard struct{}

// Notify implements Notifier
func (Discard) Notify(Level, string) {}
