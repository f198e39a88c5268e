// Package notifier delivers short user-facing notices. Sinks never block the caller.
package notifier

import (
	"fmt"
	"sync"

	"github.com/julianstephens/daylog/internal/logger"
)

type Severity int

const (
	Info Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Sink receives notices. Notify must return promptly.
type Sink interface {
	Notify(message string, severity Severity)
}

// Func adapts a function to a Sink.
type Func func(message string, severity Severity)

func (f Func) Notify(message string, severity Severity) { f(message, severity) }

// Multi fans a notice out to every sink.
type Multi []Sink

func (m Multi) Notify(message string, severity Severity) {
	for _, s := range m {
		if s != nil {
			s.Notify(message, severity)
		}
	}
}

// LogSink writes notices to the application log.
type LogSink struct{}

func (LogSink) Notify(message string, severity Severity) {
	switch severity {
	case Error:
		logger.Error(message)
	case Warn:
		logger.Warn(message)
	default:
		logger.Info(message)
	}
}

// Discard drops every notice.
var Discard Sink = Func(func(string, Severity) {})

// Sender is implemented by transports that can fail.
type Sender interface {
	Send(text string) error
}

// Async runs deliveries in the background and logs failures.
type Async struct {
	name string
	s    Sender
	wg   sync.WaitGroup
}

func (a *Async) Notify(message string, severity Severity) {
	text := message
	if severity != Info {
		text = fmt.Sprintf("[%s] %s", severity, message)
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.s.Send(text); err != nil {
			logger.Debug("Notification not delivered", "sink", a.name, "error", err)
		}
	}()
}

// Wait blocks until in-flight deliveries finish.
func (a *Async) Wait() {
	a.wg.Wait()
}
