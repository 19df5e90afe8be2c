package portal

import "github.com/rs/zerolog"

// Toaster receives the transient success/failure messages the portal shows
// for every action. Validation failures toast before any network call; API
// failures toast the backend's message.
type Toaster interface {
	Success(msg string)
	Error(msg string)
}

var _ Toaster = (*LogToaster)(nil)

// LogToaster writes toasts to the structured log, the headless stand-in
// for an on-screen toast stack.
type LogToaster struct {
	log zerolog.Logger
}

func NewLogToaster(log zerolog.Logger) *LogToaster {
	return &LogToaster{log: log}
}

func (lt *LogToaster) Success(msg string) {
	lt.log.Info().Str("toast", "success").Msg(msg)
}

func (lt *LogToaster) Error(msg string) {
	lt.log.Warn().Str("toast", "error").Msg(msg)
}
