package adapters

import "github.com/goliatone/go-leadcards/pkg/interfaces/logger"

// BaseAdapter provides shared helpers for simple adapters.
type BaseAdapter struct {
	logger logger.Logger
}

func NewBaseAdapter(l logger.Logger) BaseAdapter {
	return BaseAdapter{logger: logger.Ensure(l)}
}

func (b BaseAdapter) LogSuccess(name string, msg Message) {
	b.Logger().Info("adapter delivered message", messageFields(name, msg)...)
}

func (b BaseAdapter) LogFailure(name string, msg Message, err error) {
	b.Logger().Error("adapter delivery failed", append(messageFields(name, msg), logger.Err(err))...)
}

func messageFields(name string, msg Message) []logger.Field {
	return []logger.Field{
		{Key: "adapter", Value: name},
		{Key: "channel", Value: msg.Channel},
		{Key: "message_id", Value: msg.ID},
		{Key: "trace_id", Value: msg.TraceID},
	}
}

// Logger exposes the adapter logger for structured diagnostics.
func (b BaseAdapter) Logger() logger.Logger {
	return logger.Ensure(b.logger)
}
