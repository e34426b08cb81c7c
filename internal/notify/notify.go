package notify

import (
	"log/slog"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification — транзиентное уведомление для пользователя (тост в админке).
type Notification struct {
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

// Notifier — приемник уведомлений. Вызов fire-and-forget, результат
// не возвращается и вызывающим не проверяется.
type Notifier interface {
	Notify(kind Kind, title, description string)
}

// LogNotifier пишет уведомления в журнал. Используется, когда поток
// уведомлений в UI не подключен.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(kind Kind, title, description string) {
	attrs := []any{
		slog.String("title", title),
		slog.String("description", description),
	}

	if kind == KindError {
		n.log.Warn("notification", attrs...)
		return
	}
	n.log.Info("notification", attrs...)
}
