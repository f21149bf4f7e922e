package service

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/goroutine"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/logger"
)

// Notifier описывает коллаборатора для рассылки событий жизненного цикла.
// Реализуется WebSocket хабом; доставка — забота реализации, сервисы
// отправляют события fire-and-forget и не ждут подтверждения.
type Notifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// notifyAsync отправляет событие пользователю в отдельной горутине.
// Ошибка доставки логируется и не влияет на результат операции.
func notifyAsync(n Notifier, userID uuid.UUID, event string, data any) {
	if n == nil {
		return
	}
	goroutine.SafeGo(func() {
		if err := n.BroadcastToUser(userID, event, data); err != nil && logger.Log != nil {
			logger.Log.WithError(err).WithField("event", event).Warn("не удалось отправить уведомление")
		}
	})
}
