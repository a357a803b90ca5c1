package alert

import (
	"log/slog"

	"crmhygiene/database"
)

// StoreNotifier сохраняет алерты в сервисную базу данных, чтобы история
// уведомлений была доступна через API. Контракт остается fire-and-forget:
// сбой записи логируется и не прерывает аудит.
type StoreNotifier struct {
	db  *database.ServiceDB
	log *slog.Logger
}

// NewStoreNotifier создает нотификатор с сохранением в сервисную БД
func NewStoreNotifier(db *database.ServiceDB, log *slog.Logger) *StoreNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &StoreNotifier{db: db, log: log}
}

// Notify сохраняет алерт, ошибки записи только логируются
func (n *StoreNotifier) Notify(recipient, message string) {
	if _, err := n.db.SaveNotification(recipient, message); err != nil {
		n.log.Error("failed to store alert", "recipient", recipient, "error", err)
		return
	}
	n.log.Info("alert", "recipient", recipient, "message", message)
}
