// Package alert определяет границу доставки уведомлений: сток, принимающий
// свободный текст алерта, адресованный получателю. Доставка fire-and-forget,
// без подтверждений и повторов.
package alert

import (
	"log/slog"
	"sync"
)

// Notifier сток алертов. Реализация не возвращает ошибок вызывающей
// стороне: сбой доставки - проблема стока, а не аудита.
type Notifier interface {
	Notify(recipient, message string)
}

// SlogNotifier пишет алерты в структурированный лог
type SlogNotifier struct {
	log *slog.Logger
}

// NewSlogNotifier создает лог-нотификатор. nil означает slog.Default().
func NewSlogNotifier(log *slog.Logger) *SlogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &SlogNotifier{log: log}
}

// Notify пишет алерт в лог
func (n *SlogNotifier) Notify(recipient, message string) {
	n.log.Info("alert", "recipient", recipient, "message", message)
}

// Message одно доставленное уведомление
type Message struct {
	Recipient string
	Text      string
}

// MemoryNotifier накапливает алерты в памяти. Используется в тестах
// и как no-op реализация контракта.
type MemoryNotifier struct {
	mu       sync.Mutex
	messages []Message
}

// NewMemoryNotifier создает нотификатор с накоплением в памяти
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

// Notify сохраняет алерт в памяти
func (n *MemoryNotifier) Notify(recipient, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, Message{Recipient: recipient, Text: message})
}

// Messages возвращает копию накопленных алертов в порядке доставки
func (n *MemoryNotifier) Messages() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Message, len(n.messages))
	copy(out, n.messages)
	return out
}
