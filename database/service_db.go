// Package database содержит сервисную базу данных SQLite: историю
// уведомлений и сохраненную конфигурацию приложения. Результаты аудита
// не персистятся.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBConfig настройки пула соединений
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServiceDB подключение к сервисной базе данных
type ServiceDB struct {
	conn *sql.DB
}

// NewServiceDB открывает сервисную базу данных по пути
func NewServiceDB(dbPath string) (*ServiceDB, error) {
	config := DBConfig{}

	// Для in-memory SQLite требуется ровно одно соединение, иначе каждое
	// новое соединение получает пустую БД без таблиц
	if isInMemoryPath(dbPath) {
		config.MaxOpenConns = 1
		config.MaxIdleConns = 1
	}

	return NewServiceDBWithConfig(dbPath, config)
}

// isInMemoryPath определяет, что путь относится к in-memory SQLite
func isInMemoryPath(dbPath string) bool {
	if dbPath == ":memory:" {
		return true
	}
	if strings.HasPrefix(dbPath, "file:") && strings.Contains(dbPath, "mode=memory") {
		return true
	}
	return false
}

// NewServiceDBWithConfig открывает сервисную базу данных с настройками пула
func NewServiceDBWithConfig(dbPath string, config DBConfig) (*ServiceDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open service database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		// SQLite плохо переносит много одновременных соединений
		conn.SetMaxOpenConns(10)
	}

	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(3)
	}

	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping service database: %w", err)
	}

	// WAL улучшает конкурентность чтения, его отсутствие не критично
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Printf("[ServiceDB] Warning: Failed to enable WAL mode: %v", err)
	}

	serviceDB := &ServiceDB{conn: conn}

	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize service schema: %w", err)
	}

	return serviceDB, nil
}

// initSchema создает таблицы сервисной БД, если их еще нет
func initSchema(conn *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recipient TEXT NOT NULL,
		message TEXT NOT NULL,
		read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient);
	CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);

	CREATE TABLE IF NOT EXISTS app_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		config_json TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create service tables: %w", err)
	}
	return nil
}

// Close закрывает подключение к сервисной базе данных
func (db *ServiceDB) Close() error {
	return db.conn.Close()
}

// Ping проверяет доступность базы данных
func (db *ServiceDB) Ping() error {
	return db.conn.Ping()
}

// Notification одно сохраненное уведомление
type Notification struct {
	ID        int       `json:"id"`
	Recipient string    `json:"recipient"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveNotification сохраняет уведомление и возвращает его ID
func (db *ServiceDB) SaveNotification(recipient, message string) (int, error) {
	res, err := db.conn.Exec(
		`INSERT INTO notifications (recipient, message) VALUES (?, ?)`,
		recipient, message,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save notification: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get notification id: %w", err)
	}
	return int(id), nil
}

// GetNotifications возвращает уведомления от новых к старым
func (db *ServiceDB) GetNotifications(limit, offset int, unreadOnly bool) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, recipient, message, read, created_at FROM notifications`
	if unreadOnly {
		query += ` WHERE read = FALSE`
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountUnread возвращает количество непрочитанных уведомлений
func (db *ServiceDB) CountUnread() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM notifications WHERE read = FALSE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead помечает уведомление прочитанным
func (db *ServiceDB) MarkNotificationRead(id int) error {
	res, err := db.conn.Exec(`UPDATE notifications SET read = TRUE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkAllNotificationsRead помечает все уведомления прочитанными
func (db *ServiceDB) MarkAllNotificationsRead() error {
	if _, err := db.conn.Exec(`UPDATE notifications SET read = TRUE`); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// GetAppConfig возвращает сохраненную конфигурацию приложения в JSON.
// Пустая строка без ошибки означает, что конфигурация еще не сохранялась.
func (db *ServiceDB) GetAppConfig() (string, error) {
	var configJSON string
	err := db.conn.QueryRow(`SELECT config_json FROM app_config WHERE id = 1`).Scan(&configJSON)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get app config: %w", err)
	}
	return configJSON, nil
}

// SaveAppConfig сохраняет конфигурацию приложения в JSON
func (db *ServiceDB) SaveAppConfig(configJSON string) error {
	_, err := db.conn.Exec(`
		INSERT INTO app_config (id, config_json, updated_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET config_json = excluded.config_json, updated_at = CURRENT_TIMESTAMP`,
		configJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save app config: %w", err)
	}
	return nil
}
