package database

import (
	"database/sql"
	"errors"
	"testing"
)

// setupTestDB создает тестовую in-memory базу данных
func setupTestDB(t *testing.T) *ServiceDB {
	t.Helper()

	db, err := NewServiceDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestNewServiceDB(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestSaveAndGetNotifications(t *testing.T) {
	db := setupTestDB(t)

	id1, err := db.SaveNotification("owner@example.com", "Record 0 missing fields: [email]")
	if err != nil {
		t.Fatalf("SaveNotification() error: %v", err)
	}
	id2, err := db.SaveNotification("owner@example.com", "Record 1 is stale")
	if err != nil {
		t.Fatalf("SaveNotification() error: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids not increasing: %d, %d", id1, id2)
	}

	notifications, err := db.GetNotifications(10, 0, false)
	if err != nil {
		t.Fatalf("GetNotifications() error: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("got %d notifications, want 2", len(notifications))
	}
	// Новые раньше старых
	if notifications[0].ID != id2 {
		t.Errorf("first notification id = %d, want %d", notifications[0].ID, id2)
	}
	if notifications[1].Message != "Record 0 missing fields: [email]" {
		t.Errorf("message = %q", notifications[1].Message)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	db := setupTestDB(t)

	id, err := db.SaveNotification("owner@example.com", "test")
	if err != nil {
		t.Fatalf("SaveNotification() error: %v", err)
	}

	unread, err := db.CountUnread()
	if err != nil {
		t.Fatalf("CountUnread() error: %v", err)
	}
	if unread != 1 {
		t.Errorf("CountUnread() = %d, want 1", unread)
	}

	if err := db.MarkNotificationRead(id); err != nil {
		t.Fatalf("MarkNotificationRead() error: %v", err)
	}

	unread, err = db.CountUnread()
	if err != nil {
		t.Fatalf("CountUnread() error: %v", err)
	}
	if unread != 0 {
		t.Errorf("CountUnread() after read = %d, want 0", unread)
	}

	// Несуществующий ID дает sql.ErrNoRows
	if err := db.MarkNotificationRead(9999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("MarkNotificationRead(9999) error = %v, want sql.ErrNoRows", err)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 3; i++ {
		if _, err := db.SaveNotification("owner@example.com", "msg"); err != nil {
			t.Fatalf("SaveNotification() error: %v", err)
		}
	}

	if err := db.MarkAllNotificationsRead(); err != nil {
		t.Fatalf("MarkAllNotificationsRead() error: %v", err)
	}

	unread, err := db.CountUnread()
	if err != nil {
		t.Fatalf("CountUnread() error: %v", err)
	}
	if unread != 0 {
		t.Errorf("CountUnread() = %d, want 0", unread)
	}

	onlyUnread, err := db.GetNotifications(10, 0, true)
	if err != nil {
		t.Fatalf("GetNotifications(unread) error: %v", err)
	}
	if len(onlyUnread) != 0 {
		t.Errorf("got %d unread notifications, want 0", len(onlyUnread))
	}
}

func TestAppConfigRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	// До первого сохранения конфигурации нет
	cfg, err := db.GetAppConfig()
	if err != nil {
		t.Fatalf("GetAppConfig() error: %v", err)
	}
	if cfg != "" {
		t.Errorf("GetAppConfig() = %q, want empty", cfg)
	}

	if err := db.SaveAppConfig(`{"port":"8080"}`); err != nil {
		t.Fatalf("SaveAppConfig() error: %v", err)
	}
	if err := db.SaveAppConfig(`{"port":"9090"}`); err != nil {
		t.Fatalf("SaveAppConfig() overwrite error: %v", err)
	}

	cfg, err = db.GetAppConfig()
	if err != nil {
		t.Fatalf("GetAppConfig() error: %v", err)
	}
	if cfg != `{"port":"9090"}` {
		t.Errorf("GetAppConfig() = %q, want %q", cfg, `{"port":"9090"}`)
	}
}
