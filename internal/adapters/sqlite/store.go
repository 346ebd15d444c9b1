package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/atvirokodosprendimai/eventdesk/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
	"github.com/atvirokodosprendimai/eventdesk/migrations"
)

// Store keeps the collections in SQLite. Each ReadTX and WriteTX maps to one
// database transaction.
type Store struct {
	db *gormsqlite.DB
}

// Open opens path (or a private in-memory database for ":memory:") and brings
// the schema up to date.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := gormsqlite.Open(path)
	if err != nil {
		return nil, err
	}
	wdb, err := db.WriteSQLDB()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("writer sql db: %w", err)
	}
	if err := migrations.Up(ctx, wdb); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

func NewStore(db *gormsqlite.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gormsqlite.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ReadTX(ctx context.Context, fn func(c ports.Collections) error) error {
	return s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return fn(&collections{tx: tx.DB})
	})
}

func (s *Store) WriteTX(ctx context.Context, fn func(c ports.Collections) error) error {
	return s.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return fn(&collections{tx: tx.DB})
	})
}

var _ ports.Store = (*Store)(nil)

type collections struct {
	tx *gorm.DB
}

func (c *collections) Events() ([]domain.Event, error) {
	var models []eventModel
	if err := c.tx.Order("seq DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events := make([]domain.Event, 0, len(models))
	for _, m := range models {
		e, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (c *collections) Event(id string) (domain.Event, error) {
	var m eventModel
	if err := first(c.tx, id, &m); err != nil {
		return domain.Event{}, err
	}
	return m.toDomain()
}

func (c *collections) PrependEvent(event domain.Event) error {
	m, err := eventToModel(event)
	if err != nil {
		return err
	}
	if err := c.tx.Create(&m).Error; err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (c *collections) ReplaceEvent(event domain.Event) (bool, error) {
	m, err := eventToModel(event)
	if err != nil {
		return false, err
	}
	return update(c.tx, &eventModel{}, event.ID, m.assignments())
}

func (c *collections) RemoveEvent(id string) (bool, error) {
	return remove(c.tx, &eventModel{}, id)
}

func (c *collections) Users() ([]domain.User, error) {
	var models []userModel
	if err := c.tx.Order("seq DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, m.toDomain())
	}
	return users, nil
}

func (c *collections) User(id string) (domain.User, error) {
	var m userModel
	if err := first(c.tx, id, &m); err != nil {
		return domain.User{}, err
	}
	return m.toDomain(), nil
}

func (c *collections) PrependUser(user domain.User) error {
	m := userToModel(user)
	if err := c.tx.Create(&m).Error; err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (c *collections) ReplaceUser(user domain.User) (bool, error) {
	return update(c.tx, &userModel{}, user.ID, userToModel(user).assignments())
}

func (c *collections) RemoveUser(id string) (bool, error) {
	return remove(c.tx, &userModel{}, id)
}

func (c *collections) Notifications() ([]domain.Notification, error) {
	var models []notificationModel
	if err := c.tx.Order("seq ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	notifications := make([]domain.Notification, 0, len(models))
	for _, m := range models {
		notifications = append(notifications, m.toDomain())
	}
	return notifications, nil
}

func (c *collections) Notification(id string) (domain.Notification, error) {
	var m notificationModel
	if err := first(c.tx, id, &m); err != nil {
		return domain.Notification{}, err
	}
	return m.toDomain(), nil
}

func (c *collections) AppendNotification(n domain.Notification) error {
	m := notificationToModel(n)
	if err := c.tx.Create(&m).Error; err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (c *collections) ReplaceNotification(n domain.Notification) (bool, error) {
	return update(c.tx, &notificationModel{}, n.ID, notificationToModel(n).assignments())
}

func (c *collections) RemoveNotification(id string) (bool, error) {
	return remove(c.tx, &notificationModel{}, id)
}

func (c *collections) AuditLogs() ([]domain.AuditLog, error) {
	var models []auditLogModel
	if err := c.tx.Order("seq DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	logs := make([]domain.AuditLog, 0, len(models))
	for _, m := range models {
		logs = append(logs, m.toDomain())
	}
	return logs, nil
}

func (c *collections) PrependAuditLog(entry domain.AuditLog) error {
	m := auditLogModel{
		ID:        entry.ID,
		Timestamp: entry.Timestamp.UTC(),
		UserID:    entry.UserID,
		UserName:  entry.UserName,
		Action:    entry.Action,
		Details:   entry.Details,
	}
	if err := c.tx.Create(&m).Error; err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func first(tx *gorm.DB, id string, dest any) error {
	err := tx.Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", id, err)
	}
	return nil
}

func update(tx *gorm.DB, model any, id string, values map[string]any) (bool, error) {
	res := tx.Model(model).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return false, fmt.Errorf("update %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func remove(tx *gorm.DB, model any, id string) (bool, error) {
	res := tx.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return false, fmt.Errorf("delete %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
