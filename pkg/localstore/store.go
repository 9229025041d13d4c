package localstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tallypos/terminal/pkg/config"
	"github.com/tallypos/terminal/pkg/logger"
)

// credentialRowID pins the persisted token to a single row: one till, one
// signed-in cashier at a time.
const credentialRowID = 1

// Credential holds the raw access token restored at startup.
type Credential struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"not null"`
	UpdatedAt time.Time
}

// ReceiptArchive keeps rendered receipts so the cashier can reprint after a
// disconnect. The body is the exact fixed-width text that was printed.
type ReceiptArchive struct {
	ID              uint   `gorm:"primaryKey"`
	TransactionCode string `gorm:"uniqueIndex;not null"`
	Body            string `gorm:"not null"`
	PrintedAt       time.Time
}

// Store wraps the terminal's local sqlite file.
type Store struct {
	conn *gorm.DB
}

// Open boots the local store and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig, logg *logger.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("local store path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	if err := conn.AutoMigrate(&Credential{}, &ReceiptArchive{}); err != nil {
		return nil, fmt.Errorf("migrating local store: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "local store opened")
	}
	return &Store{conn: conn}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveToken persists the access token, replacing any previous one.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	cred := Credential{ID: credentialRowID, Token: token}
	return s.conn.WithContext(ctx).Save(&cred).Error
}

// LoadToken returns the persisted token, or "" when none is stored.
func (s *Store) LoadToken(ctx context.Context) (string, error) {
	var cred Credential
	err := s.conn.WithContext(ctx).First(&cred, credentialRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cred.Token, nil
}

// ClearToken removes the persisted token. Idempotent.
func (s *Store) ClearToken(ctx context.Context) error {
	return s.conn.WithContext(ctx).Delete(&Credential{}, credentialRowID).Error
}

// SaveReceipt archives a rendered receipt, overwriting a prior render for
// the same transaction code.
func (s *Store) SaveReceipt(ctx context.Context, code, body string, printedAt time.Time) error {
	if code == "" {
		return fmt.Errorf("transaction code is required")
	}
	var existing ReceiptArchive
	err := s.conn.WithContext(ctx).Where("transaction_code = ?", code).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.conn.WithContext(ctx).Create(&ReceiptArchive{
			TransactionCode: code,
			Body:            body,
			PrintedAt:       printedAt,
		}).Error
	}
	existing.Body = body
	existing.PrintedAt = printedAt
	return s.conn.WithContext(ctx).Save(&existing).Error
}

// ReceiptByCode returns the archived receipt for the given code.
func (s *Store) ReceiptByCode(ctx context.Context, code string) (*ReceiptArchive, error) {
	var receipt ReceiptArchive
	if err := s.conn.WithContext(ctx).Where("transaction_code = ?", code).First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

// RecentReceipts lists the most recently printed receipts, newest first.
func (s *Store) RecentReceipts(ctx context.Context, limit int) ([]ReceiptArchive, error) {
	if limit <= 0 {
		limit = 20
	}
	var receipts []ReceiptArchive
	err := s.conn.WithContext(ctx).
		Order("printed_at DESC").
		Limit(limit).
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}
