package cache

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// translationRow is the postgres table layout
type translationRow struct {
	Key              string `gorm:"primaryKey;size:64"`
	Source           string `gorm:"not null"`
	Translation      string `gorm:"not null"`
	ProviderIdentity string `gorm:"not null;index"`
	LanguagePair     string `gorm:"not null"`
	Checksum         string `gorm:"size:64;not null"`
	CreatedAt        time.Time
}

func (translationRow) TableName() string {
	return "mdtranslate_translations"
}

// PostgresCache stores entries in a shared postgres table
type PostgresCache struct {
	db    *gorm.DB
	stats counters
}

// NewPostgresCache connects with dsn and migrates the table
func NewPostgresCache(dsn string) (*PostgresCache, error) {
	if dsn == "" {
		return nil, &Error{Op: "open", Err: errors.New("postgres DSN is empty")}
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, &Error{Op: "open", Err: fmt.Errorf("failed to connect: %w", err)}
	}
	if err := db.AutoMigrate(&translationRow{}); err != nil {
		return nil, &Error{Op: "open", Err: fmt.Errorf("failed to migrate: %w", err)}
	}
	return &PostgresCache{db: db}, nil
}

// Close releases the connection pool
func (c *PostgresCache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get implements Backend
func (c *PostgresCache) Get(source, identity, langPair string) (string, bool) {
	var row translationRow
	err := c.db.Where("key = ?", Key(source, identity, langPair)).Take(&row).Error

	hit := err == nil && row.Checksum == Checksum(source)
	c.stats.record(hit)
	if !hit {
		return "", false
	}
	return row.Translation, true
}

// Set implements Backend
func (c *PostgresCache) Set(source, translation, identity, langPair string) error {
	e := NewEntry(source, translation, identity, langPair)
	row := translationRow{
		Key:              Key(source, identity, langPair),
		Source:           e.Source,
		Translation:      e.Translation,
		ProviderIdentity: e.ProviderIdentity,
		LanguagePair:     e.LanguagePair,
		Checksum:         e.Checksum,
		CreatedAt:        e.CreatedAt,
	}

	err := c.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return &Error{Op: "set", Key: row.Key, Err: err}
	}
	return nil
}

// Clear implements Backend
func (c *PostgresCache) Clear() error {
	if err := c.db.Exec("TRUNCATE TABLE " + translationRow{}.TableName()).Error; err != nil {
		return &Error{Op: "clear", Err: err}
	}
	c.stats.reset()
	return nil
}

// Entries counts the stored rows
func (c *PostgresCache) Entries() (int, error) {
	var n int64
	if err := c.db.Model(&translationRow{}).Count(&n).Error; err != nil {
		return 0, &Error{Op: "entries", Err: err}
	}
	return int(n), nil
}

// Stats implements Backend. The size includes indexes and toast data.
func (c *PostgresCache) Stats() Stats {
	var size int64
	c.db.Raw("SELECT pg_total_relation_size(?)", translationRow{}.TableName()).Scan(&size)
	return c.stats.snapshot(size)
}
