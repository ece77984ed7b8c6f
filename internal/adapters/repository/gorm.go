package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okian/bounty/internal/domain/keys"
)

// recordRow is the single table every namespace is stored in.
type recordRow struct {
	Key       string `gorm:"column:record_key;primaryKey;size:128"`
	Namespace string `gorm:"column:namespace;index;size:32;not null"`
	Data      []byte `gorm:"column:data;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (recordRow) TableName() string { return "records" }

// GormStore keeps records in a SQL database through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the records table and returns a store over db.
func NewGormStore(ctx context.Context, db *gorm.DB) (*GormStore, error) {
	if err := db.WithContext(ctx).AutoMigrate(&recordRow{}); err != nil {
		return nil, fmt.Errorf("migrate records: %w", err)
	}
	return &GormStore{db: db}, nil
}

type gormTx struct {
	db       *gorm.DB
	writable bool
}

func (s *GormStore) Update(ctx context.Context, fn func(Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db, writable: true})
	})
}

func (s *GormStore) View(ctx context.Context, fn func(Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db})
	})
}

func (s *GormStore) Count(ctx context.Context, namespace string) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&recordRow{}).Where("namespace = ?", namespace).Count(&n).Error
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// take loads the row at k, locking it for the rest of a writable transaction.
func (t *gormTx) take(k string) (*recordRow, error) {
	q := t.db
	if t.writable {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	row := &recordRow{}
	if err := q.Where("record_key = ?", k).Take(row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row, nil
}

func (t *gormTx) Create(key keys.Key, rec any) error {
	if !t.writable {
		return ErrReadOnly
	}
	ok, err := t.Exists(key)
	if err != nil {
		return err
	}
	if ok {
		return ErrAlreadyExists
	}
	b, err := encode(key, rec)
	if err != nil {
		return err
	}
	err = t.db.Create(&recordRow{Key: key.String(), Namespace: key.Namespace, Data: b}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

func (t *gormTx) Read(key keys.Key, out any) error {
	row, err := t.take(key.String())
	if err != nil {
		return err
	}
	return decode(key, row.Data, out)
}

func (t *gormTx) Write(key keys.Key, rec any) error {
	if !t.writable {
		return ErrReadOnly
	}
	b, err := encode(key, rec)
	if err != nil {
		return err
	}
	res := t.db.Model(&recordRow{}).
		Where("record_key = ?", key.String()).
		Updates(map[string]any{"data": b, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *gormTx) Exists(key keys.Key) (bool, error) {
	var n int64
	if err := t.db.Model(&recordRow{}).Where("record_key = ?", key.String()).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
