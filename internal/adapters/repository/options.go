package repository

import (
	"gorm.io/gorm"

	"github.com/okian/bounty/pkg/logger"
)

// Option configures a Store built by Open.
type Option func(*options)

type options struct {
	log        logger.Logger
	gormConfig *gorm.Config
}

// WithLogger sets the logger used by the store.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithGormConfig overrides the gorm configuration of SQL-backed stores.
func WithGormConfig(c *gorm.Config) Option {
	return func(o *options) {
		if c != nil {
			o.gormConfig = c
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{gormConfig: &gorm.Config{}}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Named("repository")
	}
	// Duplicate primary keys are reported as gorm.ErrDuplicatedKey.
	o.gormConfig.TranslateError = true
	return o
}
