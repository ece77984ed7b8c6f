package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/bounty/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverMemory)
			convey.So(cfg.IssueBookCapacity, convey.ShouldEqual, 50)
			convey.So(cfg.LeaderboardCapacity, convey.ShouldEqual, 100)
			convey.So(cfg.MaxNameLength, convey.ShouldEqual, 32)
			convey.So(cfg.TokenTTL, convey.ShouldEqual, 24*time.Hour)
		})

		convey.Convey("Then it has no signing secret and does not validate", func() {
			convey.So(cfg.JWTSecret, convey.ShouldBeEmpty)
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "jwt_secret")
		})

		convey.Convey("When a secret is set", func() {
			cfg.JWTSecret = "s3cret"

			convey.Convey("Then the defaults validate", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}
