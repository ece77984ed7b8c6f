package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/bounty/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()
		_ = os.Setenv("BOUNTY_JWT_SECRET", "test-secret")

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "memory")
				convey.So(cfg.IssueBookCapacity, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BOUNTY_ADDR", ":8080")
			_ = os.Setenv("BOUNTY_ISSUE_BOOK_CAPACITY", "10")
			_ = os.Setenv("BOUNTY_TOKEN_TTL", "90m")
			_ = os.Setenv("BOUNTY_JWT_SECRET", "s3cret")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.IssueBookCapacity, convey.ShouldEqual, 10)
				convey.So(cfg.TokenTTL, convey.ShouldEqual, 90*time.Minute)
				convey.So(cfg.JWTSecret, convey.ShouldEqual, "s3cret")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
store_driver: sqlite
store_dsn: "file::memory:"
leaderboard_capacity: 20
genesis:
  balances:
    alice: 1000
  collectibles:
    trophy-1: alice
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("BOUNTY_CONFIG", tmpFile)
			_ = os.Setenv("BOUNTY_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply and env still wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.LeaderboardCapacity, convey.ShouldEqual, 20)
				convey.So(cfg.IssueBookCapacity, convey.ShouldEqual, 50)
				convey.So(cfg.Genesis.Balances["alice"], convey.ShouldEqual, 1000)
				convey.So(cfg.Genesis.Collectibles["trophy-1"], convey.ShouldEqual, "alice")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("BOUNTY_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("BOUNTY_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty addr", func() {
			tmpFile := createTempConfigFile(`addr: ""`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("BOUNTY_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When no jwt secret is configured", func() {
			_ = os.Unsetenv("BOUNTY_JWT_SECRET")

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation refuses to start without one", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "jwt_secret")
			})
		})

		convey.Convey("When a database driver has no dsn", func() {
			_ = os.Setenv("BOUNTY_STORE_DRIVER", "postgres")

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "store_dsn")
			})
		})

		convey.Convey("When the driver is unknown", func() {
			_ = os.Setenv("BOUNTY_STORE_DRIVER", "redis")

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the leaderboard cannot hold a podium", func() {
			_ = os.Setenv("BOUNTY_LEADERBOARD_CAPACITY", "2")

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("BOUNTY_ISSUE_BOOK_CAPACITY", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"BOUNTY_CONFIG",
		"BOUNTY_ADDR",
		"BOUNTY_ISSUE_BOOK_CAPACITY",
		"BOUNTY_LEADERBOARD_CAPACITY",
		"BOUNTY_TOKEN_TTL",
		"BOUNTY_JWT_SECRET",
		"BOUNTY_STORE_DRIVER",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "bounty-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
