package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/bounty/internal/adapters/identity"
	app "github.com/okian/bounty/internal/app"
	"github.com/okian/bounty/internal/config"
	"github.com/okian/bounty/internal/domain/model"
	"github.com/okian/bounty/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("BOUNTY_ADDR", ":8080")
			_ = os.Setenv("BOUNTY_LEADERBOARD_CAPACITY", "10")
			_ = os.Setenv("BOUNTY_JWT_SECRET", "main-test-secret")
			defer func() {
				_ = os.Unsetenv("BOUNTY_ADDR")
				_ = os.Unsetenv("BOUNTY_LEADERBOARD_CAPACITY")
				_ = os.Unsetenv("BOUNTY_JWT_SECRET")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LeaderboardCapacity, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When building the service from config", func() {
			cfg := config.New()
			svc := newService(cfg, logger.Get())
			ctx := context.Background()
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then genesis holdings are seeded once", func() {
				g := config.Genesis{
					Balances:     map[string]uint64{"maint": 500},
					Collectibles: map[string]string{"trophy": "maint"},
				}
				convey.So(seedGenesis(ctx, svc, g), convey.ShouldBeNil)
				convey.So(seedGenesis(ctx, svc, g), convey.ShouldBeNil)

				bal, err := svc.Balance(ctx, model.Identity("maint").Holder())
				convey.So(err, convey.ShouldBeNil)
				convey.So(bal, convey.ShouldEqual, 500)
			})

			convey.Convey("Then the HTTP server serves the API", func() {
				tokens, err := identity.New("secret", cfg.JWTIssuer, time.Hour)
				convey.So(err, convey.ShouldBeNil)
				srv := newHTTPServer(ctx, ":0", svc, tokens, logger.Get())
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)

				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("Then the scheduler starts and stops", func() {
				sched, err := startScheduler(ctx, svc, 10*time.Millisecond)
				convey.So(err, convey.ShouldBeNil)
				time.Sleep(30 * time.Millisecond)
				convey.So(sched.Shutdown(), convey.ShouldBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When the log level is invalid", func() {
			cfg := config.New()
			cfg.LogLevel = "loud"

			convey.Convey("Then logging falls back without failing", func() {
				convey.So(configureLogging(context.Background(), cfg), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the service has no store", func() {
			svc := app.New()

			convey.Convey("Then stats still answer", func() {
				convey.So(svc.GetStats(context.Background())["started"], convey.ShouldEqual, false)
			})
		})
	})
}
