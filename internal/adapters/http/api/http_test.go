package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/bounty/internal/adapters/http/api"
	"github.com/okian/bounty/internal/adapters/identity"
	service "github.com/okian/bounty/internal/app"
	"github.com/okian/bounty/internal/domain/model"
	"github.com/okian/bounty/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var t0 = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	mux    *http.ServeMux
	svc    *service.Service
	clock  *clockwork.FakeClock
	tokens *identity.Tokens
}

func newFixture() *fixture {
	clock := clockwork.NewFakeClockAt(t0)
	svc := service.New(service.WithClock(clock))
	ctx := context.Background()
	So(svc.Start(ctx), ShouldBeNil)
	So(svc.Fund(ctx, model.Identity("maint").Holder(), 5000), ShouldBeNil)

	tokens, err := identity.New("test-secret", "bounty", time.Hour, identity.WithClock(clock))
	So(err, ShouldBeNil)
	mux := http.NewServeMux()
	api.NewServer(svc, tokens).Register(ctx, mux)
	return &fixture{mux: mux, svc: svc, clock: clock, tokens: tokens}
}

func (f *fixture) do(method, path, who string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		So(json.NewEncoder(&buf).Encode(body), ShouldBeNil)
	}
	req := httptest.NewRequest(method, path, &buf)
	if who != "" {
		tok, err := f.tokens.Issue(model.Identity(who))
		So(err, ShouldBeNil)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

func (f *fixture) createEvent() {
	w := f.do("POST", "/events", "maint", map[string]any{
		"event_id":                1,
		"name":                    "sprint",
		"maintainer":              "maint",
		"start_date":              t0.Add(time.Hour),
		"end_date":                t0.Add(24 * time.Hour),
		"reward_split_percentage": []int{5000, 3000, 2000},
		"initial_deposit":         1000,
	})
	So(w.Code, ShouldEqual, http.StatusCreated)
}

func TestServer_Health(t *testing.T) {
	Convey("Given a registered server", t, func() {
		f := newFixture()
		defer f.svc.Stop()

		Convey("Then health responds with JSON", func() {
			w := f.do("GET", "/healthz", "", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]string](w)["status"], ShouldEqual, "ok")
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
		})

		Convey("Then metrics are exposed", func() {
			f.do("GET", "/healthz", "", nil)
			w := f.do("GET", "/metrics", "", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "bounty_events_http_requests_total")
		})

		Convey("Then stats report the service", func() {
			w := f.do("GET", "/stats", "", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]any](w)["started"], ShouldEqual, true)
		})

		Convey("Then a stopped service reports unavailable", func() {
			f.svc.Stop()
			w := f.do("GET", "/stats", "", nil)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decode[map[string]any](w)["started"], ShouldEqual, false)
		})

		Convey("Then a request id is echoed", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			req.Header.Set(api.RequestIDHeader, "abc")
			w := httptest.NewRecorder()
			f.mux.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc")
		})
	})
}

func TestServer_Auth(t *testing.T) {
	Convey("Given a registered server", t, func() {
		f := newFixture()
		defer f.svc.Stop()

		Convey("When a mutation has no token", func() {
			w := f.do("POST", "/events/1/finish", "", nil)

			Convey("Then it is unauthenticated", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When the token has expired", func() {
			tok, err := f.tokens.Issue("maint")
			So(err, ShouldBeNil)
			f.clock.Advance(2 * time.Hour)

			req := httptest.NewRequest("POST", "/events/1/finish", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			w := httptest.NewRecorder()
			f.mux.ServeHTTP(w, req)

			Convey("Then it is unauthenticated", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When the caller is not the named maintainer", func() {
			w := f.do("POST", "/events", "mallory", map[string]any{
				"event_id":                1,
				"name":                    "sprint",
				"maintainer":              "maint",
				"start_date":              t0.Add(time.Hour),
				"end_date":                t0.Add(24 * time.Hour),
				"reward_split_percentage": []int{5000, 3000, 2000},
			})

			Convey("Then it is forbidden", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)
				So(decode[map[string]string](w)["code"], ShouldEqual, "identity_mismatch")
			})
		})
	})
}

func TestServer_EventFlow(t *testing.T) {
	Convey("Given an event created over HTTP", t, func() {
		f := newFixture()
		defer f.svc.Stop()
		f.createEvent()

		Convey("When reading it back", func() {
			w := f.do("GET", "/events/1", "", nil)

			Convey("Then the split is preserved", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"reward_split_percentage":[5000,3000,2000]`)
			})
		})

		Convey("When the id is not a number", func() {
			w := f.do("GET", "/events/abc", "", nil)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the event does not exist", func() {
			w := f.do("GET", "/events/9/winners", "", nil)

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When a stranger adds issues", func() {
			w := f.do("POST", "/events/1/issues", "mallory", map[string]any{
				"issues": []map[string]any{{"issue_id": 1, "points": 5}},
			})

			Convey("Then it is forbidden", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)
			})
		})

		Convey("When the body has unknown fields", func() {
			w := f.do("POST", "/events/1/deposits", "maint", map[string]any{"amount": 1, "extra": true})

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the full lifecycle runs", func() {
			w := f.do("POST", "/events/1/issues", "maint", map[string]any{
				"issues": []map[string]any{
					{"issue_id": 1, "points": 10},
					{"issue_id": 2, "points": 7},
					{"issue_id": 3, "points": 3},
				},
			})
			So(w.Code, ShouldEqual, http.StatusOK)

			f.clock.Advance(2 * time.Hour)
			for id, who := range map[int]string{1: "alice", 2: "bob", 3: "carol"} {
				w := f.do("POST", fmt.Sprintf("/events/1/issues/%d/resolve", id), "maint", map[string]string{"contributor": who})
				So(w.Code, ShouldEqual, http.StatusOK)
			}

			w = f.do("POST", "/events/1/finish", "maint", nil)
			So(w.Code, ShouldEqual, http.StatusConflict)
			So(decode[map[string]string](w)["code"], ShouldEqual, "temporal")

			lb := decode[service.Standings](f.do("GET", "/events/1/leaderboard?limit=2", "", nil))
			So(lb.Entries, ShouldHaveLength, 2)
			So(lb.Entries[0].Contributor, ShouldEqual, model.Identity("alice"))
			So(lb.TotalPoints, ShouldEqual, 20)

			f.clock.Advance(23 * time.Hour)
			w = f.do("POST", "/events/1/finish", "maint", nil)
			So(w.Code, ShouldEqual, http.StatusCreated)

			Convey("Then winners claim their shares", func() {
				r := decode[service.ClaimReceipt](f.do("POST", "/events/1/claim", "alice", nil))
				So(r.Amount, ShouldEqual, 500)
				So(r.Rank, ShouldEqual, "winner")

				w := f.do("POST", "/events/1/claim", "alice", nil)
				So(w.Code, ShouldEqual, http.StatusConflict)

				w = f.do("POST", "/events/1/claim", "dave", nil)
				So(w.Code, ShouldEqual, http.StatusNotFound)

				w = f.do("GET", "/balances/account/alice", "", nil)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"holder":"account/alice","amount":500}`)

				esc := decode[service.EscrowState](f.do("GET", "/events/1/escrow", "", nil))
				So(esc.Balance, ShouldEqual, 500)
			})

			Convey("Then the remainder stays locked until all claim", func() {
				w := f.do("POST", "/events/1/reclaim", "maint", nil)
				So(w.Code, ShouldEqual, http.StatusConflict)
			})
		})
	})
}
