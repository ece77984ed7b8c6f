package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given a dedicated registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("bounty"),
				WithOperationBuckets([]float64{1, 10}),
				WithHTTPBuckets([]float64{5, 50}),
				WithStoreLabel("sqlite"),
				WithPrometheusRegistry(registry),
			)

			Convey("Then operations are counted per outcome", func() {
				manager.RecordOperation("claim", OutcomeOK, 1.5)
				manager.RecordOperation("claim", OutcomeOK, 2.5)
				manager.RecordOperation("claim", OutcomeRejected, 0.5)

				So(testutil.ToFloat64(manager.operations.WithLabelValues("claim", OutcomeOK)), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.operations.WithLabelValues("claim", OutcomeRejected)), ShouldEqual, 1)
			})

			Convey("Then rejections are counted per kind", func() {
				manager.RecordRejection("finish_event", "temporal")
				So(testutil.ToFloat64(manager.rejections.WithLabelValues("finish_event", "temporal")), ShouldEqual, 1)
			})

			Convey("Then collectors are registered under the namespace", func() {
				manager.RecordOperation("create_event", OutcomeOK, 1)
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_bounty_operations_total"], ShouldBeTrue)

				for _, f := range families {
					if f.GetName() != "test_bounty_operations_total" {
						continue
					}
					labels := map[string]string{}
					for _, lp := range f.GetMetric()[0].GetLabel() {
						labels[lp.GetName()] = lp.GetValue()
					}
					So(labels["store"], ShouldEqual, "sqlite")
				}
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		before := testutil.ToFloat64(globalManager.payoutValue.WithLabelValues("winner"))

		Convey("When recording a payout", func() {
			RecordPayout("winner", 500)

			Convey("Then the value counter grows by the amount", func() {
				after := testutil.ToFloat64(globalManager.payoutValue.WithLabelValues("winner"))
				So(after-before, ShouldEqual, 500)
			})
		})

		Convey("When recording gauges", func() {
			UpdateTrackedEvents(3)
			UpdateSystemGoroutineCount(12)

			Convey("Then they reflect the last value", func() {
				So(testutil.ToFloat64(globalManager.trackedEvents), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldEqual, 12)
			})
		})

		Convey("Then the registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
