package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then metrics are registered under the ballot namespace", func() {
				manager.ballotsSubmitted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["ballot_election_ballots_submitted_total"], ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithKiosk("hall-a"),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and the kiosk label follow the options", func() {
				manager.rosterSize.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() == "test_ns_test_sub_roster_size" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "kiosk")
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "hall-a")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithKiosk(""),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "ballot")
				So(manager.subsystem, ShouldEqual, "election")
				So(manager.customLabels, ShouldBeEmpty)
			})
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global manager is rebuilt with a namespace", t, func() {
		prevManager, prevRegistry := globalManager, customRegistry
		defer func() { globalManager, customRegistry = prevManager, prevRegistry }()

		Configure(WithNamespace("kiosk"), WithKiosk("k1"))
		RecordBallotSubmitted()

		Convey("Then the exported registry carries the renamed series", func() {
			So(GetRegistry(), ShouldNotEqual, prevRegistry)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := map[string]bool{}
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["kiosk_election_ballots_submitted_total"], ShouldBeTrue)
			So(names["ballot_election_ballots_submitted_total"], ShouldBeFalse)
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When a ballot is recorded", func() {
			before := testutil.ToFloat64(globalManager.ballotsSubmitted)
			RecordBallotSubmitted()
			So(testutil.ToFloat64(globalManager.ballotsSubmitted), ShouldEqual, before+1)
		})

		Convey("When votes and abstentions are recorded by office", func() {
			before := testutil.ToFloat64(globalManager.votesByOffice.WithLabelValues("President"))
			RecordVote("President")
			RecordVote("President")
			RecordAbstention("Auditor")
			So(testutil.ToFloat64(globalManager.votesByOffice.WithLabelValues("President")), ShouldEqual, before+2)
			So(testutil.ToFloat64(globalManager.abstentions.WithLabelValues("Auditor")), ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("When gauges are updated", func() {
			UpdateRosterSize(10)
			UpdateTotalVotes(299)
			So(testutil.ToFloat64(globalManager.rosterSize), ShouldEqual, 10)
			So(testutil.ToFloat64(globalManager.totalVotes), ShouldEqual, 299)
		})

		Convey("When the remaining recorders are called", func() {
			So(func() {
				RecordSimulatedVote()
				RecordElectionReset()
				RecordRosterChange("add")
				RecordInsightRequest("ok")
				RecordInsightLatency(420)
				RecordStorageError("put")
				RecordHTTPRequest("ballot", "GET", "200")
				RecordHTTPRequestDuration("ballot", "GET", "200", 1.5)
				RecordErrorByEndpoint("ballot", "POST", "conflict")
			}, ShouldNotPanic)
		})

		Convey("Then the registry exposes them", func() {
			So(GetRegistry(), ShouldNotBeNil)
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		before := testutil.ToFloat64(globalManager.simulatedVotes)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordSimulatedVote()
				}
			}()
		}
		wg.Wait()
		So(testutil.ToFloat64(globalManager.simulatedVotes), ShouldEqual, before+800)
	})
}
