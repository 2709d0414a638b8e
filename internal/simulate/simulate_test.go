package simulate_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ballot/internal/domain/model"
	"github.com/okian/ballot/internal/simulate"
	"github.com/okian/ballot/pkg/logger"
)

func init() {
	_ = logger.Init()
}

type fakeTarget struct {
	mu    sync.Mutex
	cands []model.Candidate
	err   error
}

func (f *fakeTarget) List(context.Context) []model.Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.CloneCandidates(f.cands)
}

func (f *fakeTarget) AddVote(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.cands {
		if f.cands[i].ID == id {
			f.cands[i].Votes++
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeTarget) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.cands {
		n += c.Votes
	}
	return n
}

func seeded() simulate.Option {
	return simulate.WithRand(rand.New(rand.NewPCG(1, 2)))
}

func TestStep(t *testing.T) {
	Convey("Given the default roster", t, func() {
		ctx := context.Background()
		target := &fakeTarget{cands: model.DefaultRoster()}
		sim := simulate.New(target, seeded())
		before := target.total()

		Convey("When stepping many times", func() {
			cast := 0
			for i := 0; i < 1000; i++ {
				id, err := sim.Step(ctx)
				So(err, ShouldBeNil)
				if id != "" {
					cast++
				}
			}

			Convey("Then each cast vote adds exactly one and roughly 90% of ticks vote", func() {
				So(target.total(), ShouldEqual, before+cast)
				So(cast, ShouldBeBetween, 850, 950)
			})
		})
	})

	Convey("Given a roster with only a President", t, func() {
		ctx := context.Background()
		target := &fakeTarget{cands: []model.Candidate{{ID: "p", Office: model.President}}}
		sim := simulate.New(target, seeded())

		for i := 0; i < 200; i++ {
			id, err := sim.Step(ctx)
			So(err, ShouldBeNil)
			So(id, ShouldBeIn, []string{"", "p"})
		}
		So(target.total(), ShouldBeGreaterThan, 0)
		So(target.total(), ShouldBeLessThan, 200)
	})

	Convey("Given an empty roster nothing happens", t, func() {
		target := &fakeTarget{}
		id, err := simulate.New(target, seeded()).Step(context.Background())
		So(err, ShouldBeNil)
		So(id, ShouldEqual, "")
	})

	Convey("Given a target that rejects votes", t, func() {
		target := &fakeTarget{cands: model.DefaultRoster(), err: errors.New("disk full")}
		sim := simulate.New(target, seeded())
		var err error
		for i := 0; i < 50 && err == nil; i++ {
			_, err = sim.Step(context.Background())
		}
		So(err, ShouldNotBeNil)
	})
}

func TestStartStop(t *testing.T) {
	Convey("Given a fast simulator", t, func() {
		target := &fakeTarget{cands: model.DefaultRoster()}
		sim := simulate.New(target, seeded(), simulate.WithInterval(2*time.Millisecond))
		before := target.total()

		So(sim.Running(), ShouldBeFalse)
		sim.Start(context.Background())
		sim.Start(context.Background())
		So(sim.Running(), ShouldBeTrue)

		deadline := time.Now().Add(2 * time.Second)
		for target.total() == before && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		sim.Stop()
		So(sim.Running(), ShouldBeFalse)
		So(target.total(), ShouldBeGreaterThan, before)

		Convey("Then counters stay put after Stop", func() {
			settled := target.total()
			time.Sleep(20 * time.Millisecond)
			So(target.total(), ShouldEqual, settled)
			sim.Stop()
		})
	})

	Convey("Given a cancelled parent context", t, func() {
		sim := simulate.New(&fakeTarget{}, simulate.WithInterval(time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())
		sim.Start(ctx)
		cancel()

		deadline := time.Now().Add(2 * time.Second)
		for sim.Running() && time.Now().Before(deadline) {
			time.Sleep(2 * time.Millisecond)
		}
		So(sim.Running(), ShouldBeFalse)
	})
}
