package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/ballot/internal/adapters/repository"
	"github.com/okian/ballot/internal/adapters/storage"
	"github.com/okian/ballot/internal/domain/model"
	"github.com/okian/ballot/internal/domain/tally"
	"github.com/okian/ballot/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// flakyBlobs wraps Memory and fails writes to chosen keys.
type flakyBlobs struct {
	*storage.Memory
	failPut    map[string]bool
	failDelete map[string]bool
	failGet    bool
}

var errBoom = errors.New("disk on fire")

func (f *flakyBlobs) Put(ctx context.Context, key string, v []byte) error {
	if f.failPut[key] {
		return errBoom
	}
	return f.Memory.Put(ctx, key, v)
}

func (f *flakyBlobs) Delete(ctx context.Context, key string) error {
	if f.failDelete[key] {
		return errBoom
	}
	return f.Memory.Delete(ctx, key)
}

func (f *flakyBlobs) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errBoom
	}
	return f.Memory.Get(ctx, key)
}

func fullBallot(president string) model.Selections {
	sel := model.Selections{}
	for _, o := range model.Offices() {
		sel[o] = model.Abstain
	}
	sel[model.President] = president
	return sel
}

func TestCandidateStore_Load(t *testing.T) {
	Convey("Given empty blob storage", t, func() {
		ctx := context.Background()
		blobs := storage.NewMemory()
		s := repository.NewCandidateStore(blobs)

		Convey("When loading", func() {
			So(s.Load(ctx), ShouldBeNil)

			Convey("Then the default roster is used and nobody has voted", func() {
				So(s.List(ctx), ShouldResemble, model.DefaultRoster())
				So(s.Voted(ctx), ShouldBeFalse)
			})
		})

		Convey("When state was persisted by an earlier store", func() {
			first := repository.NewCandidateStore(blobs)
			So(first.Load(ctx), ShouldBeNil)
			_, err := first.RecordBallot(ctx, fullBallot("p2"))
			So(err, ShouldBeNil)

			So(s.Load(ctx), ShouldBeNil)

			Convey("Then the counters and marker survive", func() {
				c, err := s.Get(ctx, "p2")
				So(err, ShouldBeNil)
				So(c.Votes, ShouldEqual, 39)
				So(s.Voted(ctx), ShouldBeTrue)
			})
		})

		Convey("When the candidate blob is corrupt", func() {
			So(blobs.Put(ctx, repository.KeyCandidates, []byte("{not json")), ShouldBeNil)
			So(s.Load(ctx), ShouldBeNil)

			Convey("Then the seed roster is used", func() {
				So(s.Count(ctx), ShouldEqual, len(model.DefaultRoster()))
			})
		})

		Convey("When the blob holds unusable entries", func() {
			So(blobs.Put(ctx, repository.KeyCandidates, []byte(`[
				{"id":"a","name":"A","office":"President","votes":3},
				{"id":"a","name":"Dup","office":"President","votes":9},
				{"id":"t","name":"T","office":"Treasurer","votes":1},
				{"id":"","name":"NoID","office":"Auditor"},
				{"id":"n","name":"N","office":"Auditor","votes":-4}
			]`)), ShouldBeNil)
			So(s.Load(ctx), ShouldBeNil)

			Convey("Then only valid entries are kept and counters are non-negative", func() {
				list := s.List(ctx)
				So(len(list), ShouldEqual, 2)
				So(list[0].Name, ShouldEqual, "A")
				So(list[1].Votes, ShouldEqual, 0)
			})
		})

		Convey("When storage reads fail", func() {
			bad := repository.NewCandidateStore(&flakyBlobs{Memory: storage.NewMemory(), failGet: true})
			err := bad.Load(ctx)
			So(errors.Is(err, repository.ErrPersist), ShouldBeTrue)
		})
	})
}

func TestCandidateStore_RecordBallot(t *testing.T) {
	Convey("Given a roster with A and B for President", t, func() {
		ctx := context.Background()
		seed := func() []model.Candidate {
			return []model.Candidate{
				{ID: "a", Name: "A", Office: model.President},
				{ID: "b", Name: "B", Office: model.President},
				{ID: "s", Name: "S", Office: model.Secretary, Votes: 7},
			}
		}
		blobs := storage.NewMemory()
		s := repository.NewCandidateStore(blobs, repository.WithSeed(seed))
		So(s.Load(ctx), ShouldBeNil)

		Convey("When A is chosen with abstentions elsewhere", func() {
			out, err := s.RecordBallot(ctx, fullBallot("a"))
			So(err, ShouldBeNil)

			Convey("Then A=1, B=0 and other offices are unchanged", func() {
				So(out[0].Votes, ShouldEqual, 1)
				So(out[1].Votes, ShouldEqual, 0)
				So(out[2].Votes, ShouldEqual, 7)
				So(s.Voted(ctx), ShouldBeTrue)
			})

			Convey("Then both blobs are written", func() {
				v, found, _ := blobs.Get(ctx, repository.KeyVoted)
				So(found, ShouldBeTrue)
				So(string(v), ShouldEqual, "true")
				_, found, _ = blobs.Get(ctx, repository.KeyCandidates)
				So(found, ShouldBeTrue)
			})
		})

		Convey("When the candidate write fails", func() {
			flaky := &flakyBlobs{Memory: storage.NewMemory(), failPut: map[string]bool{repository.KeyCandidates: true}}
			fs := repository.NewCandidateStore(flaky, repository.WithSeed(seed))
			So(fs.Load(ctx), ShouldBeNil)
			_, err := fs.RecordBallot(ctx, fullBallot("a"))

			Convey("Then nothing changes in memory", func() {
				So(errors.Is(err, repository.ErrPersist), ShouldBeTrue)
				So(tally.TotalVotes(fs.List(ctx)), ShouldEqual, 7)
				So(fs.Voted(ctx), ShouldBeFalse)
			})
		})

		Convey("When the marker write fails and storage then recovers", func() {
			flaky := &flakyBlobs{Memory: storage.NewMemory(), failPut: map[string]bool{repository.KeyVoted: true}}
			fs := repository.NewCandidateStore(flaky, repository.WithSeed(seed))
			So(fs.Load(ctx), ShouldBeNil)
			_, err := fs.RecordBallot(ctx, fullBallot("a"))
			So(errors.Is(err, repository.ErrPersist), ShouldBeTrue)

			Convey("Then memory and the stored roster keep the old counters", func() {
				So(tally.TotalVotes(fs.List(ctx)), ShouldEqual, 7)
				So(fs.Voted(ctx), ShouldBeFalse)

				reloaded := repository.NewCandidateStore(flaky.Memory, repository.WithSeed(seed))
				So(reloaded.Load(ctx), ShouldBeNil)
				a, err := reloaded.Get(ctx, "a")
				So(err, ShouldBeNil)
				So(a.Votes, ShouldEqual, 0)
			})

			Convey("Then a retry counts the ballot exactly once", func() {
				delete(flaky.failPut, repository.KeyVoted)
				out, err := fs.RecordBallot(ctx, fullBallot("a"))
				So(err, ShouldBeNil)
				So(out[0].Votes, ShouldEqual, 1)
				So(fs.Voted(ctx), ShouldBeTrue)
			})
		})
	})
}

func TestCandidateStore_Roster(t *testing.T) {
	Convey("Given a loaded default store", t, func() {
		ctx := context.Background()
		blobs := storage.NewMemory()
		s := repository.NewCandidateStore(blobs)
		So(s.Load(ctx), ShouldBeNil)

		Convey("When appending", func() {
			So(s.Append(ctx, model.Candidate{ID: "new", Name: "N", Office: model.Auditor}), ShouldBeNil)
			So(s.Count(ctx), ShouldEqual, 11)
			So(s.List(ctx)[10].ID, ShouldEqual, "new")

			Convey("Then a duplicate id is rejected", func() {
				err := s.Append(ctx, model.Candidate{ID: "new", Office: model.Auditor})
				So(errors.Is(err, repository.ErrDuplicateID), ShouldBeTrue)
				So(s.Count(ctx), ShouldEqual, 11)
			})
		})

		Convey("When renaming", func() {
			c, err := s.Rename(ctx, "p1", "Alice S.")
			So(err, ShouldBeNil)
			So(c.Name, ShouldEqual, "Alice S.")
			So(c.Votes, ShouldEqual, 42)
			So(c.Office, ShouldEqual, model.President)

			_, err = s.Rename(ctx, "ghost", "x")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When removing", func() {
			removed, err := s.Remove(ctx, "aud1")
			So(err, ShouldBeNil)
			So(removed.Votes, ShouldEqual, 55)

			Convey("Then its votes leave every aggregate", func() {
				_, err := s.Get(ctx, "aud1")
				So(err, ShouldEqual, repository.ErrNotFound)
				So(tally.TotalVotes(s.List(ctx)), ShouldEqual, 299-55)
			})

			Convey("Then removing again is not found", func() {
				_, err := s.Remove(ctx, "aud1")
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When a vote is added directly", func() {
			So(s.AddVote(ctx, "sec1"), ShouldBeNil)
			c, _ := s.Get(ctx, "sec1")
			So(c.Votes, ShouldEqual, 16)
			So(s.AddVote(ctx, "ghost"), ShouldEqual, repository.ErrNotFound)
		})

		Convey("When the list copy is modified", func() {
			list := s.List(ctx)
			list[0].Votes = 1000
			c, _ := s.Get(ctx, "p1")
			So(c.Votes, ShouldEqual, 42)
		})

		Convey("When reset cannot delete the roster blob", func() {
			flaky := &flakyBlobs{Memory: storage.NewMemory(), failDelete: map[string]bool{repository.KeyCandidates: true}}
			fs := repository.NewCandidateStore(flaky)
			So(fs.Load(ctx), ShouldBeNil)
			_, err := fs.RecordBallot(ctx, fullBallot("p1"))
			So(err, ShouldBeNil)
			err = fs.Reset(ctx)

			Convey("Then memory is unchanged and both blobs are still stored", func() {
				So(errors.Is(err, repository.ErrPersist), ShouldBeTrue)
				So(fs.Voted(ctx), ShouldBeTrue)
				v, found, _ := flaky.Memory.Get(ctx, repository.KeyVoted)
				So(found, ShouldBeTrue)
				So(string(v), ShouldEqual, "true")
				_, found, _ = flaky.Memory.Get(ctx, repository.KeyCandidates)
				So(found, ShouldBeTrue)
			})
		})

		Convey("When reset cannot delete the marker", func() {
			flaky := &flakyBlobs{Memory: storage.NewMemory(), failDelete: map[string]bool{repository.KeyVoted: true}}
			fs := repository.NewCandidateStore(flaky)
			So(fs.Load(ctx), ShouldBeNil)
			_, err := fs.RecordBallot(ctx, fullBallot("p1"))
			So(err, ShouldBeNil)
			before := tally.TotalVotes(fs.List(ctx))
			err = fs.Reset(ctx)

			Convey("Then the roster blob is left in place", func() {
				So(errors.Is(err, repository.ErrPersist), ShouldBeTrue)
				So(tally.TotalVotes(fs.List(ctx)), ShouldEqual, before)
				_, found, _ := flaky.Memory.Get(ctx, repository.KeyCandidates)
				So(found, ShouldBeTrue)
			})
		})

		Convey("When reset after changes", func() {
			_, err := s.RecordBallot(ctx, fullBallot("p1"))
			So(err, ShouldBeNil)
			_, err = s.Remove(ctx, "p2")
			So(err, ShouldBeNil)
			So(s.Reset(ctx), ShouldBeNil)

			Convey("Then defaults return and both keys are gone", func() {
				So(s.List(ctx), ShouldResemble, model.DefaultRoster())
				So(s.Voted(ctx), ShouldBeFalse)
				_, found, _ := blobs.Get(ctx, repository.KeyCandidates)
				So(found, ShouldBeFalse)
				_, found, _ = blobs.Get(ctx, repository.KeyVoted)
				So(found, ShouldBeFalse)
			})
		})
	})
}
