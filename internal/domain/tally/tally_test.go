package tally_test

import (
	"testing"

	"github.com/okian/ballot/internal/domain/model"
	"github.com/okian/ballot/internal/domain/tally"
	. "github.com/smartystreets/goconvey/convey"
)

func twoPresidents() []model.Candidate {
	return []model.Candidate{
		{ID: "a", Name: "A", Office: model.President},
		{ID: "b", Name: "B", Office: model.President},
	}
}

func abstainRest(sel model.Selections) model.Selections {
	for _, o := range model.Offices() {
		if sel[o] == "" {
			sel[o] = model.Abstain
		}
	}
	return sel
}

func TestApply(t *testing.T) {
	Convey("Given two presidential candidates with no votes", t, func() {
		roster := twoPresidents()

		Convey("When A is chosen and every other office abstains", func() {
			sel := abstainRest(model.Selections{model.President: "a"})
			out := tally.Apply(roster, sel)

			Convey("Then A has one vote and B none", func() {
				So(out[0].Votes, ShouldEqual, 1)
				So(out[1].Votes, ShouldEqual, 0)
			})

			Convey("And the input roster is untouched", func() {
				So(roster[0].Votes, ShouldEqual, 0)
			})
		})

		Convey("When every office abstains", func() {
			out := tally.Apply(roster, abstainRest(model.Selections{}))

			Convey("Then no counter moves", func() {
				So(tally.TotalVotes(out), ShouldEqual, 0)
			})
		})
	})

	Convey("Given the default roster", t, func() {
		roster := model.DefaultRoster()
		sel := model.Selections{
			model.President:     "p2",
			model.VicePresident: "vp1",
			model.Secretary:     model.Abstain,
			model.Auditor:       "aud2",
			model.SgtAtArms:     "saa1",
		}

		Convey("When the ballot is applied", func() {
			out := tally.Apply(roster, sel)

			Convey("Then exactly the chosen candidates gain one vote each", func() {
				chosen := map[string]bool{"p2": true, "vp1": true, "aud2": true, "saa1": true}
				for i := range roster {
					want := roster[i].Votes
					if chosen[roster[i].ID] {
						want++
					}
					So(out[i].Votes, ShouldEqual, want)
				}
				So(tally.TotalVotes(out), ShouldEqual, tally.TotalVotes(roster)+4)
			})
		})

		Convey("When a choice names a candidate from another office", func() {
			bad := model.Selections{model.President: "vp1"}
			out := tally.Apply(roster, abstainRest(bad))

			Convey("Then nothing is counted", func() {
				So(tally.TotalVotes(out), ShouldEqual, tally.TotalVotes(roster))
			})
		})
	})
}

func TestViews(t *testing.T) {
	Convey("Given the default roster", t, func() {
		roster := model.DefaultRoster()

		Convey("Then total votes is the counter sum", func() {
			So(tally.TotalVotes(roster), ShouldEqual, 299)
		})

		Convey("Then ballots cast is floor(total / 5)", func() {
			So(tally.ApproxBallotsCast(roster), ShouldEqual, 59)
		})

		Convey("Then the vice-presidential leaderboard is ordered by votes", func() {
			board := tally.Leaderboard(roster, model.VicePresident)
			So(len(board), ShouldEqual, 2)
			So(board[0].ID, ShouldEqual, "vp2")
			So(board[1].ID, ShouldEqual, "vp1")
		})

		Convey("Then the global leader is Grace Hopper", func() {
			leader, ok := tally.GlobalLeader(roster)
			So(ok, ShouldBeTrue)
			So(leader.ID, ShouldEqual, "aud1")
		})

		Convey("Then standings cover every office in ballot order", func() {
			st := tally.Standings(roster)
			So(len(st), ShouldEqual, 5)
			So(st[0].Office, ShouldEqual, model.President)
			So(st[0].TotalVotes, ShouldEqual, 80)
			So(st[4].Office, ShouldEqual, model.SgtAtArms)
		})
	})

	Convey("Given tied candidates", t, func() {
		roster := []model.Candidate{
			{ID: "x", Office: model.Secretary, Votes: 3},
			{ID: "y", Office: model.Secretary, Votes: 5},
			{ID: "z", Office: model.Secretary, Votes: 3},
			{ID: "w", Office: model.Auditor, Votes: 5},
		}

		Convey("Then ties keep roster order on the leaderboard", func() {
			board := tally.Leaderboard(roster, model.Secretary)
			So([]string{board[0].ID, board[1].ID, board[2].ID}, ShouldResemble, []string{"y", "x", "z"})
		})

		Convey("Then the earliest tied candidate leads globally", func() {
			leader, _ := tally.GlobalLeader(roster)
			So(leader.ID, ShouldEqual, "y")
		})
	})

	Convey("Given an empty roster", t, func() {
		Convey("Then there is no leader and standings are empty boards", func() {
			_, ok := tally.GlobalLeader(nil)
			So(ok, ShouldBeFalse)
			s := tally.Summarize(nil)
			So(s.Leader, ShouldBeNil)
			So(s.TotalVotes, ShouldEqual, 0)
			So(len(s.Standings), ShouldEqual, 5)
			So(len(s.Standings[2].Candidates), ShouldEqual, 0)
		})
	})

	Convey("Given a removed candidate", t, func() {
		roster := model.DefaultRoster()
		kept := make([]model.Candidate, 0, len(roster))
		for _, c := range roster {
			if c.ID != "aud1" {
				kept = append(kept, c)
			}
		}

		Convey("Then its votes are absent from every aggregate", func() {
			s := tally.Summarize(kept)
			So(s.TotalVotes, ShouldEqual, 299-55)
			So(s.ApproxBallotsCast, ShouldEqual, (299-55)/5)
			So(s.Leader.ID, ShouldEqual, "p1")
			for _, st := range s.Standings {
				for _, c := range st.Candidates {
					So(c.ID, ShouldNotEqual, "aud1")
				}
			}
			So(s.Standings[3].TotalVotes, ShouldEqual, 31)
		})
	})
}
