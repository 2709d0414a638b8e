// Package tally applies ballots to the roster and derives read-only views
// over vote counters. Everything here is pure: inputs are never mutated.
package tally

import (
	"sort"

	"github.com/okian/ballot/internal/domain/model"
)

// Apply returns a copy of candidates with one vote added to every candidate
// chosen in sel. Abstentions and ids that don't belong to the office they
// were recorded under add nothing.
func Apply(candidates []model.Candidate, sel model.Selections) []model.Candidate {
	out := model.CloneCandidates(candidates)
	for i := range out {
		if choice := sel[out[i].Office]; choice != "" && choice != model.Abstain && choice == out[i].ID {
			out[i].Votes++
		}
	}
	return out
}

// TotalVotes sums every counter on the roster.
func TotalVotes(candidates []model.Candidate) int {
	total := 0
	for _, c := range candidates {
		total += c.Votes
	}
	return total
}

// ApproxBallotsCast estimates ballots as floor(total votes / offices).
// Abstentions are not tracked, so this undercounts whenever voters abstain.
func ApproxBallotsCast(candidates []model.Candidate) int {
	return TotalVotes(candidates) / model.OfficeCount()
}

// Leaderboard returns the candidates for office ordered by votes desc.
// Ties keep roster order.
func Leaderboard(candidates []model.Candidate, office model.Office) []model.Candidate {
	board := make([]model.Candidate, 0, 2)
	for _, c := range candidates {
		if c.Office == office {
			board = append(board, c)
		}
	}
	sort.SliceStable(board, func(i, j int) bool { return board[i].Votes > board[j].Votes })
	return board
}

// GlobalLeader returns the candidate with the most votes across all offices.
// The earliest roster entry wins ties. ok is false for an empty roster.
func GlobalLeader(candidates []model.Candidate) (leader model.Candidate, ok bool) {
	for i, c := range candidates {
		if i == 0 || c.Votes > leader.Votes {
			leader = c
		}
	}
	return leader, len(candidates) > 0
}

// Standing is one office's race.
type Standing struct {
	Office     model.Office      `json:"office"`
	TotalVotes int               `json:"total_votes"`
	Candidates []model.Candidate `json:"candidates"`
}

// Standings returns one Standing per office, in ballot order. Offices with
// no candidates are included with an empty board.
func Standings(candidates []model.Candidate) []Standing {
	out := make([]Standing, 0, model.OfficeCount())
	for _, o := range model.Offices() {
		board := Leaderboard(candidates, o)
		out = append(out, Standing{Office: o, TotalVotes: TotalVotes(board), Candidates: board})
	}
	return out
}

// Summary bundles the dashboard read model.
type Summary struct {
	TotalVotes        int              `json:"total_votes"`
	ApproxBallotsCast int              `json:"approx_ballots_cast"`
	Leader            *model.Candidate `json:"leader,omitempty"`
	Standings         []Standing       `json:"standings"`
}

// Summarize computes every view in one pass over the same snapshot.
func Summarize(candidates []model.Candidate) Summary {
	s := Summary{
		TotalVotes:        TotalVotes(candidates),
		ApproxBallotsCast: ApproxBallotsCast(candidates),
		Standings:         Standings(candidates),
	}
	if leader, ok := GlobalLeader(candidates); ok {
		s.Leader = &leader
	}
	return s
}
