package model

// Abstain marks an explicit non-choice for an office. It completes the
// office on a ballot but never becomes a vote.
const Abstain = "abstain"

// Candidate is a nominee for exactly one office.
type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Office   Office `json:"office"`
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url"`
	Votes    int    `json:"votes"`
}

// CloneCandidates returns a shallow copy of cs so callers can't alias the
// store's backing array.
func CloneCandidates(cs []Candidate) []Candidate {
	if cs == nil {
		return nil
	}
	out := make([]Candidate, len(cs))
	copy(out, cs)
	return out
}

// Selections maps each office to a candidate id or Abstain.
type Selections map[Office]string

// Complete reports whether every office has a non-empty entry.
func (s Selections) Complete() bool {
	for _, o := range offices {
		if s[o] == "" {
			return false
		}
	}
	return true
}

// Filled returns how many offices have a non-empty entry.
func (s Selections) Filled() int {
	n := 0
	for _, o := range offices {
		if s[o] != "" {
			n++
		}
	}
	return n
}

// Clone copies the map.
func (s Selections) Clone() Selections {
	out := make(Selections, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
