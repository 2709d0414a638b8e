package model

// DefaultBio is used when a new candidate is added without a biography.
const DefaultBio = "A dedicated member of our association."

// DefaultRoster returns the seed roster used on first start and on reset.
// Each call returns a fresh slice.
func DefaultRoster() []Candidate {
	return []Candidate{
		{ID: "p1", Name: "Alice Sterling", Office: President, Votes: 42,
			Bio:      "Experienced community leader with a vision for transparency and growth.",
			ImageURL: "https://picsum.photos/seed/alice/400/400"},
		{ID: "p2", Name: "Robert Vance", Office: President, Votes: 38,
			Bio:      "Focusing on fiscal responsibility and modernizing our association facilities.",
			ImageURL: "https://picsum.photos/seed/robert/400/400"},
		{ID: "vp1", Name: "Catherine Chen", Office: VicePresident, Votes: 25,
			Bio:      "Dedicated to member engagement and social event coordination.",
			ImageURL: "https://picsum.photos/seed/catherine/400/400"},
		{ID: "vp2", Name: "David Miller", Office: VicePresident, Votes: 29,
			Bio:      "Bringing 10 years of administrative experience to the executive team.",
			ImageURL: "https://picsum.photos/seed/david/400/400"},
		{ID: "sec1", Name: "Elena Rodriguez", Office: Secretary, Votes: 15,
			Bio:      "Organized and detail-oriented professional ensuring perfect record keeping.",
			ImageURL: "https://picsum.photos/seed/elena/400/400"},
		{ID: "sec2", Name: "Franklin Wu", Office: Secretary, Votes: 18,
			Bio:      "Digital native committed to improving our association communication channels.",
			ImageURL: "https://picsum.photos/seed/franklin/400/400"},
		{ID: "aud1", Name: "Grace Hopper", Office: Auditor, Votes: 55,
			Bio:      "Certified public accountant with a passion for community auditing.",
			ImageURL: "https://picsum.photos/seed/grace/400/400"},
		{ID: "aud2", Name: "Henry Thoreau", Office: Auditor, Votes: 31,
			Bio:      "Advocating for sustainable spending and clear financial reports.",
			ImageURL: "https://picsum.photos/seed/henry/400/400"},
		{ID: "saa1", Name: "Isabella Black", Office: SgtAtArms, Votes: 22,
			Bio:      "Maintaining order and ensuring safety during all association meetings.",
			ImageURL: "https://picsum.photos/seed/isabella/400/400"},
		{ID: "saa2", Name: "James Bond", Office: SgtAtArms, Votes: 24,
			Bio:      "Professional and courteous enforcement of association bylaws.",
			ImageURL: "https://picsum.photos/seed/james/400/400"},
	}
}
