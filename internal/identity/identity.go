// Package identity defines the personnel grades and credential plaques that
// drive category visibility decisions.
package identity

import "strings"

type Rank string

const (
	RankCivilian      Rank = "Civilian"
	RankCadet         Rank = "Cadet"
	RankOfficerI      Rank = "Police Officer I"
	RankOfficerII     Rank = "Police Officer II"
	RankOfficerIII    Rank = "Police Officer III"
	RankOfficerIIIP1  Rank = "Police Officer III+1"
	RankDetectiveI    Rank = "Police Detective I"
	RankDetectiveII   Rank = "Police Detective II"
	RankDetectiveIII  Rank = "Police Detective III"
	RankSergeantI     Rank = "Sergeant I"
	RankSergeantII    Rank = "Sergeant II"
	RankLieutenant    Rank = "Lieutenant"
	RankCaptain       Rank = "Captain"
	RankCommander     Rank = "Commander"
	RankDeputyChief   Rank = "Deputy Chief"
	RankChiefOfPolice Rank = "Chief of Police"
)

// rankOrder is the full hierarchy, lowest grade first.
var rankOrder = []Rank{
	RankCivilian,
	RankCadet,
	RankOfficerI,
	RankOfficerII,
	RankOfficerIII,
	RankOfficerIIIP1,
	RankDetectiveI,
	RankDetectiveII,
	RankDetectiveIII,
	RankSergeantI,
	RankSergeantII,
	RankLieutenant,
	RankCaptain,
	RankCommander,
	RankDeputyChief,
	RankChiefOfPolice,
}

// Index returns the rank's position in the hierarchy (0 = Civilian),
// or -1 for an unknown rank.
func (r Rank) Index() int {
	for i, rank := range rankOrder {
		if rank == r {
			return i
		}
	}
	return -1
}

func (r Rank) Valid() bool {
	return r.Index() >= 0
}

// Outranks reports whether r is strictly above other in the hierarchy.
func (r Rank) Outranks(other Rank) bool {
	return r.Index() > other.Index()
}

func NormalizeRank(raw string) Rank {
	if r := Rank(raw); r.Valid() {
		return r
	}
	return RankCivilian
}

// Ranks returns the full hierarchy, lowest grade first.
func Ranks() []Rank {
	out := make([]Rank, len(rankOrder))
	copy(out, rankOrder)
	return out
}

type Plaque string

const (
	PlaqueCivilian          Plaque = "Civilian"
	PlaqueFactionManagement Plaque = "Faction Management"

	// Office of Operations - Control Bureau
	PlaqueOOCBFoothill Plaque = "OO-CB: Foothill Patrol Area"
	PlaqueOOCBNE       Plaque = "OO-CB: North East Police Division"

	// Office of Operations - Counter-Terrorism and Special Operations Bureau
	PlaqueOOCTSOBMetro Plaque = "OO-CTSOB: Metropolitan Division"

	// Metropolitan Division
	PlaqueMDPlatoonD  Plaque = "MD: Platoon D"
	PlaqueMDPlatoonK9 Plaque = "MD: Platoon K9"
	PlaqueMDESD       Plaque = "MD: ESD Tactical Medic"
	PlaqueMDSchool    Plaque = "MD: School"
	PlaqueMDTraining  Plaque = "MD: Training Division"

	// Detective Bureau
	PlaqueDBRHD        Plaque = "DB: RHD and Support Section"
	PlaqueDBGND        Plaque = "DB: Gang&Narcotics Division"
	PlaqueDBIAD        Plaque = "DB: IAD"
	PlaqueDBLeadership Plaque = "DB: Detective Leadership"

	// Detective Bureau - Field Section
	PlaqueDBFSGED Plaque = "DB-FS: Gang Enforcement Detail"

	// Department-wide
	PlaquePDTraining Plaque = "PD: Training Division"
	PlaquePDFTPHead  Plaque = "PD: Field Training Program Head"
)

// Group is a presentation grouping for plaques. It exists purely for display
// styling; authorization always uses exact set membership, never prefixes.
type Group string

const (
	GroupMetro     Group = "metro"
	GroupDetective Group = "detective"
	GroupPatrol    Group = "patrol"
	GroupField     Group = "field"
	GroupTraining  Group = "training"
	GroupGeneral   Group = "general"
)

// Group maps a plaque to its display group by name prefix.
func (p Plaque) Group() Group {
	name := string(p)
	switch {
	case strings.HasPrefix(name, "MD:") || strings.HasPrefix(name, "OO-CTSOB"):
		return GroupMetro
	case strings.HasPrefix(name, "DB-FS:"):
		return GroupField
	case strings.HasPrefix(name, "DB:"):
		return GroupDetective
	case strings.HasPrefix(name, "OO-CB:"):
		return GroupPatrol
	case strings.HasPrefix(name, "PD:"):
		return GroupTraining
	default:
		return GroupGeneral
	}
}

// HasPlaque reports exact membership of p in the badge set.
func HasPlaque(set []Plaque, p Plaque) bool {
	for _, held := range set {
		if held == p {
			return true
		}
	}
	return false
}

// AddPlaque returns a new badge set containing p. Adding a plaque already
// held returns the set unchanged. Insertion order is preserved for display.
func AddPlaque(set []Plaque, p Plaque) []Plaque {
	if HasPlaque(set, p) {
		return set
	}
	out := make([]Plaque, 0, len(set)+1)
	out = append(out, set...)
	return append(out, p)
}

// RemovePlaque returns a new badge set without p. Removing an absent plaque
// returns the set unchanged.
func RemovePlaque(set []Plaque, p Plaque) []Plaque {
	if !HasPlaque(set, p) {
		return set
	}
	out := make([]Plaque, 0, len(set)-1)
	for _, held := range set {
		if held != p {
			out = append(out, held)
		}
	}
	return out
}
