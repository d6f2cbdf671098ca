package dataprep

import (
	"strings"

	"github.com/rich1707/Titanic/pkg/dataset"
)

// Family outcome categories. Groups are inferred, not exact: the key is a
// heuristic and produces both false merges and false splits.
const (
	FamilyNone    = "none"
	FamilySome    = "some"
	FamilyAll     = "all"
	FamilyUnknown = "unknown"
	FamilySingle  = "single"
)

// ticketWildcard replaces the final ticket character so that trailing
// check-digit or sub-ticket suffix variation still groups together.
const ticketWildcard = 'X'

// maleCoded titles are excluded from family grouping: passengers under
// these honorifics were subject to male-coded evacuation norms regardless
// of true age, and including them dilutes the women-and-children grouping
// signal the label is built on.
var maleCoded = map[string]bool{
	"Mr":           true,
	TitleMrChild:   true,
	TitleMaleOther: true,
}

// Surname returns the family name: everything before the first comma.
func Surname(name string) string {
	if i := strings.IndexByte(name, ','); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return strings.TrimSpace(name)
}

// NormalizeTicket canonicalizes a ticket identifier by replacing its
// final character with the wildcard marker: "A124" and "A123" both
// normalize to "A12X" and fuzzy-match within a surname.
func NormalizeTicket(ticket string) string {
	r := []rune(ticket)
	if len(r) == 0 {
		return string(ticketWildcard)
	}
	r[len(r)-1] = ticketWildcard
	return string(r)
}

type familyKey struct {
	surname string
	ticket  string
}

type familyTally struct {
	size     int
	known    int
	survived int
}

// FamilyOutcomes computes the family survival category for every
// passenger. Explicit two-pass shape:
//
// Pass 1 groups eligible records (refined title not male-coded) by
// (surname, normalized ticket), drops groups of size <= 1, and labels
// each remaining group from the survival ratio among members with a known
// outcome. A group with no known outcomes is labeled unknown directly;
// the ratio is never computed.
//
// Pass 2 joins the labels back onto the original full population, but
// only records that were eligible in pass 1 can match; everyone else —
// male-coded titles, singletons, unmatched keys — gets the default
// "single".
func FamilyOutcomes(passengers []dataset.Passenger, refinedTitles []string) []string {
	keys := make([]familyKey, len(passengers))
	eligible := make([]bool, len(passengers))
	groups := make(map[familyKey]*familyTally)

	for i, p := range passengers {
		if maleCoded[refinedTitles[i]] {
			continue
		}
		eligible[i] = true
		k := familyKey{Surname(p.Name), NormalizeTicket(p.Ticket)}
		keys[i] = k

		g := groups[k]
		if g == nil {
			g = &familyTally{}
			groups[k] = g
		}
		g.size++
		if p.Survived.Valid {
			g.known++
			if p.Survived.Value {
				g.survived++
			}
		}
	}

	labels := make(map[familyKey]string, len(groups))
	for k, g := range groups {
		if g.size <= 1 {
			continue
		}
		switch {
		case g.known == 0:
			labels[k] = FamilyUnknown
		case g.survived == 0:
			labels[k] = FamilyNone
		case g.survived == g.known:
			labels[k] = FamilyAll
		default:
			labels[k] = FamilySome
		}
	}

	out := make([]string, len(passengers))
	for i := range passengers {
		out[i] = FamilySingle
		if !eligible[i] {
			continue
		}
		if label, ok := labels[keys[i]]; ok {
			out[i] = label
		}
	}
	return out
}
