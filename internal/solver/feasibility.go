package solver

import (
	"fmt"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"

	"github.com/example/academic-scheduler/internal/constraint"
)

// sessionToken identifies one required session in the feasibility graph.
type sessionToken struct {
	courseID string
	ordinal  int
}

// checkFeasibility prunes obviously unsatisfiable inputs before the search
// starts. Two necessary conditions are tested: every course must have at
// least as many legal cells as required sessions, and a maximum bipartite
// matching of all required sessions onto legal (day, slot, room) cells must
// cover every session. Neither condition is sufficient (faculty contention
// within a cell column is ignored), so the search still decides the hard
// cases; a deficit here fails fast with a precise offending course.
func (r *Run) checkFeasibility(courses []constraint.Course) *UnsatisfiableError {
	legal := make(map[string][]placement, len(courses))
	totalSessions := 0
	for _, course := range courses {
		cells := r.legalCells(course)
		if len(cells) < course.Sessions {
			return &UnsatisfiableError{CourseID: course.ID, CourseCode: course.Code}
		}
		legal[course.ID] = cells
		totalSessions += course.Sessions
	}
	if totalSessions == 0 {
		return nil
	}

	left := make([]any, 0, totalSessions)
	for _, course := range courses {
		for ordinal := range course.Sessions {
			left = append(left, sessionToken{courseID: course.ID, ordinal: ordinal})
		}
	}

	cellsByKey := make(map[string]struct{})
	right := make([]any, 0)
	for _, cells := range legal {
		for _, p := range cells {
			key := placementKey(p)
			if _, ok := cellsByKey[key]; ok {
				continue
			}
			cellsByKey[key] = struct{}{}
			right = append(right, key)
		}
	}

	admissible := make(map[string]map[string]struct{}, len(courses))
	for courseID, cells := range legal {
		keys := make(map[string]struct{}, len(cells))
		for _, p := range cells {
			keys[placementKey(p)] = struct{}{}
		}
		admissible[courseID] = keys
	}

	neighbours := func(l, rv any) (bool, error) {
		token := l.(sessionToken)
		key := rv.(string)
		_, ok := admissible[token.courseID][key]
		return ok, nil
	}

	graph, err := bipartitegraph.NewBipartiteGraph(left, right, neighbours)
	if err != nil {
		// The neighbour function never errors, so the graph always builds.
		return nil
	}
	if matching := graph.LargestMatching(); len(matching) < totalSessions {
		offending := mostStarved(courses, legal)
		return &UnsatisfiableError{CourseID: offending.ID, CourseCode: offending.Code}
	}
	return nil
}

// mostStarved picks the course with the fewest legal cells per required
// session, the most defensible culprit when the matching falls short.
func mostStarved(courses []constraint.Course, legal map[string][]placement) constraint.Course {
	offending := courses[0]
	best := float64(len(legal[offending.ID])) / float64(max(offending.Sessions, 1))
	for _, course := range courses[1:] {
		ratio := float64(len(legal[course.ID])) / float64(max(course.Sessions, 1))
		if ratio < best || (ratio == best && course.Code < offending.Code) {
			offending = course
			best = ratio
		}
	}
	return offending
}

func placementKey(p placement) string {
	return fmt.Sprintf("%d:%d:%d", int(p.pos.day), int(p.pos.slot), p.room)
}
