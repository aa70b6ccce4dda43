package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Semester is a lookup table. Names carry an implied chronological key,
// e.g. "Fall 25": term word plus two-digit year.
type Semester struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SemesterWithCounts adds the question reference count.
type SemesterWithCounts struct {
	Semester
	QuestionCount int64 `json:"questionCount"`
}

// Term ranks within one year, highest first.
var termRanks = map[string]int{
	"fall":   4,
	"summer": 3,
	"spring": 2,
	"short":  1,
}

// parseSemesterName splits "<Term> <YY>" into its chronological key.
func parseSemesterName(name string) (year, termRank int, ok bool) {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) != 2 {
		return 0, 0, false
	}

	termRank, ok = termRanks[strings.ToLower(fields[0])]
	if !ok {
		return 0, 0, false
	}

	year, err := strconv.Atoi(fields[1])
	if err != nil || year < 0 {
		return 0, 0, false
	}

	return year, termRank, true
}

// CompareSemesterNames orders two semester names newest-first: by year
// descending, then Fall > Summer > Spring > Short. Names that do not parse
// sort after every parseable name, alphabetically among themselves.
// Returns a negative value when a sorts before b.
func CompareSemesterNames(a, b string) int {
	yearA, rankA, okA := parseSemesterName(a)
	yearB, rankB, okB := parseSemesterName(b)

	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case !okA && !okB:
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}

	if yearA != yearB {
		return yearB - yearA
	}
	return rankB - rankA
}

// SortSemesters orders semesters newest-first in place.
func SortSemesters(semesters []Semester) {
	sort.SliceStable(semesters, func(i, j int) bool {
		return CompareSemesterNames(semesters[i].Name, semesters[j].Name) < 0
	})
}

// SortSemestersWithCounts orders the admin listing newest-first in place.
func SortSemestersWithCounts(semesters []SemesterWithCounts) {
	sort.SliceStable(semesters, func(i, j int) bool {
		return CompareSemesterNames(semesters[i].Name, semesters[j].Name) < 0
	})
}
