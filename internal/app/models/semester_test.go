package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareSemesterNames(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string // "before", "after", "equal"
	}{
		{"newer year first", "Fall 25", "Fall 24", "before"},
		{"older year last", "Spring 23", "Short 24", "after"},
		{"fall beats summer in same year", "Fall 25", "Summer 25", "before"},
		{"summer beats spring", "Summer 25", "Spring 25", "before"},
		{"spring beats short", "Spring 25", "Short 25", "before"},
		{"same semester", "Fall 25", "Fall 25", "equal"},
		{"case insensitive terms", "fall 25", "SUMMER 25", "before"},
		{"parseable sorts before unparseable", "Short 20", "Archive", "before"},
		{"unparseable sorts after parseable", "Misc", "Fall 19", "after"},
		{"unparseable pair is alphabetical", "Archive", "Misc", "before"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareSemesterNames(tt.a, tt.b)
			switch tt.want {
			case "before":
				assert.Negative(t, got)
			case "after":
				assert.Positive(t, got)
			case "equal":
				assert.Zero(t, got)
			}
		})
	}
}

func TestSortSemesters(t *testing.T) {
	semesters := []Semester{
		{Name: "Spring 24"},
		{Name: "Archive"},
		{Name: "Fall 25"},
		{Name: "Short 24"},
		{Name: "Fall 24"},
		{Name: "Summer 25"},
	}

	SortSemesters(semesters)

	var names []string
	for _, s := range semesters {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Fall 25", "Summer 25", "Fall 24", "Spring 24", "Short 24", "Archive"}, names)
}
