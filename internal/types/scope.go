// Package types defines the data model shared by the annotation session,
// the element inspector and the output engine.
package types

import (
	"sort"
	"time"
)

// Scope is one annotation: a comment bound to a captured page element.
//
// ID is stable for the scope's lifetime. Number is the 1-based display
// position and may change when other scopes are removed.
type Scope struct {
	ID            string      `json:"id"`
	Number        int         `json:"number"`
	ElementInfo   ElementInfo `json:"elementInfo"`
	Comment       string      `json:"comment"`
	SelectedText  string      `json:"selectedText,omitempty"`
	IsMultiSelect bool        `json:"isMultiSelect,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// SortByNumber returns a copy of scopes ordered by ascending Number. Scopes
// sharing a number keep their relative input order. The input is untouched.
func SortByNumber(scopes []Scope) []Scope {
	sorted := make([]Scope, len(scopes))
	copy(sorted, scopes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Number < sorted[j].Number
	})
	return sorted
}
