package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortByNumber_StableAndNonMutating(t *testing.T) {
	in := []Scope{
		{ID: "c", Number: 3},
		{ID: "a1", Number: 1},
		{ID: "b", Number: 2},
		{ID: "a2", Number: 1},
	}

	got := SortByNumber(in)

	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, ids)
	assert.Equal(t, "c", in[0].ID, "input slice must not be reordered")
}

func TestISOTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 42_000_000, time.FixedZone("CET", 3600))
	assert.Equal(t, "2024-03-09T13:05:07.042Z", ISOTimestamp(ts))
}
