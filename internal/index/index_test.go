package index

import (
	"testing"

	"github.com/jonathan/checkniner/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *types.Snapshot {
	return &types.Snapshot{
		Pilots: []types.Pilot{
			{Username: "sam", FirstName: "Sam", LastName: "Pilot2"},
			{Username: "kim", FirstName: "Kim", LastName: "Pilot1"},
			{Username: "ada", FirstName: "Ada", LastName: "Pilot0"},
		},
		Airstrips: []types.Airstrip{
			{Ident: "THRD", Name: "Third", IsBase: true},
			{Ident: "ID2", Name: "Airstrip2", Bases: []string{"FRST"}},
			{Ident: "FRST", Name: "First", IsBase: true},
			{Ident: "ID1", Name: "Airstrip1", Bases: []string{"FRST", "THRD", "FRST"}},
			{Ident: "ID3", Name: "Airstrip3"},
			{Ident: "SELF", Name: "Selfish", IsBase: true, Bases: []string{"SELF"}},
		},
		AircraftTypes: []types.AircraftType{
			{Name: "Name2", SortPosition: 0},
			{Name: "Name1", SortPosition: 1},
			{Name: "Name0", SortPosition: 1},
		},
	}
}

func idents(airstrips []types.Airstrip) []string {
	out := []string{}
	for _, a := range airstrips {
		out = append(out, a.Ident)
	}
	return out
}

func usernames(pilots []types.Pilot) []string {
	out := []string{}
	for _, p := range pilots {
		out = append(out, p.Username)
	}
	return out
}

func TestPilots_OrderedByName(t *testing.T) {
	x := New(testSnapshot())

	assert.Equal(t, []string{"ada", "kim", "sam"}, usernames(x.Pilots(nil)))

	kim := types.Pilot{Username: "kim"}
	only := x.Pilots(&kim)
	require.Len(t, only, 1)
	assert.Equal(t, "Pilot1", only[0].LastName, "restricted pilot should carry indexed sort key")
}

func TestAirstrips_Restrictions(t *testing.T) {
	x := New(testSnapshot())

	assert.Equal(t, []string{"FRST", "ID1", "ID2", "ID3", "SELF", "THRD"}, idents(x.Airstrips(nil, nil)))

	only := types.Airstrip{Ident: "ID2"}
	assert.Equal(t, []string{"ID2"}, idents(x.Airstrips(&only, nil)))

	first := types.Airstrip{Ident: "FRST"}
	assert.Equal(t, []string{"ID1", "ID2"}, idents(x.Airstrips(nil, &first)))

	third := types.Airstrip{Ident: "THRD"}
	assert.Equal(t, []string{"ID1"}, idents(x.Airstrips(nil, &third)))
}

func TestAirstrips_BaseFilterExcludesUnattached(t *testing.T) {
	x := New(testSnapshot())

	first := types.Airstrip{Ident: "FRST"}
	got := idents(x.Airstrips(nil, &first))

	assert.NotContains(t, got, "ID3", "unattached airstrip must not appear")
	assert.NotContains(t, got, "FRST", "a base is not attached to itself")
}

func TestAirstrips_SelfReferenceIgnored(t *testing.T) {
	x := New(testSnapshot())

	self := types.Airstrip{Ident: "SELF"}
	assert.Empty(t, x.AttachedAirstrips(self))
}

func TestAircraftTypes_ColumnOrder(t *testing.T) {
	x := New(testSnapshot())

	var names []string
	for _, at := range x.AircraftTypes(nil) {
		names = append(names, at.Name)
	}
	assert.Equal(t, []string{"Name2", "Name0", "Name1"}, names)

	one := types.AircraftType{Name: "Name1"}
	only := x.AircraftTypes(&one)
	require.Len(t, only, 1)
	assert.Equal(t, 1, only[0].SortPosition)
}

func TestBasesAndAttachments(t *testing.T) {
	x := New(testSnapshot())

	assert.Equal(t, []string{"FRST", "SELF", "THRD"}, idents(x.Bases()))

	first, err := x.Base("FRST")
	require.NoError(t, err)
	assert.Equal(t, []string{"ID1", "ID2"}, idents(x.AttachedAirstrips(first)))
	assert.Equal(t, []string{"ID3", "SELF", "THRD"}, idents(x.UnattachedAirstrips(first)))
}

func TestNew_DoesNotMutateSnapshot(t *testing.T) {
	snap := testSnapshot()
	_ = New(snap)

	assert.Equal(t, "sam", snap.Pilots[0].Username)
	assert.Equal(t, "THRD", snap.Airstrips[0].Ident)
}

func TestViews_ReturnCopies(t *testing.T) {
	x := New(testSnapshot())

	pilots := x.Pilots(nil)
	pilots[0].Username = "mutated"

	assert.Equal(t, "ada", x.Pilots(nil)[0].Username)
}
