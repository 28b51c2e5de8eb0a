package index

import (
	"testing"

	"github.com/jonathan/checkniner/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Empty(t *testing.T) {
	x := New(testSnapshot())

	f, err := x.Resolve(types.FilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, types.Filter{}, f)
}

func TestResolve_AllDimensions(t *testing.T) {
	x := New(testSnapshot())

	f, err := x.Resolve(types.FilterRequest{Pilot: "kim", Airstrip: "ID1", AircraftType: "Name1"})
	require.NoError(t, err)

	require.NotNil(t, f.Pilot)
	assert.Equal(t, "Kim", f.Pilot.FirstName)
	require.NotNil(t, f.Airstrip)
	assert.Equal(t, "Airstrip1", f.Airstrip.Name)
	assert.Nil(t, f.Base)
	require.NotNil(t, f.AircraftType)
	assert.Equal(t, 1, f.AircraftType.SortPosition)
}

func TestResolve_Base(t *testing.T) {
	x := New(testSnapshot())

	f, err := x.Resolve(types.FilterRequest{Base: "FRST"})
	require.NoError(t, err)
	require.NotNil(t, f.Base)
	assert.True(t, f.Base.IsBase)
}

func TestResolve_Errors(t *testing.T) {
	x := New(testSnapshot())

	tests := []struct {
		name    string
		request types.FilterRequest
		wantErr error
	}{
		{"unknown pilot", types.FilterRequest{Pilot: "nobody"}, ErrNotFound},
		{"unknown airstrip", types.FilterRequest{Airstrip: "NOPE"}, ErrNotFound},
		{"unknown base", types.FilterRequest{Base: "NOPE"}, ErrNotFound},
		{"base that is not a base", types.FilterRequest{Base: "ID1"}, ErrNotABase},
		{"unknown aircraft type", types.FilterRequest{AircraftType: "Cessna"}, ErrNotFound},
		{"airstrip with base", types.FilterRequest{Airstrip: "ID1", Base: "FRST"}, ErrConflictingFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := x.Resolve(tt.request)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolve_InvalidRequest(t *testing.T) {
	x := New(testSnapshot())

	_, err := x.Resolve(types.FilterRequest{Airstrip: "TOOLONG"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter")
}
