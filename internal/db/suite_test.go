package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/checkniner/internal/types"
)

// seedStore loads a small population: pilots kim and sam, base BASE with
// ID1 attached, a stand-alone ID2, and aircraft types C206 and PC6.
func seedStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.CreateSchema(ctx))
	for _, p := range []types.Pilot{
		{Username: "kim", FirstName: "Kim", LastName: "Pilot1"},
		{Username: "sam", FirstName: "Sam", LastName: "Pilot2"},
	} {
		require.NoError(t, s.UpsertPilot(ctx, p))
	}
	for _, a := range []types.Airstrip{
		{Ident: "BASE", Name: "Base One", IsBase: true},
		{Ident: "ID1", Name: "Airstrip1"},
		{Ident: "ID2", Name: "Airstrip2"},
	} {
		require.NoError(t, s.UpsertAirstrip(ctx, a))
	}
	for _, at := range []types.AircraftType{
		{Name: "PC6", SortPosition: 2},
		{Name: "C206", SortPosition: 1},
	} {
		require.NoError(t, s.UpsertAircraftType(ctx, at))
	}
	require.NoError(t, s.AttachAirstrip(ctx, "ID1", "BASE"))
}

// runStoreSuite exercises the Store contract against any backend.
func runStoreSuite(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("CreateSchemaTwice", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.CreateSchema(ctx))
		require.NoError(t, s.CreateSchema(ctx))
	})

	t.Run("SnapshotEmpty", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.CreateSchema(ctx))

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Pilots)
		assert.Empty(t, snap.Airstrips)
		assert.Empty(t, snap.AircraftTypes)
		assert.Empty(t, snap.Facts)
	})

	t.Run("SnapshotEntities", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)

		require.Len(t, snap.Pilots, 2)
		assert.Equal(t, types.Pilot{Username: "kim", FirstName: "Kim", LastName: "Pilot1"}, snap.Pilots[0])
		assert.Equal(t, []types.Airstrip{
			{Ident: "BASE", Name: "Base One", IsBase: true},
			{Ident: "ID1", Name: "Airstrip1", Bases: []string{"BASE"}},
			{Ident: "ID2", Name: "Airstrip2"},
		}, snap.Airstrips)
		assert.Equal(t, []types.AircraftType{
			{Name: "C206", SortPosition: 1},
			{Name: "PC6", SortPosition: 2},
		}, snap.AircraftTypes)
	})

	t.Run("UpsertUpdates", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)

		require.NoError(t, s.UpsertPilot(ctx, types.Pilot{Username: "kim", FirstName: "Kimberly", LastName: "Pilot1"}))
		require.NoError(t, s.UpsertAircraftType(ctx, types.AircraftType{Name: "PC6", SortPosition: 0}))

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Kimberly", snap.Pilots[0].FirstName)
		assert.Equal(t, "PC6", snap.AircraftTypes[0].Name)
	})

	t.Run("UpsertRejectsInvalid", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.CreateSchema(ctx))

		assert.Error(t, s.UpsertPilot(ctx, types.Pilot{}))
		assert.Error(t, s.UpsertAirstrip(ctx, types.Airstrip{Ident: "TOOLONG", Name: "x"}))
		assert.Error(t, s.UpsertAircraftType(ctx, types.AircraftType{}))
	})

	t.Run("AddCheckoutsIdempotent", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)
		req := types.CheckoutEditRequest{Pilot: "kim", Airstrip: "ID1", AircraftTypes: []string{"C206"}, Actor: "admin"}

		results, err := s.AddCheckouts(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, []CheckoutResult{{AircraftType: "C206", Outcome: OutcomeAdded}}, results)

		req.AircraftTypes = []string{"C206", "PC6"}
		results, err = s.AddCheckouts(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, []CheckoutResult{
			{AircraftType: "C206", Outcome: OutcomeAlreadyExists},
			{AircraftType: "PC6", Outcome: OutcomeAdded},
		}, results)

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, []types.CompletionFact{
			{Pilot: "kim", Airstrip: "ID1", AircraftType: "C206"},
			{Pilot: "kim", Airstrip: "ID1", AircraftType: "PC6"},
		}, snap.Facts)
	})

	t.Run("AddCheckoutsUnknownReference", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)

		for _, req := range []types.CheckoutEditRequest{
			{Pilot: "nobody", Airstrip: "ID1", AircraftTypes: []string{"C206"}},
			{Pilot: "kim", Airstrip: "NONE", AircraftTypes: []string{"C206"}},
			{Pilot: "kim", Airstrip: "ID1", AircraftTypes: []string{"C206", "B737"}},
		} {
			_, err := s.AddCheckouts(ctx, req)
			assert.ErrorIs(t, err, ErrNotFound)
		}

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Facts, "a failed edit must not leave partial checkouts")
	})

	t.Run("AddCheckoutsInvalidRequest", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)

		_, err := s.AddCheckouts(ctx, types.CheckoutEditRequest{Pilot: "kim", Airstrip: "ID1"})
		assert.Error(t, err)
	})

	t.Run("RemoveCheckouts", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)
		_, err := s.AddCheckouts(ctx, types.CheckoutEditRequest{Pilot: "kim", Airstrip: "ID1", AircraftTypes: []string{"C206", "PC6"}})
		require.NoError(t, err)

		results, err := s.RemoveCheckouts(ctx, types.CheckoutEditRequest{Pilot: "kim", Airstrip: "ID1", AircraftTypes: []string{"PC6"}})
		require.NoError(t, err)
		assert.Equal(t, []CheckoutResult{{AircraftType: "PC6", Outcome: OutcomeDeleted}}, results)

		// Removing a checkout that does not exist still reports deleted
		results, err = s.RemoveCheckouts(ctx, types.CheckoutEditRequest{Pilot: "sam", Airstrip: "ID2", AircraftTypes: []string{"C206"}})
		require.NoError(t, err)
		assert.Equal(t, []CheckoutResult{{AircraftType: "C206", Outcome: OutcomeDeleted}}, results)

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, []types.CompletionFact{{Pilot: "kim", Airstrip: "ID1", AircraftType: "C206"}}, snap.Facts)
	})

	t.Run("AttachAirstrip", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)

		require.NoError(t, s.AttachAirstrip(ctx, "ID1", "BASE"), "attaching twice is a no-op")
		assert.ErrorIs(t, s.AttachAirstrip(ctx, "BASE", "BASE"), ErrSelfAttachment)
		assert.ErrorIs(t, s.AttachAirstrip(ctx, "ID2", "ID1"), ErrNotABase)
		assert.ErrorIs(t, s.AttachAirstrip(ctx, "ID2", "NONE"), ErrNotFound)
		assert.ErrorIs(t, s.AttachAirstrip(ctx, "NONE", "BASE"), ErrNotFound)
	})

	t.Run("SetAttachments", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)

		change, err := s.SetAttachments(ctx, types.AttachmentRequest{Base: "BASE", Airstrips: []string{"ID2", "BASE"}, Actor: "admin"})
		require.NoError(t, err)
		assert.Equal(t, AttachmentChange{Attached: []string{"ID2"}, Detached: []string{"ID1"}, SelfLoopRejected: true}, change)

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap.Airstrips[0].Bases)
		assert.Nil(t, snap.Airstrips[1].Bases)
		assert.Equal(t, []string{"BASE"}, snap.Airstrips[2].Bases)

		change, err = s.SetAttachments(ctx, types.AttachmentRequest{Base: "BASE", Airstrips: []string{"ID2"}})
		require.NoError(t, err)
		assert.True(t, change.Empty())
	})

	t.Run("SetAttachmentsErrors", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)

		_, err := s.SetAttachments(ctx, types.AttachmentRequest{Base: "ID1", Airstrips: []string{"ID2"}})
		assert.ErrorIs(t, err, ErrNotABase)

		_, err = s.SetAttachments(ctx, types.AttachmentRequest{Base: "NONE"})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.SetAttachments(ctx, types.AttachmentRequest{Base: "BASE", Airstrips: []string{"ID2", "NONE"}})
		assert.ErrorIs(t, err, ErrNotFound)

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"BASE"}, snap.Airstrips[1].Bases, "failed update is rolled back")
		assert.Nil(t, snap.Airstrips[2].Bases)
	})

	t.Run("ImportAirstrips", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)

		err := s.ImportAirstrips(ctx, "BASE", []types.Airstrip{
			{Ident: "ID3", Name: "Airstrip3"},
			{Ident: "ID4", Name: "Airstrip4"},
		}, "chief")
		require.NoError(t, err)

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Airstrips, 5)
		assert.Equal(t, types.Airstrip{Ident: "ID3", Name: "Airstrip3", Bases: []string{"BASE"}}, snap.Airstrips[3])
		assert.Equal(t, types.Airstrip{Ident: "ID4", Name: "Airstrip4", Bases: []string{"BASE"}}, snap.Airstrips[4])
	})

	t.Run("ImportAirstripsLeavesExistingBase", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)
		require.NoError(t, s.UpsertAirstrip(ctx, types.Airstrip{Ident: "B2", Name: "Base Two", IsBase: true}))
		require.NoError(t, s.AttachAirstrip(ctx, "ID2", "B2"))

		err := s.ImportAirstrips(ctx, "BASE", []types.Airstrip{{Ident: "B2", Name: "Renamed"}}, "")
		assert.ErrorIs(t, err, ErrAlreadyExists)

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Airstrips, 4)
		assert.Equal(t, types.Airstrip{Ident: "B2", Name: "Base Two", IsBase: true}, snap.Airstrips[0])
		assert.Equal(t, []string{"B2"}, snap.Airstrips[3].Bases)
	})

	t.Run("ImportAirstripsIsAtomic", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)

		err := s.ImportAirstrips(ctx, "BASE", []types.Airstrip{
			{Ident: "ID3", Name: "Airstrip3"},
			{Ident: "ID1", Name: "Renamed"},
		}, "")
		assert.ErrorIs(t, err, ErrAlreadyExists)

		err = s.ImportAirstrips(ctx, "BASE", []types.Airstrip{
			{Ident: "ID3", Name: "Airstrip3"},
			{Ident: "ID3", Name: "Again"},
		}, "")
		assert.ErrorIs(t, err, ErrAlreadyExists)

		snap, err := s.Snapshot(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Airstrips, 3, "failed import writes nothing")
		assert.Equal(t, "Airstrip1", snap.Airstrips[1].Name)
	})

	t.Run("ImportAirstripsErrors", func(t *testing.T) {
		s := open(t)
		seedStore(t, s)
		incoming := []types.Airstrip{{Ident: "ID3", Name: "Airstrip3"}}

		assert.ErrorIs(t, s.ImportAirstrips(ctx, "NONE", incoming, ""), ErrNotFound)
		assert.ErrorIs(t, s.ImportAirstrips(ctx, "ID1", incoming, ""), ErrNotABase)
		assert.ErrorIs(t, s.ImportAirstrips(ctx, "BASE", []types.Airstrip{{Ident: "BASE", Name: "Base One"}}, ""), ErrSelfAttachment)
		assert.Error(t, s.ImportAirstrips(ctx, "BASE", []types.Airstrip{{Ident: "TOOLONG", Name: "X"}}, ""))
	})
}
