package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rssbrudrapur/sewabase/core/sewadar"
	"github.com/rssbrudrapur/sewabase/core/session"
	inmemdb "github.com/rssbrudrapur/sewabase/storage/database/inmem"
	testutil "github.com/rssbrudrapur/sewabase/tests"
)

type snapshotStub struct {
	records []sewadar.Record
	loadErr error
	saves   int
}

func (s *snapshotStub) SaveRecords(ctx context.Context, recs []sewadar.Record) error {
	s.records = recs
	s.saves++
	return nil
}

func (s *snapshotStub) LoadRecords(ctx context.Context) ([]sewadar.Record, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.records, nil
}

// seeds three records named such that the default name ordering yields
// [Bina, Kumar, Radha] with badge numbers 2, 1, 3.
func setup(t *testing.T) (*session.State, sewadar.Repository, *snapshotStub) {
	t.Helper()

	db := inmemdb.Open()
	repo := inmemdb.NewSewadarRepository(db)
	testutil.CreateRecord(t, repo, "GENTS", "BR-000001", "Kumar", "Ram", "MALE", "9876543210", "15-06-2000", "Delhi")
	testutil.CreateRecord(t, repo, "LADIES", "BR-000002", "Bina", "Shyam", "FEMALE", "9123456789", "01-01-1990", "Agra")
	testutil.CreateRecord(t, repo, "LADIES", "BR-000003", "Radha", "Mohan", "FEMALE", "9000000000", "10-10-1980", "Pune")

	snaps := &snapshotStub{}
	svc := sewadar.NewService(repo, nil, nil)
	state := session.NewState(svc, snaps, nil)
	require.NoError(t, state.Refresh(context.Background(), sewadar.Ordering{}))
	return state, repo, snaps
}

func badgeNos(recs []sewadar.Record) []string {
	nos := make([]string, 0, len(recs))
	for _, rec := range recs {
		nos = append(nos, rec.BadgeNo)
	}
	return nos
}

func Test_State_Refresh(t *testing.T) {
	state, _, snaps := setup(t)

	assert.Equal(t, []string{"BR-000002", "BR-000001", "BR-000003"}, badgeNos(state.Records()))
	assert.Equal(t, state.Records(), state.Filtered())
	assert.Equal(t, 1, snaps.saves)

	// selection survives a refresh
	state.ToggleSelect("BR-000001")
	require.NoError(t, state.Refresh(context.Background(), sewadar.Ordering{}))
	assert.True(t, state.IsSelected("BR-000001"))
	assert.Equal(t, 2, snaps.saves)
}

func Test_State_WarmStart(t *testing.T) {
	state, _, snaps := setup(t)
	snapshot := state.Records()

	// a fresh state seeds itself from the snapshot
	svc := sewadar.NewService(inmemdb.NewSewadarRepository(inmemdb.Open()), nil, nil)
	warm := session.NewState(svc, snaps, nil)
	warm.WarmStart(context.Background())
	assert.Equal(t, snapshot, warm.Records())

	// load failures leave the state empty instead of erroring
	cold := session.NewState(svc, &snapshotStub{loadErr: errors.New("redis down")}, nil)
	cold.WarmStart(context.Background())
	assert.Empty(t, cold.Records())
}

func Test_State_LocalFilter(t *testing.T) {
	state, _, _ := setup(t)

	// empty term is the full set
	state.LocalFilter("")
	assert.Equal(t, state.Records(), state.Filtered())

	// case-insensitive, any field
	state.LocalFilter("kumar")
	assert.Equal(t, []string{"BR-000001"}, badgeNos(state.Filtered()))

	state.LocalFilter("agra")
	assert.Equal(t, []string{"BR-000002"}, badgeNos(state.Filtered()))

	// birth date display form matches
	state.LocalFilter("15-06-2000")
	assert.Equal(t, []string{"BR-000001"}, badgeNos(state.Filtered()))

	state.LocalFilter("no such thing")
	assert.Empty(t, state.Filtered())

	// filtering back to empty restores the full set
	state.LocalFilter("")
	assert.Equal(t, state.Records(), state.Filtered())
}

func Test_State_CategoryFilter(t *testing.T) {
	state, _, _ := setup(t)

	state.CategoryFilter("LADIES")
	assert.Equal(t, []string{"BR-000002", "BR-000003"}, badgeNos(state.Filtered()))

	// exact match only
	state.CategoryFilter("LADIE")
	assert.Empty(t, state.Filtered())

	state.CategoryFilter("")
	assert.Equal(t, state.Records(), state.Filtered())
}

func Test_State_selection(t *testing.T) {
	state, _, _ := setup(t)

	state.ToggleSelect("BR-000003")
	state.ToggleSelect("BR-000001")
	assert.True(t, state.IsSelected("BR-000001"))

	// full-set order, not insertion order
	assert.Equal(t, []string{"BR-000001", "BR-000003"}, state.Selected())

	state.ToggleSelect("BR-000003")
	assert.False(t, state.IsSelected("BR-000003"))

	// master checkbox applies to the filtered view only
	state.CategoryFilter("LADIES")
	state.SetAllVisible(true)
	assert.Equal(t, []string{"BR-000002", "BR-000001", "BR-000003"}, state.Selected())
	state.SetAllVisible(false)
	assert.Equal(t, []string{"BR-000001"}, state.Selected())

	state.ClearSelection()
	assert.Empty(t, state.Selected())
}

func Test_State_SelectByName(t *testing.T) {
	state, _, _ := setup(t)

	// additive over the FULL set regardless of the current filter
	state.CategoryFilter("GENTS")
	state.SelectByName("RADHA")
	assert.Equal(t, []string{"BR-000003"}, state.Selected())

	state.SelectByName("kum")
	assert.Equal(t, []string{"BR-000001", "BR-000003"}, state.Selected())

	// blank term selects everything
	state.ClearSelection()
	state.SelectByName("")
	assert.Equal(t, []string{"BR-000002", "BR-000001", "BR-000003"}, state.Selected())
}

func Test_State_Resolve(t *testing.T) {
	state, _, _ := setup(t)

	recs, err := state.Resolve(session.SubsetAll)
	require.NoError(t, err)
	assert.Equal(t, state.Records(), recs)

	state.CategoryFilter("LADIES")
	recs, err = state.Resolve(session.SubsetFiltered)
	require.NoError(t, err)
	assert.Equal(t, []string{"BR-000002", "BR-000003"}, badgeNos(recs))

	// selected rows resolve in full-set order
	state.ToggleSelect("BR-000001")
	state.ToggleSelect("BR-000002")
	recs, err = state.Resolve(session.SubsetSelected)
	require.NoError(t, err)
	assert.Equal(t, []string{"BR-000002", "BR-000001"}, badgeNos(recs))

	// empty subsets abort before any document work
	state.ClearSelection()
	_, err = state.Resolve(session.SubsetSelected)
	assert.ErrorIs(t, err, session.ErrEmptySubset)

	state.LocalFilter("no match")
	_, err = state.Resolve(session.SubsetFiltered)
	assert.ErrorIs(t, err, session.ErrEmptySubset)

	_, err = state.Resolve("everything")
	assert.ErrorIs(t, err, session.ErrUnknownSubset)
}

func Test_State_Prune_Rekey(t *testing.T) {
	state, _, _ := setup(t)

	state.ToggleSelect("BR-000001")
	state.PruneSelection("BR-000001")
	assert.False(t, state.IsSelected("BR-000001"))

	state.ToggleSelect("BR-000002")
	state.RekeySelection("BR-000002", "BR-000777")
	assert.False(t, state.IsSelected("BR-000002"))
	assert.True(t, state.IsSelected("BR-000777"))

	// rekeying an unselected key selects nothing
	state.RekeySelection("BR-000003", "BR-000888")
	assert.False(t, state.IsSelected("BR-000888"))
}

func Test_State_ServerSearch(t *testing.T) {
	state, _, _ := setup(t)

	require.NoError(t, state.ServerSearch(sewadar.SearchQuery{Field: "name", Term: "rad"}))
	assert.Equal(t, []string{"BR-000003"}, badgeNos(state.Filtered()))

	// the full set is untouched
	assert.Len(t, state.Records(), 3)

	err := state.ServerSearch(sewadar.SearchQuery{Field: "pic", Term: "x"})
	assert.Error(t, err)
}
