package session

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

// Record subsets resolvable for export.
const (
	SubsetAll      = "all"
	SubsetFiltered = "filtered"
	SubsetSelected = "selected"
)

var (
	ErrEmptySubset   = errors.New("no records to export")
	ErrUnknownSubset = errors.New("unknown record subset")
)

type (
	// Source provides the canonical record set.
	Source interface {
		QueryAll(ord sewadar.Ordering) ([]sewadar.Record, error)
		Search(q sewadar.SearchQuery) ([]sewadar.Record, error)
	}

	// SnapshotStore is a warm-start cache of the last fetched record
	// set. It is never the source of truth.
	SnapshotStore interface {
		SaveRecords(ctx context.Context, recs []sewadar.Record) error
		LoadRecords(ctx context.Context) ([]sewadar.Record, error)
	}

	// State is a session-scoped view of the record set: the full
	// ordered set as last fetched, a filtered view derived from it, and
	// a selection keyed by badge number. The selection is independent
	// of the displayed view and survives filter changes until cleared.
	State struct {
		source    Source
		snapshots SnapshotStore
		log       core.Logger

		records  []sewadar.Record
		filtered []sewadar.Record
		selected map[string]bool
	}
)

func NewState(source Source, snapshots SnapshotStore, log core.Logger) *State {
	return &State{
		source:    source,
		snapshots: snapshots,
		log:       log,
		selected:  make(map[string]bool),
	}
}

func (s *State) Records() []sewadar.Record  { return s.records }
func (s *State) Filtered() []sewadar.Record { return s.filtered }

// Selected returns the selected badge numbers in full-set order.
func (s *State) Selected() []string {
	keys := make([]string, 0, len(s.selected))
	for _, rec := range s.records {
		if s.selected[rec.BadgeNo] {
			keys = append(keys, rec.BadgeNo)
		}
	}
	return keys
}

func (s *State) IsSelected(badgeNo string) bool { return s.selected[badgeNo] }

// WarmStart seeds the state from the snapshot store, if anything is
// there. Failures are logged and ignored; the next Refresh overwrites
// whatever this loads.
func (s *State) WarmStart(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	recs, err := s.snapshots.LoadRecords(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Warn("session: warm-start snapshot unavailable: "+err.Error(), err)
		}
		return
	}
	if recs != nil {
		s.setRecords(recs)
	}
}

// Refresh replaces the full set from the source and resets the filtered
// view to it. The selection is untouched.
func (s *State) Refresh(ctx context.Context, ord sewadar.Ordering) error {
	recs, err := s.source.QueryAll(ord)
	if err != nil {
		return err
	}
	s.setRecords(recs)

	if s.snapshots != nil {
		if err := s.snapshots.SaveRecords(ctx, recs); err != nil && s.log != nil {
			s.log.Warn("session: snapshot save failed: "+err.Error(), err)
		}
	}
	return nil
}

// Sort is a Refresh with an explicit ordering; ordering is a server
// operation, not a client-side re-sort.
func (s *State) Sort(ctx context.Context, ord sewadar.Ordering) error {
	return s.Refresh(ctx, ord)
}

func (s *State) setRecords(recs []sewadar.Record) {
	s.records = recs
	s.filtered = recs
}

// LocalFilter recomputes the filtered view as records where any field's
// string form, or the derived age, contains term case-insensitively.
// An empty term resets the view to the full set.
func (s *State) LocalFilter(term string) {
	term = strings.ToLower(core.CleanString(term))
	if term == "" {
		s.filtered = s.records
		return
	}
	filtered := make([]sewadar.Record, 0, len(s.records))
	for _, rec := range s.records {
		if recordMatches(rec, term) {
			filtered = append(filtered, rec)
		}
	}
	s.filtered = filtered
}

func recordMatches(rec sewadar.Record, term string) bool {
	fields := []string{
		rec.BadgeType,
		rec.BadgeNo,
		rec.Name,
		rec.ParentName,
		rec.Gender,
		rec.Phone,
		rec.BirthDate.String(),
		rec.Address,
		strconv.Itoa(rec.Age()),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// ServerSearch replaces the filtered view with a single-field substring
// search result from the source.
func (s *State) ServerSearch(q sewadar.SearchQuery) error {
	recs, err := s.source.Search(q)
	if err != nil {
		return err
	}
	s.filtered = recs
	return nil
}

// CategoryFilter keeps records whose badge type equals the given value
// exactly; an empty value resets the view to the full set.
func (s *State) CategoryFilter(badgeType string) {
	badgeType = core.CleanString(badgeType)
	if badgeType == "" {
		s.filtered = s.records
		return
	}
	filtered := make([]sewadar.Record, 0, len(s.records))
	for _, rec := range s.records {
		if rec.BadgeType == badgeType {
			filtered = append(filtered, rec)
		}
	}
	s.filtered = filtered
}

// ToggleSelect flips one key's membership in the selection.
func (s *State) ToggleSelect(badgeNo string) {
	if s.selected[badgeNo] {
		delete(s.selected, badgeNo)
	} else {
		s.selected[badgeNo] = true
	}
}

// SetAllVisible selects or deselects every currently filtered row
// uniformly, following the master checkbox.
func (s *State) SetAllVisible(selected bool) {
	for _, rec := range s.filtered {
		if selected {
			s.selected[rec.BadgeNo] = true
		} else {
			delete(s.selected, rec.BadgeNo)
		}
	}
}

// SelectByName adds every record from the FULL set whose name contains
// term to the selection; a blank term adds every record. Additive, not
// a replace.
func (s *State) SelectByName(term string) {
	term = strings.ToLower(core.CleanString(term))
	for _, rec := range s.records {
		if term == "" || strings.Contains(strings.ToLower(rec.Name), term) {
			s.selected[rec.BadgeNo] = true
		}
	}
}

// ClearSelection empties the selection unconditionally.
func (s *State) ClearSelection() {
	s.selected = make(map[string]bool)
}

// PruneSelection drops a key after its record was deleted server-side.
func (s *State) PruneSelection(badgeNo string) {
	delete(s.selected, badgeNo)
}

// RekeySelection follows a badge-number rename so an in-flight
// selection keeps referring to the same record.
func (s *State) RekeySelection(oldBadgeNo, newBadgeNo string) {
	if s.selected[oldBadgeNo] {
		delete(s.selected, oldBadgeNo)
		s.selected[newBadgeNo] = true
	}
}

// Resolve materializes a subset for export. Selected rows come out in
// full-set order, not selection-insertion order. An empty result is an
// error so exports abort before any document work begins.
func (s *State) Resolve(subset string) ([]sewadar.Record, error) {
	var recs []sewadar.Record
	switch subset {
	case SubsetAll:
		recs = s.records
	case SubsetFiltered:
		recs = s.filtered
	case SubsetSelected:
		recs = make([]sewadar.Record, 0, len(s.selected))
		for _, rec := range s.records {
			if s.selected[rec.BadgeNo] {
				recs = append(recs, rec)
			}
		}
	default:
		return nil, ErrUnknownSubset
	}
	if len(recs) == 0 {
		return nil, ErrEmptySubset
	}
	return recs, nil
}
