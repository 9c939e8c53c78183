package sewadar_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/audit"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
	inmemdb "github.com/rssbrudrapur/sewabase/storage/database/inmem"
	testutil "github.com/rssbrudrapur/sewabase/tests"
)

type imageStoreStub struct {
	saved int
	path  string
	err   error
}

func (s *imageStoreStub) Save(img sewadar.Image) (string, error) {
	s.saved++
	if s.err != nil {
		return "", s.err
	}
	return s.path, nil
}

func setup(t *testing.T) (*sewadar.Service, sewadar.Repository, *imageStoreStub, *audit.Logger) {
	t.Helper()

	db := inmemdb.Open()
	repo := inmemdb.NewSewadarRepository(db)
	images := &imageStoreStub{path: "image/stub.jpg"}
	auditLog := audit.NewLogger(inmemdb.NewAuditRepository(db), nil)
	return sewadar.NewService(repo, images, auditLog), repo, images, auditLog
}

func newRecordFixture() sewadar.NewRecord {
	return sewadar.NewRecord{
		BadgeType:       "GENTS",
		BadgeNo:         "BR-000123",
		Name:            "Ravi Kumar",
		ParentName:      "Shyam Kumar",
		Gender:          "male",
		Phone:           "9876543210",
		Birth:           "15-06-2000",
		Address:         "Brudrapur",
		AdminTrackingID: "trk-1",
	}
}

func Test_Service_Create(t *testing.T) {
	svc, _, images, auditLog := setup(t)

	nr := newRecordFixture()
	created, err := svc.Create(nr, nil)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "BR-000123", created.BadgeNo)
	assert.Equal(t, "MALE", created.Gender)
	assert.Equal(t, sewadar.DefaultPic, created.Pic)
	assert.Equal(t, "15-06-2000", created.BirthDate.String())
	assert.Zero(t, images.saved)

	// round-trip
	got, err := svc.GetByBadgeNo("BR-000123")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// audit trail
	entries, err := auditLog.Query(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionAdminAdd, entries[0].ActionType)
	assert.Equal(t, "BR-000123", entries[0].TargetBadgeNo)
	assert.Equal(t, "trk-1", entries[0].TrackingID)
	// direct edits are self-approved
	assert.Equal(t, audit.ActorAdminDirect, entries[0].Approver)

	// duplicate key
	_, err = svc.Create(nr, nil)
	assert.ErrorIs(t, err, sewadar.ErrBadgeExists)

	// with image
	nr2 := newRecordFixture()
	nr2.BadgeNo = "BR-000124"
	created2, err := svc.Create(nr2, &sewadar.Image{Content: strings.NewReader("img"), Filename: "me.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "image/stub.jpg", created2.Pic)
	assert.Equal(t, 1, images.saved)
}

func Test_Service_Create_validation(t *testing.T) {
	svc, repo, _, _ := setup(t)

	tests := []struct {
		name   string
		mutate func(nr *sewadar.NewRecord)
	}{
		{"missing name", func(nr *sewadar.NewRecord) { nr.Name = "" }},
		{"bad badge prefix", func(nr *sewadar.NewRecord) { nr.BadgeNo = "br-000123" }},
		{"badge digits short", func(nr *sewadar.NewRecord) { nr.BadgeNo = "BR-123" }},
		{"phone too short", func(nr *sewadar.NewRecord) { nr.Phone = "12345" }},
		{"phone not numeric", func(nr *sewadar.NewRecord) { nr.Phone = "98765aaaaa" }},
		{"unknown gender", func(nr *sewadar.NewRecord) { nr.Gender = "ROBOT" }},
		{"bad birth date", func(nr *sewadar.NewRecord) { nr.Birth = "2000-06-15" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nr := newRecordFixture()
			tt.mutate(&nr)
			_, err := svc.Create(nr, nil)
			assert.Error(t, err)
		})
	}

	// none of the rejects reached the store
	recs, err := repo.QueryRecords(sewadar.Ordering{}.Normalize())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func Test_Service_Update(t *testing.T) {
	svc, repo, images, _ := setup(t)

	created, err := svc.Create(newRecordFixture(), nil)
	require.NoError(t, err)

	// unknown original key leaves the store untouched
	missing := sewadar.UpdateRecord{NewRecord: newRecordFixture()}
	missing.BadgeNo = "BR-999999"
	_, err = svc.Update("BR-999999", missing, nil)
	assert.ErrorIs(t, err, sewadar.ErrNotFound)
	recs, err := repo.QueryRecords(sewadar.Ordering{}.Normalize())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, created, recs[0])

	// update without image keeps the stored picture
	ur := sewadar.UpdateRecord{NewRecord: newRecordFixture()}
	ur.Phone = "9123456789"
	updated, err := svc.Update("BR-000123", ur, nil)
	require.NoError(t, err)
	assert.Equal(t, "9123456789", updated.Phone)
	assert.Equal(t, created.Pic, updated.Pic)
	assert.Equal(t, created.ID, updated.ID)
	assert.Zero(t, images.saved)

	// rekey moves the record to the new badge number
	rk := sewadar.UpdateRecord{NewRecord: newRecordFixture()}
	rk.BadgeNo = "BR-000777"
	rekeyed, err := svc.Update("BR-000123", rk, nil)
	require.NoError(t, err)
	assert.Equal(t, "BR-000777", rekeyed.BadgeNo)
	_, err = svc.GetByBadgeNo("BR-000123")
	assert.ErrorIs(t, err, sewadar.ErrNotFound)
	got, err := svc.GetByBadgeNo("BR-000777")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func Test_Service_Delete(t *testing.T) {
	svc, _, _, auditLog := setup(t)

	_, err := svc.Create(newRecordFixture(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete("BR-000123", sewadar.DeleteRecord{Reason: "duplicate entry", TrackingID: "trk-9"}))
	_, err = svc.GetByBadgeNo("BR-000123")
	assert.ErrorIs(t, err, sewadar.ErrNotFound)

	// deleting again never succeeds
	err = svc.Delete("BR-000123", sewadar.DeleteRecord{})
	assert.ErrorIs(t, err, sewadar.ErrNotFound)

	entries, err := auditLog.Query(10)
	require.NoError(t, err)
	require.Len(t, entries, 2) // create + the one successful delete
	assert.Equal(t, audit.ActionAdminDelete, entries[0].ActionType)
	assert.Equal(t, "duplicate entry", entries[0].Reason)
}

func Test_Service_Search(t *testing.T) {
	svc, repo, _, _ := setup(t)

	a := testutil.CreateRecord(t, repo, "GENTS", "BR-000001", "Amit Singh", "Raj Singh", "MALE", "9876512345", "01-01-1990", "Delhi")
	testutil.CreateRecord(t, repo, "LADIES", "BR-000002", "Seema Devi", "Mohan Lal", "FEMALE", "8765123456", "02-02-1985", "Agra")

	// substring phone match
	recs, err := svc.Search(sewadar.SearchQuery{Field: "phone", Term: "98765"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, a.BadgeNo, recs[0].BadgeNo)

	// no match is an empty result, not an error
	recs, err = svc.Search(sewadar.SearchQuery{Field: "name", Term: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, recs)

	// unknown field is rejected before the store
	_, err = svc.Search(sewadar.SearchQuery{Field: "pic", Term: "demo"})
	var vErr *core.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func Test_Service_QueryAll_ordering(t *testing.T) {
	svc, repo, _, _ := setup(t)

	testutil.CreateRecord(t, repo, "GENTS", "BR-000002", "Zoya", "P", "FEMALE", "9000000002", "01-01-1990", "X")
	testutil.CreateRecord(t, repo, "GENTS", "BR-000001", "Amit", "P", "MALE", "9000000001", "01-01-1995", "X")

	// default: name ascending
	recs, err := svc.QueryAll(sewadar.Ordering{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Amit", recs[0].Name)

	// explicit badge_no descending
	recs, err = svc.QueryAll(sewadar.Ordering{Field: "badge_no", Direction: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "BR-000002", recs[0].BadgeNo)

	// unknown sort field falls back to the default instead of erroring
	recs, err = svc.QueryAll(sewadar.Ordering{Field: "pic", Direction: "nope"})
	require.NoError(t, err)
	assert.Equal(t, "Amit", recs[0].Name)
}
