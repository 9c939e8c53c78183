package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/rssbrudrapur/sewabase/core/attendance"
)

func Test_attendanceApi_mark(t *testing.T) {
	resetApp(t)

	t.Run("valid", func(t *testing.T) {
		body := marchallObj(t, attendance.MarkRequest{
			Username:   "ravi",
			Status:     "Present",
			Timestamp:  "2024-06-15T08:30:00Z",
			Location:   "Main Hall",
			TrackingID: "trk-7",
		})
		req, rec := newRequest(http.MethodPost, "/mark-attendance", body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp struct {
			Success bool             `json:"success"`
			Message string           `json:"message"`
			Record  attendance.Entry `json:"record"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if !resp.Success || resp.Message != "Attendance recorded successfully." {
			t.Errorf("unexpected envelope: %s", rec.Body.String())
		}
		if resp.Record.ID == 0 || resp.Record.Username != "ravi" {
			t.Errorf("unexpected record: %+v", resp.Record)
		}

		// one notification left the building
		if len(pub.events) != 1 {
			t.Fatalf("events = %d; want 1", len(pub.events))
		}
		if pub.events[0].Username != "ravi" || pub.events[0].Status != "Present" {
			t.Errorf("unexpected event: %+v", pub.events[0])
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []httpTest{
			{name: "missing username", body: marchallObj(t, attendance.MarkRequest{Status: "Present", Timestamp: "2024-06-15T08:30:00Z"})},
			{name: "missing status", body: marchallObj(t, attendance.MarkRequest{Username: "ravi", Timestamp: "2024-06-15T08:30:00Z"})},
			{name: "bad timestamp", body: marchallObj(t, attendance.MarkRequest{Username: "ravi", Status: "Present", Timestamp: "yesterday"})},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req, rec := newRequest(http.MethodPost, "/mark-attendance", tt.body)
				app.ServeHTTP(rec, req)
				if rec.Code != http.StatusBadRequest {
					t.Errorf("code = %v; want %v: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
				}
			})
		}
		// rejects never notify
		if len(pub.events) != 1 {
			t.Errorf("events = %d; want still 1", len(pub.events))
		}
	})
}

func Test_attendanceApi_upcomingSewa(t *testing.T) {
	resetApp(t)

	now := time.Now()
	attRepo.AddDuty(attendance.Duty{DutyName: "Langar", AssignedUser: "ravi", DateTime: now.Add(48 * time.Hour), Location: "Kitchen"})
	attRepo.AddDuty(attendance.Duty{DutyName: "Parking", AssignedUser: "ravi", DateTime: now.Add(24 * time.Hour), Location: "Gate 2", IsUrgent: true})
	attRepo.AddDuty(attendance.Duty{DutyName: "Gone", AssignedUser: "ravi", DateTime: now.Add(-time.Hour), Location: "Hall"})

	req, rec := newRequest(http.MethodGet, "/upcoming-sewa?user=ravi")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var duties []attendance.Duty
	if err := json.Unmarshal(rec.Body.Bytes(), &duties); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(duties) != 2 {
		t.Fatalf("duties = %d; want 2", len(duties))
	}
	if duties[0].DutyName != "Parking" || !duties[0].IsUrgent {
		t.Errorf("unexpected first duty: %+v", duties[0])
	}

	// nobody assigned means an empty list, not an error
	req, rec = newRequest(http.MethodGet, "/upcoming-sewa?user=nobody")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)
}

func Test_attendanceApi_pastAttendance(t *testing.T) {
	resetApp(t)

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 32; i++ {
		body := marchallObj(t, attendance.MarkRequest{
			Username:  "ravi",
			Status:    "Present",
			Timestamp: base.AddDate(0, 0, i).Format(time.RFC3339),
		})
		req, rec := newRequest(http.MethodPost, "/mark-attendance", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("seed mark failed: %v: %s", rec.Code, rec.Body.String())
		}
	}

	req, rec := newRequest(http.MethodGet, "/past-attendance?user=ravi")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var hist []attendance.HistoryEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(hist) != 30 {
		t.Fatalf("entries = %d; want the 30 most recent", len(hist))
	}
	if !hist[0].Date.After(hist[1].Date) {
		t.Error("expected newest first")
	}
	if hist[0].Time != "09:00 AM" {
		t.Errorf("time = %q; want %q", hist[0].Time, "09:00 AM")
	}
}
