package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rssbrudrapur/sewabase/core/attendance"
)

type attendanceApi struct {
	service *attendance.Service
}

// RegisterAttendanceAPI mounts the attendance endpoints on the root
// group; unlike the record API these are not under /api.
func RegisterAttendanceAPI(e *echo.Echo, svc *attendance.Service) {
	api := attendanceApi{service: svc}

	e.POST("/mark-attendance", api.mark)
	e.GET("/upcoming-sewa", api.upcomingSewa)
	e.GET("/past-attendance", api.pastAttendance)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	data := new(attendance.MarkRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	entry, err := api.service.Mark(*data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Attendance recorded successfully.",
		"record":  entry,
	})
}

func (api *attendanceApi) upcomingSewa(ctx echo.Context) error {
	duties, err := api.service.UpcomingSewa(ctx.QueryParam("user"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, duties)
}

func (api *attendanceApi) pastAttendance(ctx echo.Context) error {
	entries, err := api.service.History(ctx.QueryParam("user"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entries)
}
