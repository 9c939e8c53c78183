package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rssbrudrapur/sewabase/core/requests"
)

type requestsApi struct {
	service *requests.Service
}

// RegisterRequestsAPI mounts the moderation queue. Submission and the
// requester-facing listings are open like the record API; the review
// endpoints are admin-only.
func RegisterRequestsAPI(g *echo.Group, jwt, admin echo.MiddlewareFunc, svc *requests.Service) {
	api := requestsApi{service: svc}

	g.POST("/submit-request", api.submit)
	g.GET("/user/my-requests", api.myRequests)
	g.GET("/request-history/:targetBadgeNo", api.history)

	g.GET("/moderation/pending", api.pending, jwt, admin)
	g.GET("/request/:id", api.retrieve, jwt, admin)
	g.POST("/requests/approve/:id", api.approve, jwt, admin)
	g.POST("/requests/reject/:id", api.reject, jwt, admin)
}

func (api *requestsApi) submit(ctx echo.Context) error {
	data := new(requests.NewRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	img, err := formImage(ctx)
	if err != nil {
		return err
	}
	defer closeImage(img)

	req, err := api.service.Submit(*data, imageArg(img))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{
		"success":    true,
		"message":    "Request submitted successfully for Admin approval!",
		"trackingID": req.TrackingID,
	})
}

func (api *requestsApi) pending(ctx echo.Context) error {
	sums, err := api.service.Pending()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sums)
}

func (api *requestsApi) retrieve(ctx echo.Context) error {
	id, err := requestID(ctx)
	if err != nil {
		return err
	}
	req, err := api.service.Get(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *requestsApi) approve(ctx echo.Context) error {
	id, err := requestID(ctx)
	if err != nil {
		return err
	}
	req, err := api.service.Approve(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Request " + req.Type + " approved successfully.",
	})
}

func (api *requestsApi) reject(ctx echo.Context) error {
	id, err := requestID(ctx)
	if err != nil {
		return err
	}

	data := new(requests.RejectRequest)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	req, err := api.service.Reject(id, data.Reason)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Request rejected successfully.",
		"request": req,
	})
}

func (api *requestsApi) history(ctx echo.Context) error {
	sums, err := api.service.HistoryFor(ctx.Param("targetBadgeNo"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sums)
}

func (api *requestsApi) myRequests(ctx echo.Context) error {
	username := ctx.QueryParam("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username is required to fetch requests.")
	}
	sums, err := api.service.ByRequester(username)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sums)
}

func requestID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid request id")
	}
	return id, nil
}
