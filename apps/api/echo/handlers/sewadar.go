package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rssbrudrapur/sewabase/core/audit"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

const auditPageSize = 100

type sewadarApi struct {
	service  *sewadar.Service
	auditLog *audit.Logger
}

func RegisterSewadarAPI(g *echo.Group, jwt, admin echo.MiddlewareFunc, svc *sewadar.Service, auditLog *audit.Logger) {
	api := sewadarApi{service: svc, auditLog: auditLog}

	rg := g.Group("/records")
	rg.GET("", api.recordList)
	rg.POST("", api.recordCreate)
	rg.GET("/:badgeNo", api.recordRetrieve)
	rg.PUT("/:originalBadgeNo", api.recordUpdate)
	rg.DELETE("/:badgeNo", api.recordDestroy)

	g.GET("/search", api.recordSearch)

	g.GET("/logs", api.auditQuery, jwt, admin)
}

// Handlers

func (api *sewadarApi) recordList(ctx echo.Context) error {
	ord := sewadar.Ordering{}
	if err := ctx.Bind(&ord); err != nil {
		return err
	}
	recs, err := api.service.QueryAll(ord)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *sewadarApi) recordRetrieve(ctx echo.Context) error {
	rec, err := api.service.GetByBadgeNo(ctx.Param("badgeNo"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "record": rec})
}

func (api *sewadarApi) recordCreate(ctx echo.Context) error {
	data := new(sewadar.NewRecord)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	img, err := formImage(ctx)
	if err != nil {
		return err
	}
	defer closeImage(img)

	rec, err := api.service.Create(*data, imageArg(img))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "record": rec})
}

func (api *sewadarApi) recordUpdate(ctx echo.Context) error {
	data := new(sewadar.UpdateRecord)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	img, err := formImage(ctx)
	if err != nil {
		return err
	}
	defer closeImage(img)

	rec, err := api.service.Update(ctx.Param("originalBadgeNo"), *data, imageArg(img))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "record": rec})
}

func (api *sewadarApi) recordDestroy(ctx echo.Context) error {
	data := new(sewadar.DeleteRecord)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	if err := api.service.Delete(ctx.Param("badgeNo"), *data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Record deleted successfully"})
}

func (api *sewadarApi) recordSearch(ctx echo.Context) error {
	q := sewadar.SearchQuery{}
	if err := ctx.Bind(&q); err != nil {
		return err
	}
	recs, err := api.service.Search(q)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *sewadarApi) auditQuery(ctx echo.Context) error {
	entries, err := api.auditLog.Query(auditPageSize)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entries)
}
