package stats

import (
	"log/slog"

	statssvc "github.com/widy4aa/P3-ApiLibrary/service/stats"
	"github.com/widy4aa/P3-ApiLibrary/util/response"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc statssvc.Service
	Log *slog.Logger
}

func respond(c echo.Context, res *response.Result) error {
	return c.JSON(res.HTTPStatus(), res)
}

// GET /api/statistics
func (h *Controller) Library(c echo.Context) error {
	return respond(c, h.Svc.Library(c.Request().Context()))
}

// GET /api/statistics/categories
func (h *Controller) ByCategory(c echo.Context) error {
	return respond(c, h.Svc.ByCategory(c.Request().Context()))
}
