package book

import (
	"log/slog"
	"net/http"
	"strconv"

	booksvc "github.com/widy4aa/P3-ApiLibrary/service/book"
	"github.com/widy4aa/P3-ApiLibrary/util/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func respond(c echo.Context, res *response.Result) error {
	return c.JSON(res.HTTPStatus(), res)
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// GET /api/books
func (h *Controller) List(c echo.Context) error {
	f := booksvc.Filter{
		Category:      c.QueryParam("category"),
		AvailableOnly: c.QueryParam("available_only") == "true",
		OrderBy:       c.QueryParam("sort"),
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		f.Limit = limit
	}
	if offset, err := strconv.Atoi(c.QueryParam("offset")); err == nil && offset > 0 {
		f.Offset = offset
	}
	return respond(c, h.Svc.List(c.Request().Context(), f))
}

// GET /api/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	return respond(c, h.Svc.Detail(c.Request().Context(), id))
}

// GET /api/books/isbn/:isbn
func (h *Controller) ByISBN(c echo.Context) error {
	return respond(c, h.Svc.ByISBN(c.Request().Context(), c.Param("isbn")))
}

// POST /api/books
func (h *Controller) Create(c echo.Context) error {
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	res := h.Svc.Create(c.Request().Context(), req.toInput())
	if res.Success {
		return c.JSON(http.StatusCreated, res)
	}
	return respond(c, res)
}

// PUT /api/books/:id
func (h *Controller) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	return respond(c, h.Svc.Update(c.Request().Context(), id, req.toInput()))
}

// DELETE /api/books/:id
func (h *Controller) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	return respond(c, h.Svc.Delete(c.Request().Context(), id))
}

// DELETE /api/books/:id/permanent
func (h *Controller) HardDelete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	return respond(c, h.Svc.HardDelete(c.Request().Context(), id))
}

// GET /api/books/search?q=
func (h *Controller) Search(c echo.Context) error {
	return respond(c, h.Svc.Search(c.Request().Context(), c.QueryParam("q")))
}

// GET /api/books/categories
func (h *Controller) Categories(c echo.Context) error {
	return respond(c, h.Svc.Categories(c.Request().Context()))
}

// GET /api/books/category/:category
func (h *Controller) ByCategory(c echo.Context) error {
	f := booksvc.Filter{Category: c.Param("category")}
	return respond(c, h.Svc.List(c.Request().Context(), f))
}

// GET /api/books/:id/availability
func (h *Controller) Availability(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	return respond(c, h.Svc.CheckAvailability(c.Request().Context(), id))
}
