package loan

import (
	"log/slog"
	"net/http"
	"strconv"

	loansvc "github.com/widy4aa/P3-ApiLibrary/service/loan"
	"github.com/widy4aa/P3-ApiLibrary/model"
	"github.com/widy4aa/P3-ApiLibrary/util/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc loansvc.Service
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

// GET /api/loans
func (h *Controller) List(c echo.Context) error {
	f := loansvc.Filter{
		Status:   model.LoanStatus(c.QueryParam("status")),
		Borrower: c.QueryParam("borrower"),
	}
	if bookID, err := strconv.ParseInt(c.QueryParam("book_id"), 10, 64); err == nil && bookID > 0 {
		f.BookID = bookID
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		f.Limit = limit
	}
	if offset, err := strconv.Atoi(c.QueryParam("offset")); err == nil && offset > 0 {
		f.Offset = offset
	}
	return respond(c, h.Svc.List(c.Request().Context(), f))
}

// GET /api/loans/borrowed
func (h *Controller) Borrowed(c echo.Context) error {
	f := loansvc.Filter{Status: model.LoanBorrowed}
	return respond(c, h.Svc.List(c.Request().Context(), f))
}

// GET /api/loans/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	return respond(c, h.Svc.Detail(c.Request().Context(), id))
}

// POST /api/loans
func (h *Controller) Create(c echo.Context) error {
	var req CreateLoanReq
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

// POST /api/loans/:id/return
func (h *Controller) Return(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req ReturnLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	return respond(c, h.Svc.Return(c.Request().Context(), id, req.ReturnDate))
}

// PUT /api/loans/:id
func (h *Controller) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	return respond(c, h.Svc.Update(c.Request().Context(), id, req.toInput()))
}

// DELETE /api/loans/:id
func (h *Controller) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	return respond(c, h.Svc.Delete(c.Request().Context(), id))
}

// GET /api/loans/overdue
func (h *Controller) Overdue(c echo.Context) error {
	return respond(c, h.Svc.Overdue(c.Request().Context()))
}

// GET /api/loans/borrower/:name
func (h *Controller) ByBorrower(c echo.Context) error {
	return respond(c, h.Svc.ByBorrower(c.Request().Context(), c.Param("name")))
}
