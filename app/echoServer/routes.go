package echoServer

import (
	"net/http"

	"github.com/widy4aa/P3-ApiLibrary/app/echoServer/controller/book"
	"github.com/widy4aa/P3-ApiLibrary/app/echoServer/controller/loan"
	"github.com/widy4aa/P3-ApiLibrary/app/echoServer/controller/stats"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type C struct {
	Book  *book.Controller
	Loan  *loan.Controller
	Stats *stats.Controller
}

func Register(e *echo.Echo, c C) {
	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "library-api"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Books
	books := api.Group("/books")
	books.GET("", c.Book.List)
	books.POST("", c.Book.Create)
	books.GET("/search", c.Book.Search)
	books.GET("/categories", c.Book.Categories)
	books.GET("/category/:category", c.Book.ByCategory)
	books.GET("/isbn/:isbn", c.Book.ByISBN)
	books.GET("/:id", c.Book.Detail)
	books.PUT("/:id", c.Book.Update)
	books.DELETE("/:id", c.Book.Delete)
	books.DELETE("/:id/permanent", c.Book.HardDelete)
	books.GET("/:id/availability", c.Book.Availability)

	// Loans
	loans := api.Group("/loans")
	loans.GET("", c.Loan.List)
	loans.POST("", c.Loan.Create)
	loans.GET("/borrowed", c.Loan.Borrowed)
	loans.GET("/overdue", c.Loan.Overdue)
	loans.GET("/borrower/:name", c.Loan.ByBorrower)
	loans.GET("/:id", c.Loan.Detail)
	loans.PUT("/:id", c.Loan.Update)
	loans.DELETE("/:id", c.Loan.Delete)
	loans.POST("/:id/return", c.Loan.Return)

	// Statistics
	api.GET("/statistics", c.Stats.Library)
	api.GET("/statistics/categories", c.Stats.ByCategory)
}
