// Package main library inventory & loan API.
//
// @title           Library API
// @version         1.0
// @description     Book catalog, loan tracking and library statistics.
// @BasePath        /api
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/widy4aa/P3-ApiLibrary/app/echoServer"
	bookctrl "github.com/widy4aa/P3-ApiLibrary/app/echoServer/controller/book"
	loanctrl "github.com/widy4aa/P3-ApiLibrary/app/echoServer/controller/loan"
	statsctrl "github.com/widy4aa/P3-ApiLibrary/app/echoServer/controller/stats"
	"github.com/widy4aa/P3-ApiLibrary/app/echoServer/validation"
	"github.com/widy4aa/P3-ApiLibrary/config"
	"github.com/widy4aa/P3-ApiLibrary/observer"
	bookrepo "github.com/widy4aa/P3-ApiLibrary/repository/book"
	loanrepo "github.com/widy4aa/P3-ApiLibrary/repository/loan"
	booksvc "github.com/widy4aa/P3-ApiLibrary/service/book"
	loansvc "github.com/widy4aa/P3-ApiLibrary/service/loan"
	statssvc "github.com/widy4aa/P3-ApiLibrary/service/stats"
	"github.com/widy4aa/P3-ApiLibrary/util/database"
	"github.com/widy4aa/P3-ApiLibrary/validators"

	"github.com/labstack/echo/v4"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// event bus
	bus := observer.NewBus(log)
	bus.Subscribe(observer.NewActivityLogger(log), observer.AllEvents...)

	// repos
	br := bookrepo.New(db)
	lr := loanrepo.New(db)

	// services
	bs := booksvc.New(br, validators.NewBookRules(br), bus)
	ls := loansvc.New(lr, br, validators.NewLoanRules(br, lr), bus)
	ss := statssvc.New(br, lr, bus)

	// background overdue sweep
	sweeper := loansvc.NewSweeper(lr, bus, log)
	go sweeper.Run(ctx, time.Duration(cfg.SweepMins)*time.Minute)

	// controllers
	v := validation.New()
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	loanC := &loanctrl.Controller{Svc: ls, V: v, Log: log}
	statsC := &statsctrl.Controller{Svc: ss, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e, log)

	echoServer.Register(e, echoServer.C{
		Book:  bookC,
		Loan:  loanC,
		Stats: statsC,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
