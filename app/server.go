package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/angelofallars/timebill/internal/service"
	"github.com/go-chi/chi/v5"
)

type App struct {
	host string
	port int

	slog   *slog.Logger
	router chi.Router

	svcInvoice  service.Invoice
	maxUpload   int64
	defaultRate float64

	routes sync.Once
}

func New(slog *slog.Logger, svcInvoice service.Invoice) *App {
	app := &App{
		host: "localhost",
		port: 3000,

		router: chi.NewRouter(),
		slog:   slog,

		svcInvoice: svcInvoice,
		maxUpload:  5 << 20,
	}

	return app
}

func (a *App) WithHost(host string) *App {
	a.host = host
	return a
}

func (a *App) WithPort(port uint) *App {
	a.port = int(port)
	return a
}

// WithMaxUpload limits the size of uploaded timesheets to mb megabytes.
func (a *App) WithMaxUpload(mb int64) *App {
	a.maxUpload = mb << 20
	return a
}

// WithDefaultRate prefills the hourly rate of the invoice form.
func (a *App) WithDefaultRate(rate float64) *App {
	a.defaultRate = rate
	return a
}

// Handler returns the app's root handler, registering the routes
// on first use.
func (a *App) Handler() http.Handler {
	a.routes.Do(a.RegisterRoutes)
	return a.router
}

func (a *App) Serve() error {
	addr := fmt.Sprintf("%s:%d", a.host, a.port)
	server := http.Server{
		Addr:    addr,
		Handler: a.Handler(),

		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	a.slog.Info("server started listening", "addr", addr)

	return server.ListenAndServe()
}
