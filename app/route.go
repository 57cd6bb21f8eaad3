package app

import (
	"github.com/angelofallars/timebill/app/route/invoice"
	"github.com/go-chi/chi/v5/middleware"
)

func (a *App) RegisterRoutes() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	invoice.NewHandlerGroup(a.slog, a.svcInvoice).
		WithMaxUpload(a.maxUpload).
		WithDefaultRate(a.defaultRate).
		Mount(a.router)
}
