package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventapro-api/internal/application/report"
	"github.com/jhoicas/ventapro-api/internal/application/settings"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReportUC   *report.UseCase
	SettingsUC *settings.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Reportes de rentabilidad (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/profit", reportHandler.GetProfitReport)
	reports.Post("/profit/preview", reportHandler.PreviewOrderProfit)

	// Configuración de comisiones y costos (protegido)
	settingsGroup := protected.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settingsGroup.Get("/fees/:platform", settingsHandler.GetPlatformFees)
	settingsGroup.Put("/fees/:platform", settingsHandler.SavePlatformFees)
	settingsGroup.Get("/external-costs", settingsHandler.GetExternalCosts)
	settingsGroup.Put("/external-costs", settingsHandler.SaveExternalCosts)
	settingsGroup.Get("/packaging-tiers", settingsHandler.GetPackagingTiers)
	settingsGroup.Put("/packaging-tiers", settingsHandler.SavePackagingTiers)
}
