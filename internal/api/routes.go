package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/katakuxiko/trivia/internal/service"
)

// New — fiber приложение с recover middleware: паника в обработчике
// превращается в 500, а не роняет процесс.
func New() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	return app
}

func RegisterRoutes(app *fiber.App, solver *service.Solver, history HistoryReader) {
	h := NewHandler(solver, history)

	app.Get("/health", h.Health)
	app.Get("/processors", h.ListProcessors)
	app.Get("/history", h.History)
	app.Post("/solve", h.Solve)
	app.Post("/solve/image", h.SolveImage)
	app.Post("/solve/pdf", h.SolvePDF)
}
