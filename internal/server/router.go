package server

import "github.com/gofiber/fiber/v2"

func (s *Server) InitRoutes(router *fiber.App) {
	router.Get("/health", s.Health)
	router.Get("/get_stock_data", s.GetStockData)
	router.Get("/get_batch_data", s.GetBatchData)
	router.Get("/get_stock_history", s.GetStockHistory)
}

func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
