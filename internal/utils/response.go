package utils

import "github.com/gofiber/fiber/v3"

// StatusResponse is the envelope for mutating operations that report a count
func StatusResponse(c fiber.Ctx, message string, counts fiber.Map) error {
	body := fiber.Map{
		"status":  "success",
		"message": message,
	}
	for k, v := range counts {
		body[k] = v
	}
	return c.JSON(body)
}
