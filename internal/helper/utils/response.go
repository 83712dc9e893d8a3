// Package utils holds the response envelope helpers shared by every handler.
// All success bodies look like {"status":"success","data":...} and all error
// bodies like {"status":"error","error":{"code":...,"message":...}}.
package utils

import "github.com/gofiber/fiber/v2"

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"status": "error",
		"error": fiber.Map{
			"code":    status,
			"message": msg,
		},
	})
}
