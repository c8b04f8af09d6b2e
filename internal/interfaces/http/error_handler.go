package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalog-exchange/internal/application/dto"
	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
)

// ErrorHandler responde los errores que llegan a fiber, incluidos los panics recuperados.
// Bajo /exchange la respuesta sigue el protocolo (texto plano "ERROR\n<mensaje>"); en el
// resto es un dto.ErrorResponse.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		msg := exchange.MsgServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			msg = strings.ReplaceAll(strings.ToLower(fe.Message), "\n", " ")
		}
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		}

		if isExchangePath(c.Path()) {
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Status(status).SendString(exchange.ResultError + "\n" + msg)
		}
		code := strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(status), " ", "_"))
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
	}
}

func isExchangePath(path string) bool {
	return path == "/exchange" || strings.HasPrefix(path, "/exchange/")
}
