package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/repurposer/internal/generator"
	"github.com/maheshrc27/repurposer/internal/platform"
	"github.com/maheshrc27/repurposer/internal/service"
)

func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// serviceError maps a service error to a status code. Upload and insert
// errors keep their prefixed message.
func serviceError(c *fiber.Ctx, err error) error {
	var (
		uploadErr *service.UploadError
		insertErr *service.InsertError
	)

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return errorJSON(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrTranscriptUnavailable):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, platform.ErrUnknownPlatform),
		errors.Is(err, service.ErrEmptyInput),
		errors.Is(err, service.ErrUnsupportedInput),
		errors.Is(err, service.ErrInputTypeMismatch),
		errors.Is(err, service.ErrInvalidYouTubeURL),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrInvalidDateTime):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotPending):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNoContentGenerated), errors.Is(err, generator.ErrNoLLM):
		return errorJSON(c, fiber.StatusBadGateway, err.Error())
	case errors.As(err, &uploadErr), errors.As(err, &insertErr):
		slog.Error(err.Error())
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	slog.Error(err.Error())
	return errorJSON(c, fiber.StatusInternalServerError, err.Error())
}
