package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/repurposer/internal/service"
	"github.com/maheshrc27/repurposer/internal/transfer"
	"github.com/maheshrc27/repurposer/pkg/utils"
)

type YouTubeHandler struct {
	ys service.YouTubeService
}

func NewYouTubeHandler(ys service.YouTubeService) *YouTubeHandler {
	return &YouTubeHandler{ys: ys}
}

// Analyze scores the caption track of a YouTube video.
func (h *YouTubeHandler) Analyze(c *fiber.Ctx) error {
	var req transfer.YouTubeAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Unable to parse body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	analysis, err := h.ys.Analyze(c.UserContext(), req.URL)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(analysis)
}
