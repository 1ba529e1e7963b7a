package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/repurposer/internal/platform"
	"github.com/maheshrc27/repurposer/internal/transfer"
)

type PlatformHandler struct{}

func NewPlatformHandler() *PlatformHandler {
	return &PlatformHandler{}
}

func (h *PlatformHandler) ListPlatforms(c *fiber.Ctx) error {
	platforms := make([]transfer.PlatformInfo, 0, len(platform.All))
	for _, p := range platform.All {
		platforms = append(platforms, transfer.PlatformInfo{
			ID:        p.String(),
			Label:     p.Label(),
			CharLimit: p.CharLimit(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(platforms)
}

func (h *PlatformHandler) CheckContent(c *fiber.Ctx) error {
	p, err := platform.Parse(c.Params("platform"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	var req transfer.CharacterCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Unable to parse body")
	}

	return c.Status(fiber.StatusOK).JSON(transfer.CharacterCheckResponse{
		Platform:  p.String(),
		Count:     platform.CharacterCount(req.Content),
		Limit:     p.CharLimit(),
		OverLimit: p.IsOverLimit(req.Content),
	})
}
