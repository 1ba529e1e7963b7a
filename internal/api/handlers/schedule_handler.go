package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/repurposer/internal/models"
	"github.com/maheshrc27/repurposer/internal/platform"
	"github.com/maheshrc27/repurposer/internal/service"
	"github.com/maheshrc27/repurposer/internal/transfer"
	"github.com/maheshrc27/repurposer/pkg/utils"
)

type ScheduleHandler struct {
	s   service.ScheduleService
	loc *time.Location
	now func() time.Time
}

func NewScheduleHandler(s service.ScheduleService, loc *time.Location) *ScheduleHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleHandler{s: s, loc: loc, now: time.Now}
}

func (h *ScheduleHandler) scheduledFor(date, clock string) (time.Time, error) {
	at, err := service.CombineDateTime(date, clock, h.loc)
	if err != nil {
		return time.Time{}, err
	}
	if at.Before(h.now().Truncate(time.Minute)) {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Scheduled time must be in the future")
	}
	return at, nil
}

func (h *ScheduleHandler) CreateSchedule(c *fiber.Ctx) error {
	var req transfer.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Unable to parse body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	p, err := platform.Parse(req.Platform)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	at, err := h.scheduledFor(req.Date, req.Time)
	if err != nil {
		return scheduleError(c, err)
	}

	post, err := h.s.SchedulePost(c.UserContext(), GetUserID(c), service.ScheduleInput{
		Platform:            p,
		Content:             req.Content,
		ScheduledFor:        at,
		OriginalContentID:   req.OriginalContentID,
		RepurposedContentID: req.RepurposedContentID,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// ListSchedule returns every post, or one day's posts when date is set.
// group=day buckets the posts by local calendar date.
func (h *ScheduleHandler) ListSchedule(c *fiber.Ctx) error {
	userID := GetUserID(c)
	group := c.Query("group")
	if group != "" && group != "day" {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid group")
	}

	if date := c.Query("date"); date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, h.loc)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid date")
		}
		posts, err := h.s.ListScheduledOn(c.UserContext(), userID, day)
		if err != nil {
			return serviceError(c, err)
		}
		return h.listJSON(c, group, posts)
	}

	posts, err := h.s.ListScheduled(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return h.listJSON(c, group, posts)
}

func (h *ScheduleHandler) listJSON(c *fiber.Ctx, group string, posts []*models.ScheduledPost) error {
	if group == "day" {
		return c.Status(fiber.StatusOK).JSON(service.GroupByDay(posts, h.loc))
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *ScheduleHandler) Summary(c *fiber.Ctx) error {
	sum, err := h.s.Summary(c.UserContext(), GetUserID(c), h.now())
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(sum)
}

func (h *ScheduleHandler) Reschedule(c *fiber.Ctx) error {
	var req transfer.RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Unable to parse body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	at, err := h.scheduledFor(req.Date, req.Time)
	if err != nil {
		return scheduleError(c, err)
	}

	post, err := h.s.Reschedule(c.UserContext(), GetUserID(c), c.Params("id"), req.Content, at)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *ScheduleHandler) CancelSchedule(c *fiber.Ctx) error {
	if err := h.s.CancelScheduled(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func scheduleError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return errorJSON(c, fe.Code, fe.Message)
	}
	return serviceError(c, err)
}
