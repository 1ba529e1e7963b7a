package handlers

import (
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/repurposer/internal/generator"
	"github.com/maheshrc27/repurposer/internal/platform"
	"github.com/maheshrc27/repurposer/internal/service"
	"github.com/maheshrc27/repurposer/internal/transfer"
	"github.com/maheshrc27/repurposer/pkg/utils"
)

type ContentHandler struct {
	rs service.RepurposeService
	cs service.ContentService
	es service.ExtractService
}

func NewContentHandler(rs service.RepurposeService, cs service.ContentService, es service.ExtractService) *ContentHandler {
	return &ContentHandler{rs: rs, cs: cs, es: es}
}

// splitList accepts repeated form values as well as comma separated ones.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, strings.ToLower(part))
			}
		}
	}
	return out
}

func toGenerated(res generator.Result) (transfer.GeneratedContent, []string) {
	var (
		out    transfer.GeneratedContent
		tweets []string
	)
	if res.Twitter != nil {
		out.Twitter = &res.Twitter.Raw
		tweets = res.Twitter.Tweets
	}
	if res.Instagram != nil {
		out.Instagram = &res.Instagram.Text
	}
	if res.LinkedIn != nil {
		out.LinkedIn = &res.LinkedIn.Text
	}
	return out, tweets
}

func (h *ContentHandler) readSource(c *fiber.Ctx, req *transfer.RepurposeRequest) (*service.Source, error) {
	fileHeader, err := c.FormFile("file")
	if err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}
		return h.es.FromFile(fileHeader.Filename, data, fileHeader.Header.Get(fiber.HeaderContentType), req.URL)
	}

	if req.Text != "" {
		return h.es.FromText(req.Text, req.URL)
	}
	if req.URL != "" {
		return h.es.FromURL(c.UserContext(), req.URL)
	}
	return nil, service.ErrEmptyInput
}

func (h *ContentHandler) Repurpose(c *fiber.Ctx) error {
	userID := GetUserID(c)

	req := transfer.RepurposeRequest{
		InputType: strings.ToLower(strings.TrimSpace(c.FormValue("input_type"))),
		URL:       strings.TrimSpace(c.FormValue("url")),
		Text:      c.FormValue("text"),
		Tone:      strings.TrimSpace(c.FormValue("tone")),
		UseDummy:  c.FormValue("use_dummy") == "true",
	}
	if form, err := c.MultipartForm(); err == nil {
		req.OutputTypes = splitList(form.Value["output_types"])
	} else {
		req.OutputTypes = splitList([]string{c.FormValue("output_types")})
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	platforms, err := service.ParsePlatforms(req.OutputTypes)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	src, err := h.readSource(c, &req)
	if err != nil {
		slog.Info(err.Error())
		return serviceError(c, err)
	}
	if err := service.ApplyInputType(src, req.InputType); err != nil {
		slog.Info(err.Error())
		return serviceError(c, err)
	}

	res, err := h.rs.CreateTask(c.UserContext(), userID, service.TaskInput{
		Source:      src,
		Tone:        req.Tone,
		Platforms:   platforms,
		UseFallback: req.UseDummy,
	})
	if err != nil {
		return serviceError(c, err)
	}

	content, tweets := toGenerated(res.Content)
	return c.Status(fiber.StatusCreated).JSON(transfer.RepurposeResponse{
		OriginalContentID: res.Original.ID,
		Content:           content,
		Tweets:            tweets,
		Saved:             len(res.Saved),
	})
}

func (h *ContentHandler) Regenerate(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.RegenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Unable to parse body")
	}
	req.OutputTypes = splitList(req.OutputTypes)

	if err := utils.ValidateStruct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	platforms, err := service.ParsePlatforms(req.OutputTypes)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := h.rs.Regenerate(c.UserContext(), userID, c.Params("id"), service.RegenerateInput{
		Tone:        req.Tone,
		Platforms:   platforms,
		UseFallback: req.UseDummy,
	})
	if err != nil {
		return serviceError(c, err)
	}

	content, tweets := toGenerated(res.Content)
	return c.Status(fiber.StatusCreated).JSON(transfer.RepurposeResponse{
		OriginalContentID: res.Original.ID,
		Content:           content,
		Tweets:            tweets,
		Saved:             len(res.Saved),
	})
}

func (h *ContentHandler) ListContent(c *fiber.Ctx) error {
	page, err := h.cs.ListOriginals(c.UserContext(), GetUserID(c), c.QueryInt("page", 1), c.QueryInt("page_size", service.DefaultPageSize))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

func (h *ContentHandler) GetContent(c *fiber.Ctx) error {
	oc, err := h.cs.GetOriginal(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(oc)
}

// ListVersions returns a platform's versions oldest first together with the
// one selected by index, 0 being the newest.
func (h *ContentHandler) ListVersions(c *fiber.Ctx) error {
	p, err := platform.Parse(c.Params("platform"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	oc, err := h.cs.GetOriginal(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}

	versions := service.PlatformVersions(oc.RepurposedContent, p)
	resp := fiber.Map{
		"platform": p,
		"versions": versions,
		"selected": nil,
	}
	if v, ok := service.SelectVersion(oc.RepurposedContent, p, c.QueryInt("index", 0)); ok {
		resp["selected"] = v
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *ContentHandler) ListRepurposed(c *fiber.Ctx) error {
	items, err := h.cs.ListRepurposed(c.UserContext(), GetUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(items)
}
