package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/katakuxiko/trivia/internal/model"
	"github.com/katakuxiko/trivia/internal/ocr"
	"github.com/katakuxiko/trivia/internal/pdf"
	"github.com/katakuxiko/trivia/internal/service"
)

// HistoryReader — чтение истории ответов.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]model.Answer, error)
}

// Handler хранит зависимости для обработчиков
type Handler struct {
	solver  *service.Solver
	history HistoryReader
}

// NewHandler конструктор, history может быть nil
func NewHandler(solver *service.Solver, history HistoryReader) *Handler {
	return &Handler{solver: solver, history: history}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// ListProcessors — список настроенных процессоров
func (h *Handler) ListProcessors(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"processors": h.solver.Processors()})
}

// Solve — ответ на вопрос из JSON тела
func (h *Handler) Solve(c *fiber.Ctx) error {
	var req model.SolveRequest
	if err := c.BodyParser(&req); err != nil || req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request, expected JSON: {\"question\":\"...\"}"})
	}

	results, err := h.solver.SolveWith(c.UserContext(), req.Processor, req.Question)
	if err != nil {
		return solveError(c, err)
	}
	return c.JSON(toResponse(req.Question, results))
}

// SolveImage — OCR загруженной картинки (form field: image) и ответ на вопрос
func (h *Handler) SolveImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image is required (form field: image)"})
	}
	data, err := readUpload(file)
	if err != nil {
		log.Error().Err(err).Msg("read upload")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read upload"})
	}

	question, results, err := h.solver.SolveImage(c.UserContext(), c.FormValue("processor"), data)
	if err != nil {
		return solveError(c, err)
	}
	return c.JSON(toResponse(question, results))
}

// SolvePDF — ответ на каждую страницу загруженного PDF (form field: file)
func (h *Handler) SolvePDF(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required (form field: file)"})
	}
	data, err := readUpload(file)
	if err != nil {
		log.Error().Err(err).Msg("read upload")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read upload"})
	}

	pages, err := pdf.ExtractPages(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Warn().Err(err).Str("file", file.Filename).Msg("extract pdf")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to extract text from pdf"})
	}
	if len(pages) == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "no text extracted from PDF"})
	}

	name := c.FormValue("processor")
	out := make([]model.SolveResponse, 0, len(pages))
	for _, question := range pages {
		results, err := h.solver.SolveWith(c.UserContext(), name, question)
		if err != nil {
			return solveError(c, err)
		}
		out = append(out, toResponse(question, results))
	}
	return c.JSON(fiber.Map{"doc": file.Filename, "questions": out})
}

// History — последние ответы (?limit=N)
func (h *Handler) History(c *fiber.Ctx) error {
	if h.history == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "history is disabled"})
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be an integer"})
	}

	answers, err := h.history.Recent(c.UserContext(), limit)
	if err != nil {
		log.Error().Err(err).Msg("history query")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load history"})
	}
	if answers == nil {
		answers = []model.Answer{}
	}
	return c.JSON(fiber.Map{"answers": answers})
}

func solveError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyQuestion):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUnknownProcessor):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ocr.ErrNoText):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNoOCR):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	log.Error().Err(err).Msg("solve")
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
}

func toResponse(question string, results []service.Result) model.SolveResponse {
	views := make([]model.ResultView, 0, len(results))
	for _, r := range results {
		v := model.ResultView{Processor: r.Processor, OK: r.OK(), Answer: r.Answer}
		if r.Err != nil {
			v.Error = r.Err.Error()
		}
		views = append(views, v)
	}
	return model.SolveResponse{Question: question, Results: views}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
