package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownProcessor = errors.New("unknown processor")
	ErrEmptyQuestion    = errors.New("empty question")
	ErrNoOCR            = errors.New("ocr is not configured")
)

// History сохраняет ответы.
type History interface {
	Record(ctx context.Context, question string, r Result) error
}

// TextDetector извлекает текст вопроса из картинки.
type TextDetector interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// Solver прогоняет вопрос через процессоры по очереди.
type Solver struct {
	processors []Processor
	ocr        TextDetector
	history    History
}

// NewSolver конструктор, ocr и history могут быть nil
func NewSolver(processors []Processor, ocr TextDetector, history History) *Solver {
	return &Solver{processors: processors, ocr: ocr, history: history}
}

// Processors — метки процессоров в порядке вызова
func (s *Solver) Processors() []string {
	names := make([]string, 0, len(s.processors))
	for _, p := range s.processors {
		names = append(names, p.Name())
	}
	return names
}

// Solve опрашивает все процессоры. Сбои моделей остаются в результатах,
// ошибкой возвращается только неверный ввод.
func (s *Solver) Solve(ctx context.Context, question string) ([]Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	results := make([]Result, 0, len(s.processors))
	for _, p := range s.processors {
		results = append(results, s.run(ctx, p, question))
	}
	return results, nil
}

// SolveWith опрашивает процессор name, пустое name — все процессоры.
func (s *Solver) SolveWith(ctx context.Context, name, question string) ([]Result, error) {
	if name == "" {
		return s.Solve(ctx, question)
	}
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	for _, p := range s.processors {
		if strings.EqualFold(p.Name(), name) {
			return []Result{s.run(ctx, p, question)}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProcessor, name)
}

// DetectText — OCR картинки
func (s *Solver) DetectText(ctx context.Context, image []byte) (string, error) {
	if s.ocr == nil {
		return "", ErrNoOCR
	}
	text, err := s.ocr.DetectText(ctx, image)
	if err != nil {
		return "", fmt.Errorf("detect text: %w", err)
	}
	return text, nil
}

// SolveImage извлекает вопрос из картинки и решает его
func (s *Solver) SolveImage(ctx context.Context, name string, image []byte) (string, []Result, error) {
	question, err := s.DetectText(ctx, image)
	if err != nil {
		return "", nil, err
	}
	results, err := s.SolveWith(ctx, name, question)
	if err != nil {
		return question, nil, err
	}
	return question, results, nil
}

func (s *Solver) run(ctx context.Context, p Processor, question string) Result {
	res := p.Process(ctx, question)
	if s.history != nil {
		if err := s.history.Record(ctx, question, res); err != nil {
			log.Warn().Err(err).Str("processor", p.Name()).Msg("record answer")
		}
	}
	return res
}
