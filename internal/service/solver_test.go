package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedAnswer struct {
	question string
	result   Result
}

type memHistory struct {
	records []recordedAnswer
	err     error
}

func (m *memHistory) Record(_ context.Context, question string, r Result) error {
	m.records = append(m.records, recordedAnswer{question: question, result: r})
	return m.err
}

type stubOCR struct {
	text string
	err  error
}

func (s stubOCR) DetectText(context.Context, []byte) (string, error) {
	return s.text, s.err
}

func TestSolver_SolveAsksEveryProcessorInOrder(t *testing.T) {
	a := &stubProcessor{name: "a", answer: "A"}
	b := &stubProcessor{name: "b", err: errors.New("down")}
	h := &memHistory{}
	s := NewSolver([]Processor{a, b}, nil, h)

	results, err := s.Solve(context.Background(), "Q?")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Processor)
	assert.True(t, results[0].OK())
	assert.Equal(t, "b", results[1].Processor)
	assert.False(t, results[1].OK())

	require.Len(t, h.records, 2)
	assert.Equal(t, "Q?", h.records[0].question)
	assert.Equal(t, []string{"a", "b"}, s.Processors())
}

func TestSolver_HistoryErrorDoesNotFailSolve(t *testing.T) {
	a := &stubProcessor{name: "a", answer: "A"}
	s := NewSolver([]Processor{a}, nil, &memHistory{err: errors.New("db down")})

	results, err := s.Solve(context.Background(), "Q?")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].Answer)
}

func TestSolver_EmptyQuestion(t *testing.T) {
	a := &stubProcessor{name: "a", answer: "A"}
	s := NewSolver([]Processor{a}, nil, nil)

	_, err := s.Solve(context.Background(), "  \n ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	_, err = s.SolveWith(context.Background(), "a", "")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, a.calls)
}

func TestSolver_SolveWith(t *testing.T) {
	a := &stubProcessor{name: "GPT-4 Turbo", answer: "A"}
	b := &stubProcessor{name: "Gemini", answer: "B"}
	s := NewSolver([]Processor{a, b}, nil, nil)

	results, err := s.SolveWith(context.Background(), "gemini", "Q?")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "B", results[0].Answer)
	assert.Empty(t, a.calls)

	_, err = s.SolveWith(context.Background(), "claude", "Q?")
	assert.ErrorIs(t, err, ErrUnknownProcessor)

	results, err = s.SolveWith(context.Background(), "", "Q?")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSolver_SolveImage(t *testing.T) {
	a := &stubProcessor{name: "a", answer: "A"}
	s := NewSolver([]Processor{a}, stubOCR{text: "2+2?\nA) 4"}, nil)

	question, results, err := s.SolveImage(context.Background(), "", []byte("png"))

	require.NoError(t, err)
	assert.Equal(t, "2+2?\nA) 4", question)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"2+2?\nA) 4"}, a.calls)
}

func TestSolver_SolveImageErrors(t *testing.T) {
	a := &stubProcessor{name: "a", answer: "A"}

	_, _, err := NewSolver([]Processor{a}, nil, nil).SolveImage(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrNoOCR)

	ocrErr := errors.New("vision down")
	_, _, err = NewSolver([]Processor{a}, stubOCR{err: ocrErr}, nil).SolveImage(context.Background(), "", nil)
	assert.ErrorIs(t, err, ocrErr)
	assert.Empty(t, a.calls)
}
