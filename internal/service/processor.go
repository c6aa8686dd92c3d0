package service

import (
	"context"
	"errors"
)

// ErrEmptyCompletion — модель ответила без текста.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// Processor решает один вопрос с вариантами ответа за вызов.
type Processor interface {
	// Name — метка, заданная при создании.
	Name() string
	// Process блокируется до ответа модели. Ошибка удалённого вызова
	// не пробрасывается, а возвращается внутри Result.
	Process(ctx context.Context, text string) Result
}

// Result — либо ответ, либо ошибка, из-за которой его нет.
type Result struct {
	Processor string
	Answer    string
	Err       error
}

// OK — есть ли в результате ответ.
func (r Result) OK() bool {
	return r.Err == nil
}

// Answered — успешный Result.
func Answered(processor, answer string) Result {
	return Result{Processor: processor, Answer: answer}
}

// Failed — неуспешный Result.
func Failed(processor string, err error) Result {
	return Result{Processor: processor, Err: err}
}
