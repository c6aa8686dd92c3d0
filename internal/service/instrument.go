package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Ключи атрибутов OpenInference, которые понимает Phoenix.
const (
	attrSpanKind  = "openinference.span.kind"
	attrInput     = "input.value"
	attrOutput    = "output.value"
	attrProcessor = "llm.processor"
)

type instrumentedProcessor struct {
	next   Processor
	tracer trace.Tracer
}

// Instrument оборачивает p: каждый вызов пишется как LLM span.
func Instrument(p Processor, tracer trace.Tracer) Processor {
	return &instrumentedProcessor{next: p, tracer: tracer}
}

func (i *instrumentedProcessor) Name() string {
	return i.next.Name()
}

func (i *instrumentedProcessor) Process(ctx context.Context, text string) Result {
	ctx, span := i.tracer.Start(ctx, i.next.Name(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(attrSpanKind, "LLM"),
			attribute.String(attrProcessor, i.next.Name()),
			attribute.String(attrInput, text),
		),
	)
	defer span.End()

	res := i.next.Process(ctx, text)
	if !res.OK() {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		return res
	}
	span.SetAttributes(attribute.String(attrOutput, res.Answer))
	span.SetStatus(codes.Ok, "")
	return res
}
