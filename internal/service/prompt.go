package service

import "github.com/sashabaranov/go-openai"

// SystemInstruction отправляется перед каждым вопросом.
const SystemInstruction = "You are an expert at solving multiple choice questions. " +
	"Analyze the given question and options, then provide the most likely correct answer " +
	"with a brief explanation. Be concise and direct."

// ChatMessages — system сообщение и text как сообщение пользователя.
func ChatMessages(text string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: SystemInstruction},
		{Role: openai.ChatMessageRoleUser, Content: text},
	}
}
