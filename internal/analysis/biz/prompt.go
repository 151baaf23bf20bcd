package biz

import (
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lk2023060901/gost-search/internal/analysis/types"
)

const (
	untitledDocument = "Не указано"
	contextHeader    = "Проанализируй документ, основываясь на следующем контексте:"
)

// SystemPrompt asks for the status alone on line one and the analysis after it
func SystemPrompt(vocab types.Vocabulary) string {
	quoted := make([]string, 0, len(vocab))
	for _, kw := range vocab.Keywords() {
		quoted = append(quoted, fmt.Sprintf("%q", kw))
	}

	return "Ты — эксперт по российским нормативным документам. Твоя задача — проанализировать текст документа, который тебе предоставили.\n" +
		"Твой ответ должен быть СТРОГО структурирован:\n" +
		"1.  На первой строке напиши ТОЛЬКО статус документа, основываясь на тексте со страницы. " +
		"Ищи слова " + strings.Join(quoted, ", ") + ". " +
		"Если статус в тексте не указан, напиши \"" + types.UndeterminedStatusLine + "\".\n" +
		"2.  После статуса, начиная с новой строки, напиши детальный анализ предоставленного текста."
}

// DocumentContext describes the page handed to the model
func DocumentContext(title, finalURL, text string) string {
	if strings.TrimSpace(title) == "" {
		title = untitledDocument
	}
	return fmt.Sprintf("Название документа: %s\n\nСодержимое страницы по URL %s:\n\n%s", title, finalURL, text)
}

// UserPrompt combines the document context with the caller's instruction
func UserPrompt(instruction, documentContext string) string {
	prompt := contextHeader + "\n\n" + documentContext
	if instruction = strings.TrimSpace(instruction); instruction != "" {
		prompt += "\n\nЗадание: " + instruction
	}
	return prompt
}

// BuildMessages returns the system and user messages of one analysis
func BuildMessages(vocab types.Vocabulary, instruction, title, finalURL, text string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(vocab)},
		{Role: openai.ChatMessageRoleUser, Content: UserPrompt(instruction, DocumentContext(title, finalURL, text))},
	}
}
