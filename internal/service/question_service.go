package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"prepinter/internal/domain"
	"prepinter/internal/llm"
	"prepinter/internal/metrics"
)

const questionSystemPrompt = "You are an expert technical interviewer. Generate challenging and relevant interview questions."

// QuestionService genera sets de preguntas con el LLM, degradando al banco
// estatico ante cualquier fallo. Nunca devuelve error al caller.
type QuestionService struct {
	llmClient llm.LLMClient
	logger    *zap.Logger
}

func NewQuestionService(llmClient llm.LLMClient, logger *zap.Logger) *QuestionService {
	return &QuestionService{
		llmClient: llmClient,
		logger:    logger,
	}
}

type generatedQuestion struct {
	QuestionText string `json:"questionText"`
	Explanation  string `json:"explanation"`
}

// Generate devuelve count preguntas para la categoria/dificultad dadas.
// Si el LLM no esta configurado, falla o su salida no parsea, usa el banco.
func (s *QuestionService) Generate(ctx context.Context, category, difficulty string, count int) []domain.Question {
	category = domain.NormalizeCategory(category)

	if s.llmClient == nil {
		return bankToQuestions(category, count)
	}

	prompt := buildQuestionPrompt(category, difficulty, count)
	raw, err := s.llmClient.Generate(ctx, questionSystemPrompt, prompt)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("question generation failed, using fallback bank", zap.Error(err), zap.String("category", category))
		}
		metrics.RecordLLMFallback("questions")
		return bankToQuestions(category, count)
	}

	parsed, ok := parseGeneratedQuestions(raw)
	if !ok || len(parsed) == 0 {
		if s.logger != nil {
			s.logger.Warn("question generation output unparseable, using fallback bank", zap.String("category", category))
		}
		metrics.RecordLLMFallback("questions")
		return bankToQuestions(category, count)
	}

	if len(parsed) > count {
		parsed = parsed[:count]
	}
	questions := make([]domain.Question, 0, len(parsed))
	for i, q := range parsed {
		questions = append(questions, domain.Question{
			QuestionText: strings.TrimSpace(q.QuestionText),
			Explanation:  strings.TrimSpace(q.Explanation),
			AIGenerated:  true,
			Position:     i,
		})
	}
	return questions
}

func buildQuestionPrompt(category, difficulty string, count int) string {
	return fmt.Sprintf(`Generate %d interview questions for a %s level %s interview.
Focus on these aspects based on the difficulty level:
- For 'beginner': Fundamentals and basic concepts
- For 'intermediate': Implementation and problem-solving
- For 'advanced': System design and complex scenarios

For %s interviews, include:
- Real-world scenarios and practical applications
- Clear and specific technical concepts
- Industry best practices

Format each question as a JSON object with these properties:
- questionText: The actual interview question
- explanation: Detailed guidelines for what a good answer should include, key points to cover, and any relevant examples or patterns to mention.

Return only the JSON array of questions.`, count, difficulty, category, category)
}

var reJSONFence = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*|\\s*```\\s*$")

// parseGeneratedQuestions intenta extraer el array JSON aunque venga con
// fences o texto alrededor.
func parseGeneratedQuestions(raw string) ([]generatedQuestion, bool) {
	cleaned := strings.TrimSpace(reJSONFence.ReplaceAllString(raw, ""))
	cleaned = strings.TrimPrefix(cleaned, "\uFEFF")

	candidates := []string{cleaned}
	if arr := extractFirstJSONArray(cleaned); arr != "" && arr != cleaned {
		candidates = append([]string{arr}, candidates...)
	}

	for _, candidate := range candidates {
		var parsed []generatedQuestion
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			continue
		}
		valid := parsed[:0]
		for _, q := range parsed {
			if strings.TrimSpace(q.QuestionText) != "" {
				valid = append(valid, q)
			}
		}
		if len(valid) > 0 {
			return valid, true
		}
	}
	return nil, false
}

func bankToQuestions(category string, count int) []domain.Question {
	bank := FallbackQuestions(category, count)
	questions := make([]domain.Question, 0, len(bank))
	for i, q := range bank {
		questions = append(questions, domain.Question{
			QuestionText: q.QuestionText,
			Explanation:  q.Explanation,
			AIGenerated:  false,
			Position:     i,
		})
	}
	return questions
}
