package service

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// FeedbackResult es la salida estructurada esperada del LLM evaluador.
type FeedbackResult struct {
	Feedback string `json:"feedback"`
	Score    int    `json:"score"`
}

const (
	// defaultParseFeedback se usa cuando la respuesta del LLM no trae nada extraible.
	defaultParseFeedback = "Your answer was evaluated. Please continue with the interview."
	// defaultErrorFeedback se usa cuando la llamada al LLM falla por completo.
	defaultErrorFeedback = "Thank you for your answer. Let's continue with the interview."
	defaultScore         = 5
)

var (
	reFeedbackField = regexp.MustCompile(`(?i)feedback["']?\s*:\s*["']([^"']+)["']`)
	reScoreField    = regexp.MustCompile(`(?i)score["']?\s*:\s*([0-9]+)`)
)

// ParseFeedbackResponse extrae feedback y score de la respuesta del LLM.
// Primero intenta JSON (limpiando fences y texto alrededor); si falla, cae a
// extraccion por regex; si tampoco, devuelve el default neutro. Nunca falla.
func ParseFeedbackResponse(raw string) FeedbackResult {
	cleaned := cleanLLMResponse(raw)

	candidates := []string{}
	if obj := extractFirstJSONObject(cleaned); obj != "" {
		candidates = append(candidates, obj)
	}
	candidates = append(candidates, cleaned, raw)

	for _, candidate := range candidates {
		var tmp struct {
			Feedback string          `json:"feedback"`
			Score    json.RawMessage `json:"score"`
		}
		if err := json.Unmarshal([]byte(candidate), &tmp); err != nil {
			continue
		}
		if strings.TrimSpace(tmp.Feedback) == "" {
			continue
		}
		return FeedbackResult{
			Feedback: strings.TrimSpace(tmp.Feedback),
			Score:    clampScore(parseRawScore(tmp.Score)),
		}
	}

	// Fallback por regex sobre texto libre.
	result := FeedbackResult{Feedback: defaultParseFeedback, Score: defaultScore}
	if m := reFeedbackField.FindStringSubmatch(raw); len(m) == 2 {
		result.Feedback = strings.TrimSpace(m[1])
	}
	if m := reScoreField.FindStringSubmatch(raw); len(m) == 2 {
		if n, err := strconv.Atoi(m[1]); err == nil {
			result.Score = clampScore(n)
		}
	}
	return result
}

// DefaultFeedback es el resultado neutro cuando la invocacion al LLM falla.
func DefaultFeedback() FeedbackResult {
	return FeedbackResult{Feedback: defaultErrorFeedback, Score: defaultScore}
}

// parseRawScore tolera score como numero o como string numerico.
func parseRawScore(raw json.RawMessage) int {
	if len(raw) == 0 {
		return defaultScore
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	return defaultScore
}

func clampScore(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// cleanLLMResponse quita fences ```json ... ``` y BOM, dejando el contenido usable.
func cleanLLMResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	s = reJSONFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
