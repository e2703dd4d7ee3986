package service

import (
	"strings"

	"prepinter/internal/domain"
)

const coldStartRecommendation = "Focus on structuring answers (STAR), clarifying trade-offs, and practicing mock sessions."

// GenerateRecommendations aplica una heuristica determinista sobre los pares
// pregunta/respuesta: largo promedio de las respuestas y presencia de palabras
// clave (STAR, terminos tecnicos, soft skills). Sin llamadas al LLM.
func GenerateRecommendations(qaPairs []domain.QAPair) string {
	var recommendations []string

	totalLength := 0
	var allAnswers strings.Builder
	hasTechnicalQuestion, hasTeamQuestion := false, false
	for _, pair := range qaPairs {
		totalLength += len(pair.Answer)
		allAnswers.WriteString(strings.ToLower(pair.Answer))
		allAnswers.WriteString(" ")
		lq := strings.ToLower(pair.Question)
		if strings.Contains(lq, "technical") {
			hasTechnicalQuestion = true
		}
		if strings.Contains(lq, "team") {
			hasTeamQuestion = true
		}
	}
	avgAnswerLength := totalLength / len(qaPairs)
	answers := allAnswers.String()

	hasStar := strings.Contains(answers, "situation") && strings.Contains(answers, "task") &&
		strings.Contains(answers, "action") && strings.Contains(answers, "result")
	hasTechnicalTerms := strings.Contains(answers, "api") || strings.Contains(answers, "database") ||
		strings.Contains(answers, "algorithm")
	hasSoftSkills := strings.Contains(answers, "team") || strings.Contains(answers, "communicate") ||
		strings.Contains(answers, "collaborate")

	if !hasStar {
		recommendations = append(recommendations, "📋 Use the STAR method (Situation, Task, Action, Result) to structure your behavioral answers more effectively.")
	}
	if avgAnswerLength < 100 {
		recommendations = append(recommendations, "💬 Provide more detailed answers. Expand on your experiences with specific examples and outcomes.")
	} else if avgAnswerLength > 500 {
		recommendations = append(recommendations, "🎯 Keep answers concise and focused. Aim for 2-3 minutes per response.")
	}
	if !hasTechnicalTerms && hasTechnicalQuestion {
		recommendations = append(recommendations, "🔧 Include more technical details and specific technologies in your technical answers.")
	}
	if !hasSoftSkills && hasTeamQuestion {
		recommendations = append(recommendations, "🤝 Emphasize collaboration and interpersonal skills in your responses.")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"🎯 Practice answering common interview questions out loud.",
			"📚 Research the company and role to tailor your answers.",
			"⏰ Work on timing - aim for 2-3 minute responses.",
			"🔄 Record yourself practicing to identify areas for improvement.",
			"💡 Prepare specific examples that demonstrate your skills and achievements.",
		)
	} else {
		recommendations = append(recommendations,
			"📚 Continue practicing with mock interviews to build confidence.",
			"⏰ Focus on timing your responses to 2-3 minutes each.",
		)
	}

	return strings.Join(recommendations, "\n\n")
}
