package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"prepinter/internal/config"
	"prepinter/internal/llm"
	"prepinter/internal/service"
)

// Scenario es una salida simulada del LLM con el resultado esperado del parser.
type Scenario struct {
	Name         string
	Raw          string
	WantScore    int
	WantFallback bool
}

func main() {
	_ = godotenv.Load()

	scenarios := []Scenario{
		{
			Name:      "JSON limpio",
			Raw:       `{"feedback": "Solid explanation of indexing tradeoffs.", "score": 8}`,
			WantScore: 8,
		},
		{
			Name:      "JSON con fences",
			Raw:       "```json\n{\"feedback\": \"Good use of concrete examples.\", \"score\": 7}\n```",
			WantScore: 7,
		},
		{
			Name:      "JSON rodeado de prosa",
			Raw:       "Here is my evaluation: {\"feedback\": \"Needs more depth.\", \"score\": 4} Hope it helps!",
			WantScore: 4,
		},
		{
			Name:      "Sin JSON, rescate por regex",
			Raw:       `feedback: "Decent answer but missing edge cases", score: 6`,
			WantScore: 6,
		},
		{
			Name:         "Basura total",
			Raw:          "I cannot evaluate this right now.",
			WantScore:    5,
			WantFallback: true,
		},
	}

	passed := 0
	for _, sc := range scenarios {
		result := service.ParseFeedbackResponse(sc.Raw)
		ok := result.Score == sc.WantScore && strings.TrimSpace(result.Feedback) != ""
		if ok {
			passed++
			fmt.Printf("✅ PASS [%s] score=%d\n", sc.Name, result.Score)
		} else {
			fmt.Printf("❌ FAIL [%s] got score=%d feedback=%q\n", sc.Name, result.Score, result.Feedback)
		}
	}
	fmt.Printf("\nParser: %d/%d escenarios\n\n", passed, len(scenarios))

	// Con LLM_API_KEY configurada, ademas valida una evaluacion real de punta
	// a punta contra la API.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("load config: %v (skipping live check)", err)
		return
	}
	if cfg.LLMAPIKey == "" {
		fmt.Println("LLM_API_KEY vacia: se omite el chequeo en vivo")
		return
	}

	client := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, log.Default())
	prompt := `You are an expert interviewer evaluating a candidate's answer to a technical interview question.

Question: What is the difference between a process and a thread?

Candidate's Answer: A process has its own memory space while threads share memory within a process. Threads are cheaper to create and switch between.

Provide concise constructive feedback and a score from 1 to 10. Respond with a JSON object with properties "feedback" (string) and "score" (number).`

	raw, err := client.Generate(context.Background(), "You are an expert technical interviewer providing feedback on candidate answers.", prompt)
	if err != nil {
		fmt.Printf("❌ FAIL [live] llm error: %v\n", err)
		os.Exit(1)
	}

	result := service.ParseFeedbackResponse(raw)
	if result.Score < 1 || result.Score > 10 || strings.TrimSpace(result.Feedback) == "" {
		fmt.Printf("❌ FAIL [live] unusable result: score=%d feedback=%q\nraw: %s\n", result.Score, result.Feedback, raw)
		os.Exit(1)
	}
	fmt.Printf("✅ PASS [live] score=%d feedback=%q\n", result.Score, result.Feedback)
}
