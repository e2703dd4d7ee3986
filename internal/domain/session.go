package domain

import "time"

// QAPair es un par pregunta/respuesta congelado al cerrar una entrevista.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ScoredSession guarda el resultado puntuado de una entrevista completada.
// Solo lo lee el agregador de analytics para tendencias de score.
type ScoredSession struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	InterviewID string    `json:"interview_id"`
	QAPairs     []QAPair  `json:"qa_pairs"`
	Scores      []int     `json:"scores"`
	Duration    int       `json:"duration"`
	Result      string    `json:"result,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AverageScore promedia los scores de la sesion; 0 si no hay ninguno.
func (s ScoredSession) AverageScore() float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	sum := 0
	for _, sc := range s.Scores {
		sum += sc
	}
	return float64(sum) / float64(len(s.Scores))
}
