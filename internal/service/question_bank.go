package service

import "prepinter/internal/domain"

// BankQuestion es una entrada del banco estatico de preguntas.
type BankQuestion struct {
	QuestionText string
	Explanation  string
}

// fallbackQuestions es el banco usado cuando el LLM no responde o su salida
// no parsea. Categorias desconocidas caen en technical.
var fallbackQuestions = map[string][]BankQuestion{
	domain.CategoryTechnical: {
		{
			QuestionText: "What is a RESTful API and what are its main principles?",
			Explanation:  "A good answer should cover: 1) Definition of REST (Representational State Transfer), 2) Key principles: Statelessness, Client-Server architecture, Cacheability, Uniform Interface, 3) HTTP methods (GET, POST, PUT, DELETE), 4) Status codes, 5) Examples of RESTful endpoints.",
		},
		{
			QuestionText: "Explain the concept of asynchronous programming in JavaScript using Promises.",
			Explanation:  "Cover: 1) What Promises are and why they're needed, 2) Promise states (pending, fulfilled, rejected), 3) Promise chaining (.then(), .catch()), 4) Async/await syntax, 5) Real-world examples like API calls or file operations.",
		},
		{
			QuestionText: "Compare and contrast SQL vs NoSQL databases. When would you choose one over the other?",
			Explanation:  "Discuss: 1) Data structure (tables vs documents/key-value), 2) Schema flexibility, 3) Scaling approaches (vertical vs horizontal), 4) ACID compliance, 5) Use cases for each with examples.",
		},
		{
			QuestionText: "What is Docker and how does it simplify application deployment?",
			Explanation:  "Include: 1) Container concept vs VMs, 2) Docker architecture (daemon, images, containers), 3) Key commands (build, run, push), 4) Dockerfile structure, 5) Benefits in modern development.",
		},
		{
			QuestionText: "Explain JWT (JSON Web Tokens) authentication flow in a web application.",
			Explanation:  "Cover: 1) JWT structure (header, payload, signature), 2) Authentication process flow, 3) Token storage and security, 4) Advantages over session-based auth, 5) Implementation best practices.",
		},
	},
	domain.CategoryBehavioral: {
		{
			QuestionText: "Tell me about a technically challenging project you've worked on. What made it difficult and how did you overcome those challenges?",
			Explanation:  "Structure using STAR method: 1) Situation: Project context and technical complexity, 2) Task: Your specific role and objectives, 3) Action: Technical decisions made and problem-solving approach, 4) Result: Impact on project/team, lessons learned, and metrics of success.",
		},
		{
			QuestionText: "Describe a time when you had to resolve a technical disagreement with a team member. How did you handle it?",
			Explanation:  "Address: 1) The technical issue in dispute, 2) Your perspective and their perspective, 3) How you researched or validated different approaches, 4) The resolution process and compromise if any, 5) The outcome and lessons learned about technical collaboration.",
		},
		{
			QuestionText: "Give an example of when you had to quickly learn and implement a new technology or framework. How did you approach it?",
			Explanation:  "Include: 1) The technology and why it was needed, 2) Your learning strategy and resources used, 3) How you practiced or experimented, 4) Challenges faced during implementation, 5) The end result and impact on the project.",
		},
		{
			QuestionText: "How do you manage multiple competing deadlines in your development work? Give a specific example.",
			Explanation:  "Cover: 1) Your prioritization methodology, 2) Tools or systems used to track tasks, 3) How you communicate status and delays, 4) Handling dependencies and blockers, 5) Example of successfully managing parallel tasks.",
		},
		{
			QuestionText: "Tell me about a time you took technical leadership on a project or feature. What was your approach and what was the outcome?",
			Explanation:  "Discuss: 1) The project scope and team composition, 2) How you established technical direction, 3) How you motivated and supported team members, 4) Technical decisions and their justification, 5) Project outcome and team feedback.",
		},
	},
}

// FallbackQuestions devuelve hasta count preguntas del banco estatico.
func FallbackQuestions(category string, count int) []BankQuestion {
	bank, ok := fallbackQuestions[domain.NormalizeCategory(category)]
	if !ok {
		bank = fallbackQuestions[domain.CategoryTechnical]
	}
	if count <= 0 || count > len(bank) {
		count = len(bank)
	}
	out := make([]BankQuestion, count)
	copy(out, bank[:count])
	return out
}
