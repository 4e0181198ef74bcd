package llm

const groqBaseURL = "https://api.groq.com/openai/v1"

type GroqProvider struct {
	*chatProvider
}

// Groq uses OpenAI-compatible API with custom base URL
func NewGroqProvider(apiKey, baseURL string) *GroqProvider {
	if baseURL == "" {
		baseURL = groqBaseURL
	}
	return &GroqProvider{newChatProvider("Groq", apiKey, baseURL)}
}
