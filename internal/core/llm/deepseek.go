package llm

const deepSeekBaseURL = "https://api.deepseek.com"

type DeepSeekProvider struct {
	*chatProvider
}

// DeepSeek uses OpenAI-compatible API with custom base URL
func NewDeepSeekProvider(apiKey, baseURL string) *DeepSeekProvider {
	if baseURL == "" {
		baseURL = deepSeekBaseURL
	}
	return &DeepSeekProvider{newChatProvider("DeepSeek", apiKey, baseURL)}
}
