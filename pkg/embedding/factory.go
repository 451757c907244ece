package embedding

import "fmt"

func NewProvider(providerType, model, geminiApiKey, ollamaBaseURL string) (Provider, error) {
	switch providerType {
	case "ollama":
		return NewOllamaProvider(ollamaBaseURL, model), nil
	case "gemini":
		if geminiApiKey == "" {
			return nil, fmt.Errorf("gemini embedding provider requires an api key")
		}
		return NewGeminiProvider(geminiApiKey, model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
