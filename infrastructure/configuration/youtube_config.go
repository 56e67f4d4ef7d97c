package configuration

// YouTubeConfig carries the resolved YouTube Data API credentials.
type YouTubeConfig struct {
	APIKey       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GetYouTubeConfig returns YouTube configuration from the JSON config with
// environment variable fallback.
func GetYouTubeConfig() *YouTubeConfig {
	return &YouTubeConfig{
		APIKey:       getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY"),
		ClientID:     getConfigValue(C.YouTube.ClientID, "YOUTUBE_CLIENT_ID"),
		ClientSecret: getConfigValue(C.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET"),
		RedirectURL:  getConfigValue(C.YouTube.RedirectURI, "YOUTUBE_REDIRECT_URL"),
	}
}

// GetGeminiConfig returns the inference-service configuration, defaulting to
// the public generativelanguage endpoint and the flash model.
func GetGeminiConfig() Gemini {
	g := Gemini{
		APIKey:  getConfigValue(C.Gemini.APIKey, "GEMINI_API_KEY"),
		Model:   getConfigValue(C.Gemini.Model, "GEMINI_MODEL"),
		BaseURL: getConfigValue(C.Gemini.BaseURL, "GEMINI_BASE_URL"),
	}
	if g.Model == "" {
		g.Model = "gemini-2.5-flash"
	}
	if g.BaseURL == "" {
		g.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	return g
}

func getConfigValue(configValue, envKey string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, "")
}
