package language

// Language is an entry in the closed catalog. Code is what reaches prompts
// and form values; Name is for display.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Seed provides the supported languages, in the order offered to users.
func Seed() []Language {
	return []Language{
		{Code: "en", Name: "English"},
		{Code: "es", Name: "Spanish"},
		{Code: "fr", Name: "French"},
		{Code: "de", Name: "German"},
		{Code: "ja", Name: "Japanese"},
		{Code: "ko", Name: "Korean"},
		{Code: "zh-CN", Name: "Chinese (Simplified)"},
		{Code: "hi", Name: "Hindi"},
		{Code: "ar", Name: "Arabic"},
		{Code: "pt", Name: "Portuguese"},
	}
}
