package model

type SignupRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Tier  string `json:"tier"`
}

type GenerateTextRequestBody struct {
	Prompt   string `json:"prompt"`
	Measures int    `json:"measures"`
}

type TabResponse struct {
	Tab       string     `json:"tab"`
	MusicInfo *MusicInfo `json:"music_info,omitempty"`
}

type UsageResponse struct {
	Used  int    `json:"used"`
	Limit int    `json:"limit"`
	Month string `json:"month"`
}

type ExportRequestBody struct {
	Tab       string     `json:"tab"`
	MusicInfo *MusicInfo `json:"music_info,omitempty"`
}

type PricingTier struct {
	Name         string   `json:"name"`
	Price        string   `json:"price"`
	MonthlyLimit int      `json:"monthly_limit"`
	Features     []string `json:"features"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
