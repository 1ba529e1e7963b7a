package transfer

type RepurposeRequest struct {
	InputType   string   `form:"input_type" json:"input_type" validate:"omitempty,oneof=image video audio document article text"`
	URL         string   `form:"url" json:"url" validate:"omitempty,url"`
	Text        string   `form:"text" json:"text"`
	Tone        string   `form:"tone" json:"tone" validate:"required,max=64,excludesall=[]"`
	OutputTypes []string `form:"output_types" json:"output_types" validate:"required,min=1,dive,oneof=twitter instagram linkedin"`
	UseDummy    bool     `form:"use_dummy" json:"use_dummy"`
}

type RegenerateRequest struct {
	Tone        string   `json:"tone" validate:"required,max=64,excludesall=[]"`
	OutputTypes []string `json:"output_types" validate:"required,min=1,dive,oneof=twitter instagram linkedin"`
	UseDummy    bool     `json:"use_dummy"`
}

type GeneratedContent struct {
	Twitter   *string `json:"twitter,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	LinkedIn  *string `json:"linkedin,omitempty"`
}

type RepurposeResponse struct {
	OriginalContentID string           `json:"original_content_id"`
	Content           GeneratedContent `json:"content"`
	Tweets            []string         `json:"tweets,omitempty"`
	Saved             int              `json:"saved"`
}

type CharacterCheckRequest struct {
	Content string `json:"content"`
}

type CharacterCheckResponse struct {
	Platform  string `json:"platform"`
	Count     int    `json:"count"`
	Limit     int    `json:"limit"`
	OverLimit bool   `json:"over_limit"`
}

type PlatformInfo struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	CharLimit int    `json:"char_limit"`
}

type YouTubeAnalyzeRequest struct {
	URL string `json:"url" validate:"required,url"`
}
