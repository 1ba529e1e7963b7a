package transfer

type ScheduleRequest struct {
	Platform            string `json:"platform" validate:"required,oneof=twitter instagram linkedin"`
	Content             string `json:"content" validate:"required"`
	Date                string `json:"date" validate:"required,datetime=2006-01-02"`
	Time                string `json:"time" validate:"required,datetime=15:04"`
	OriginalContentID   string `json:"original_content_id" validate:"omitempty,uuid"`
	RepurposedContentID string `json:"repurposed_content_id" validate:"omitempty,uuid"`
}

type RescheduleRequest struct {
	Content string `json:"content"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Time    string `json:"time" validate:"required,datetime=15:04"`
}
