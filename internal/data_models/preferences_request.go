package dto

type UpdatePreferencesRequest struct {
	Theme       *string `json:"theme"`
	FontSize    *int    `json:"font_size"`
	ColorScheme *string `json:"color_scheme"`
}
