package dto

type OptionRequest struct {
	Name string `json:"name" validate:"notblank,max=255"`
}

type OptionResponse struct {
	Name string `json:"name"`
}

type FollowUpStatusResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type HealthResponse struct {
	Database bool `json:"database"`
	Dify     bool `json:"dify"`
}

// OptionTypeParam - :type из пути /api/options/:type
type OptionTypeParam struct {
	Type string `uri:"type" json:"type" validate:"option-type"`
}
