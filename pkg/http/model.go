package http

// APIResponse is the standard response envelope: {success, data, meta} on
// success, {success, error, details} on failure.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ValidationError represents a validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"ticker"`
	Message string                 `json:"message,omitempty" example:"ticker is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// ListMeta is the meta block for list responses.
type ListMeta struct {
	Total         int    `json:"total"`
	HasTestData   bool   `json:"hasTestData,omitempty"`
	TestDataCount int    `json:"testDataCount,omitempty"`
	LastUpdate    string `json:"lastUpdate,omitempty"`
	StrategyName  string `json:"strategy_name,omitempty"`
}
