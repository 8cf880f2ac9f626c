package dto

// AdminListSelectionsRequest lists selections across practices for the
// marketing team, optionally filtered by status
type AdminListSelectionsRequest struct {
	AdminID  uint    `json:"-"`
	Status   *string `json:"status,omitempty" validate:"omitempty"`
	Page     int     `json:"page" validate:"omitempty,min=1"`
	PageSize int     `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// AdminListSelectionsResponse represents the cross-practice selection list
type AdminListSelectionsResponse struct {
	Message    string         `json:"message"`
	Selections []SelectionDTO `json:"selections"`
	Total      int64          `json:"total"`
}

// ExportPlanRequest exports one practice's plan as a spreadsheet
type ExportPlanRequest struct {
	AdminID      uint    `json:"-"`
	PracticeUUID *string `json:"practice_uuid,omitempty" validate:"omitempty,uuid"`
}

// ExportPlanResponse carries the generated spreadsheet
type ExportPlanResponse struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"-"`
}
