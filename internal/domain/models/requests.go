package models

// PageRequest selects a 0-based page of the stock list.
type PageRequest struct {
	Page int `json:"page" binding:"min=0"`
}

// PageSizeRequest changes the page size; the page index resets to 0.
type PageSizeRequest struct {
	PageSize int `json:"page_size" binding:"required,min=1"`
}

// RecordRefRequest points at one currently loaded record by id.
type RecordRefRequest struct {
	ID string `json:"id" binding:"required"`
}

// FieldRequest carries raw input for one dialog form field.
type FieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}
