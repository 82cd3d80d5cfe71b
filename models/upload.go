package models

// UploadedFile describes a freshly uploaded PDF awaiting processing.
type UploadedFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"sizeBytes"`
	Pages     int    `json:"pages"`
	DateISO   string `json:"dateISO"`
	Status    string `json:"status"`
}

// UploadResponse is returned by POST /upload/new.
type UploadResponse struct {
	Message string       `json:"message"`
	File    UploadedFile `json:"file"`
}

// ProcessResponse is returned by POST /process after a corpus rebuild.
type ProcessResponse struct {
	Message     string   `json:"message"`
	OutputFiles []string `json:"output_files"`
}
