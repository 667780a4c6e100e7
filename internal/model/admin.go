package model

// AdminLoginResponse is returned by the admin login endpoint.
type AdminLoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Message  string `json:"message,omitempty"`
}

// IdeaPage is one page of the admin idea listing.
type IdeaPage struct {
	Content       []Idea `json:"content"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	Number        int    `json:"number"`
	Size          int    `json:"size"`
}

// AdminFilterOptions are the database-driven option lists used by the
// admin idea listing.
type AdminFilterOptions struct {
	Categories        []string `json:"categories"`
	Sectors           []string `json:"sectors"`
	DifficultyLevels  []string `json:"difficultyLevels"`
	Locations         []string `json:"locations"`
	TargetAudiences   []string `json:"targetAudiences,omitempty"`
	SpecialAdvantages []string `json:"specialAdvantages,omitempty"`
}

// PublicFilterOptions are the option lists served by the public catalog API.
type PublicFilterOptions struct {
	Categories       []string `json:"categories"`
	Sectors          []string `json:"sectors"`
	DifficultyLevels []string `json:"difficultyLevels"`
	Locations        []string `json:"locations"`
}

// DashboardStats holds the admin dashboard counters. The server's key set
// varies by version, so values are kept as reported.
type DashboardStats map[string]any

// UploadStatus is the processing state of a bulk upload.
type UploadStatus string

const (
	UploadCompleted UploadStatus = "COMPLETED"
	UploadFailed    UploadStatus = "FAILED"
	UploadDeleted   UploadStatus = "DELETED"
)

// UploadHistory records one bulk upload of ideas.
type UploadHistory struct {
	ID              int64        `json:"id"`
	Filename        string       `json:"filename"`
	BatchID         string       `json:"batchId"`
	UploadTimestamp string       `json:"uploadTimestamp"`
	IdeasCount      int          `json:"ideasCount"`
	FileSize        int64        `json:"fileSize,omitempty"`
	ContentType     string       `json:"contentType,omitempty"`
	UploadedBy      string       `json:"uploadedBy,omitempty"`
	Status          UploadStatus `json:"status"`
}

// UploadHistoryStats summarizes all uploads.
type UploadHistoryStats struct {
	TotalUploads       int64 `json:"totalUploads"`
	TotalIdeasUploaded int64 `json:"totalIdeasUploaded"`
}

// UploadResult is returned after a bulk upload is processed.
type UploadResult struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	BatchID     string   `json:"batchId,omitempty"`
	IdeasCount  int      `json:"ideasCount,omitempty"`
	Errors      []string `json:"errors,omitempty"`
	ArchivedKey string   `json:"archivedKey,omitempty"`
}

// DeleteUploadResult is returned after an upload batch is deleted.
type DeleteUploadResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	DeletedIdeasCount int    `json:"deletedIdeasCount,omitempty"`
	Filename          string `json:"filename,omitempty"`
}
