package types

// CatalogueID is the opaque identity of one catalogue registry entry.
type CatalogueID string

// ActorID references the authenticated user a request runs as.
type ActorID string

// Filename is the original name of an uploaded catalogue document.
type Filename string

// ContentType is a MIME type.
type ContentType string

// FileSizeBytes is a file size in bytes.
type FileSizeBytes int64

// Path addresses a file inside a storage bucket.
type Path string

// Actor is the capability bearing reference the auth collaborator
// supplies. The service never validates credentials itself; an empty
// ID marks an anonymous request.
type Actor struct {
	ID ActorID
}

// CatalogueInfo is the API projection of a registry entry.
type CatalogueInfo struct {
	ID            CatalogueID   `json:"id"`
	FileName      string        `json:"fileName"`
	OriginalName  string        `json:"originalName"`
	FileSize      FileSizeBytes `json:"fileSize"`
	MimeType      ContentType   `json:"mimeType"`
	UploadedBy    ActorID       `json:"uploadedBy,omitempty"`
	Active        bool          `json:"isActive"`
	DownloadCount int64         `json:"downloadCount"`
	Description   string        `json:"description,omitempty"`
	Category      string        `json:"category,omitempty"`
	CreatedAt     int64         `json:"createdAt"`
}

// DownloadLink points a client at the direct download endpoint for one
// resolved catalogue entry. Product downloads return a list of these
// rather than a server side archive.
type DownloadLink struct {
	CatalogueID  CatalogueID `json:"catalogueId"`
	OriginalName string      `json:"originalName"`
	URL          string      `json:"url"`
}
