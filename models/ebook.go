package models

import "time"

// EbookStatus is the manuscript lifecycle state. The ebooks.status column is
// a derived cache: it must always equal the new_status of the most recent
// workflow history entry.
type EbookStatus string

const (
	StatusSubmitted             EbookStatus = "SUBMITTED"
	StatusScreening             EbookStatus = "SCREENING"
	StatusUnderReview           EbookStatus = "UNDER_REVIEW"
	StatusRevisionRequired      EbookStatus = "REVISION_REQUIRED"
	StatusReturnedForCorrection EbookStatus = "RETURNED_FOR_CORRECTION"
	StatusAccepted              EbookStatus = "ACCEPTED"
	StatusFinancePending        EbookStatus = "FINANCE_PENDING"
	StatusFinanceCleared        EbookStatus = "FINANCE_CLEARED"
	StatusInProduction          EbookStatus = "IN_PRODUCTION"
	StatusPublished             EbookStatus = "PUBLISHED"
	StatusRejected              EbookStatus = "REJECTED"
)

// IsTerminal reports whether the status has no outgoing transitions.
func (s EbookStatus) IsTerminal() bool {
	return s == StatusPublished || s == StatusRejected
}

// Access policy for published ebooks.
const (
	AccessOpen       = "OPEN"
	AccessRestricted = "RESTRICTED"
	AccessEmbargoed  = "EMBARGOED"
)

type Ebook struct {
	EbookID          int         `gorm:"primaryKey;column:ebook_id" json:"ebook_id"`
	PublicID         string      `gorm:"column:public_id;unique" json:"public_id"`
	AuthorID         int         `gorm:"column:author_id;index" json:"author_id"`
	EditorID         *int        `gorm:"column:editor_id" json:"editor_id,omitempty"`
	Title            string      `gorm:"column:title" json:"title"`
	Abstract         *string     `gorm:"column:abstract" json:"abstract,omitempty"`
	Keywords         *string     `gorm:"column:keywords" json:"keywords,omitempty"`
	Status           EbookStatus `gorm:"column:status;index" json:"status"`
	CurrentVersionID *int        `gorm:"column:current_version_id" json:"current_version_id,omitempty"`
	Access           *string     `gorm:"column:access" json:"access,omitempty"`
	EmbargoUntil     *time.Time  `gorm:"column:embargo_until" json:"embargo_until,omitempty"`
	ISBN             *string     `gorm:"column:isbn" json:"isbn,omitempty"`
	DOI              *string     `gorm:"column:doi" json:"doi,omitempty"`
	PublishedAt      *time.Time  `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt        time.Time   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// Revision severity tags carried on versions.
const (
	RevisionMinor = "MINOR"
	RevisionMajor = "MAJOR"
)

type EbookVersion struct {
	VersionID         int       `gorm:"primaryKey;column:version_id" json:"version_id"`
	EbookID           int       `gorm:"column:ebook_id;index" json:"ebook_id"`
	VersionNo         int       `gorm:"column:version_no" json:"version_no"`
	IsFinal           bool      `gorm:"column:is_final" json:"is_final"`
	SubmittedBy       int       `gorm:"column:submitted_by" json:"submitted_by"`
	RevisionRequested *string   `gorm:"column:revision_requested" json:"revision_requested,omitempty"`
	Notes             *string   `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at" json:"created_at"`
}

// File type tags. Content bytes live in external storage; only metadata is
// recorded here.
const (
	FileTypeManuscript = "MANUSCRIPT"
	FileTypeRevised    = "REVISED"
	FileTypeProof      = "PROOF"
	FileTypeCover      = "COVER"
)

type EbookFile struct {
	FileID       int       `gorm:"primaryKey;column:file_id" json:"file_id"`
	EbookID      int       `gorm:"column:ebook_id;index" json:"ebook_id"`
	VersionID    *int      `gorm:"column:version_id" json:"version_id,omitempty"`
	FileType     string    `gorm:"column:file_type" json:"file_type"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	StoragePath  string    `gorm:"column:storage_path" json:"storage_path"`
	MimeType     string    `gorm:"column:mime_type" json:"mime_type"`
	FileSize     int64     `gorm:"column:file_size" json:"file_size"`
	UploadedBy   int       `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

// TableName overrides
func (Ebook) TableName() string {
	return "ebooks"
}

func (EbookVersion) TableName() string {
	return "ebook_versions"
}

func (EbookFile) TableName() string {
	return "ebook_files"
}
