package services

import (
	"errors"
	"testing"
	"time"

	"github.com/Temamamankabeto/ora-ebook/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testTime = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// A single connection keeps every session on the same in-memory
	// database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.Ebook{},
		&models.EbookVersion{},
		&models.EbookFile{},
		&models.WorkflowHistory{},
		&models.EbookDecision{},
		&models.ReviewerAssignment{},
		&models.Review{},
		&models.Payment{},
		&models.ProductionRecord{},
		&models.EbookAccessLog{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func clockAt(at time.Time) Option {
	return WithClock(func() time.Time { return at })
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()
	user := models.User{FullName: name, Email: email, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error kind %v, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected error kind %v, got %v", kind, err)
	}
}

func reloadEbook(t *testing.T, db *gorm.DB, ebookID int) models.Ebook {
	t.Helper()
	var ebook models.Ebook
	if err := db.Where("ebook_id = ?", ebookID).First(&ebook).Error; err != nil {
		t.Fatalf("reload ebook %d: %v", ebookID, err)
	}
	return ebook
}

func latestHistory(t *testing.T, db *gorm.DB, ebookID int) models.WorkflowHistory {
	t.Helper()
	var entry models.WorkflowHistory
	if err := db.Where("ebook_id = ?", ebookID).Order("history_id DESC").First(&entry).Error; err != nil {
		t.Fatalf("load latest history for ebook %d: %v", ebookID, err)
	}
	return entry
}

// assertStatusMatchesHistory checks the cache invariant: ebooks.status always
// equals the new_status of the latest history entry.
func assertStatusMatchesHistory(t *testing.T, db *gorm.DB, ebookID int) {
	t.Helper()
	ebook := reloadEbook(t, db, ebookID)
	entry := latestHistory(t, db, ebookID)
	if ebook.Status != entry.NewStatus {
		t.Fatalf("ebook %d status %s does not match latest history new_status %s",
			ebookID, ebook.Status, entry.NewStatus)
	}
}

func createTestSubmission(t *testing.T, svc *WorkflowService, author models.User, title string) *models.Ebook {
	t.Helper()
	ebook, _, err := svc.CreateSubmission(Actor{UserID: author.UserID}, CreateSubmissionInput{Title: title})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	return ebook
}

// advanceStatus walks an ebook through the given SetStatus transitions.
func advanceStatus(t *testing.T, svc *WorkflowService, editor models.User, ebookID int, statuses ...models.EbookStatus) {
	t.Helper()
	for _, next := range statuses {
		if err := svc.SetStatus(Actor{UserID: editor.UserID}, ebookID, next, nil, nil); err != nil {
			t.Fatalf("set status %s: %v", next, err)
		}
	}
}
