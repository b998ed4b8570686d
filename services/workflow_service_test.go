package services

import (
	"testing"

	"github.com/Temamamankabeto/ora-ebook/models"
)

func TestCreateSubmissionRequiresTitle(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db, clockAt(testTime))
	author := seedUser(t, db, "Ana Author", "ana@example.org")

	_, _, err := svc.CreateSubmission(Actor{UserID: author.UserID}, CreateSubmissionInput{Title: "   "})
	assertKind(t, err, ErrValidation)

	var count int64
	db.Model(&models.Ebook{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no ebooks after failed create, got %d", count)
	}
}

func TestCreateSubmissionWritesVersionPointerAndHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db, clockAt(testTime))
	author := seedUser(t, db, "Ana Author", "ana@example.org")

	ebook, version, err := svc.CreateSubmission(Actor{UserID: author.UserID}, CreateSubmissionInput{Title: "Paper X"})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	if ebook.Status != models.StatusSubmitted {
		t.Fatalf("expected SUBMITTED, got %s", ebook.Status)
	}
	if ebook.PublicID == "" {
		t.Fatalf("expected a public id")
	}
	if version.VersionNo != 1 || version.IsFinal {
		t.Fatalf("unexpected first version: %+v", version)
	}

	stored := reloadEbook(t, db, ebook.EbookID)
	if stored.CurrentVersionID == nil || *stored.CurrentVersionID != version.VersionID {
		t.Fatalf("current_version_id not pointing at version 1")
	}

	entry := latestHistory(t, db, ebook.EbookID)
	if entry.PreviousStatus != nil || entry.NewStatus != models.StatusSubmitted {
		t.Fatalf("unexpected initial history entry: %+v", entry)
	}
	assertStatusMatchesHistory(t, db, ebook.EbookID)
}

func TestSetStatusValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db, clockAt(testTime))
	author := seedUser(t, db, "Ana Author", "ana@example.org")
	editor := seedUser(t, db, "Ed Editor", "ed@example.org")
	ebook := createTestSubmission(t, svc, author, "Paper X")

	err := svc.SetStatus(Actor{UserID: editor.UserID}, ebook.EbookID, "SHINY", nil, nil)
	assertKind(t, err, ErrValidation)

	err = svc.SetStatus(Actor{UserID: editor.UserID}, 9999, models.StatusScreening, nil, nil)
	assertKind(t, err, ErrNotFound)
}

func TestSetStatusRejectsUnlistedTransition(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db, clockAt(testTime))
	author := seedUser(t, db, "Ana Author", "ana@example.org")
	editor := seedUser(t, db, "Ed Editor", "ed@example.org")
	ebook := createTestSubmission(t, svc, author, "Paper X")

	err := svc.SetStatus(Actor{UserID: editor.UserID}, ebook.EbookID, models.StatusPublished, nil, nil)
	assertKind(t, err, ErrInvalidState)

	// Nothing may have been applied on the failed call.
	if got := reloadEbook(t, db, ebook.EbookID).Status; got != models.StatusSubmitted {
		t.Fatalf("status changed by rejected transition: %s", got)
	}
	assertStatusMatchesHistory(t, db, ebook.EbookID)
}

func TestSetStatusLocksTerminalStates(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db, clockAt(testTime))
	author := seedUser(t, db, "Ana Author", "ana@example.org")
	editor := seedUser(t, db, "Ed Editor", "ed@example.org")
	ebook := createTestSubmission(t, svc, author, "Paper X")

	advanceStatus(t, svc, editor, ebook.EbookID, models.StatusRejected)

	err := svc.SetStatus(Actor{UserID: editor.UserID}, ebook.EbookID, models.StatusScreening, nil, nil)
	assertKind(t, err, ErrInvalidState)
}

func TestSubmitRevisionLocksTerminalStates(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db, clockAt(testTime))
	author := seedUser(t, db, "Ana Author", "ana@example.org")
	editor := seedUser(t, db, "Ed Editor", "ed@example.org")
	ebook := createTestSubmission(t, svc, author, "Paper X")

	advanceStatus(t, svc, editor, ebook.EbookID, models.StatusRejected)

	_, err := svc.SubmitRevision(Actor{UserID: author.UserID}, ebook.EbookID, SubmitRevisionInput{})
	assertKind(t, err, ErrInvalidState)

	// Neither the status nor the version list may have moved.
	if got := reloadEbook(t, db, ebook.EbookID).Status; got != models.StatusRejected {
		t.Fatalf("rejected ebook pulled back to %s by a revision", got)
	}
	var versions int64
	db.Model(&models.EbookVersion{}).Where("ebook_id = ?", ebook.EbookID).Count(&versions)
	if versions != 1 {
		t.Fatalf("expected only the original version, got %d", versions)
	}
	assertStatusMatchesHistory(t, db, ebook.EbookID)
}

func TestSetStatusRecordsEditorDecisionAndHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db, clockAt(testTime))
	author := seedUser(t, db, "Ana Author", "ana@example.org")
	editor := seedUser(t, db, "Ed Editor", "ed@example.org")
	ebook := createTestSubmission(t, svc, author, "Paper X")

	comment := "needs screening"
	decision := models.DecisionRevision
	if err := svc.SetStatus(Actor{UserID: editor.UserID}, ebook.EbookID, models.StatusScreening, &comment, &decision); err != nil {
		t.Fatalf("set status: %v", err)
	}

	stored := reloadEbook(t, db, ebook.EbookID)
	if stored.EditorID == nil || *stored.EditorID != editor.UserID {
		t.Fatalf("editor not recorded on ebook")
	}

	var decisions []models.EbookDecision
	db.Where("ebook_id = ?", ebook.EbookID).Find(&decisions)
	if len(decisions) != 1 || decisions[0].Decision != models.DecisionRevision {
		t.Fatalf("unexpected decisions: %+v", decisions)
	}

	entry := latestHistory(t, db, ebook.EbookID)
	if entry.PreviousStatus == nil || *entry.PreviousStatus != models.StatusSubmitted {
		t.Fatalf("unexpected previous status: %+v", entry.PreviousStatus)
	}
	if entry.Comments == nil || *entry.Comments != comment {
		t.Fatalf("comment not carried on history entry")
	}
	assertStatusMatchesHistory(t, db, ebook.EbookID)
}

func TestSubmitRevisionRequiresOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db, clockAt(testTime))
	author := seedUser(t, db, "Ana Author", "ana@example.org")
	other := seedUser(t, db, "Oscar Other", "oscar@example.org")
	ebook := createTestSubmission(t, svc, author, "Paper X")

	_, err := svc.SubmitRevision(Actor{UserID: other.UserID}, ebook.EbookID, SubmitRevisionInput{})
	assertKind(t, err, ErrForbidden)

	_, err = svc.SubmitRevision(Actor{UserID: author.UserID}, 9999, SubmitRevisionInput{})
	assertKind(t, err, ErrNotFound)
}

func TestSubmitRevisionNumbersStrictlyIncrease(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db, clockAt(testTime))
	author := seedUser(t, db, "Ana Author", "ana@example.org")
	ebook := createTestSubmission(t, svc, author, "Paper X")

	sev := models.RevisionMinor
	v2, err := svc.SubmitRevision(Actor{UserID: author.UserID}, ebook.EbookID, SubmitRevisionInput{RevisionRequested: &sev})
	if err != nil {
		t.Fatalf("first revision: %v", err)
	}
	v3, err := svc.SubmitRevision(Actor{UserID: author.UserID}, ebook.EbookID, SubmitRevisionInput{})
	if err != nil {
		t.Fatalf("second revision: %v", err)
	}

	if v2.VersionNo != 2 || v3.VersionNo != 3 {
		t.Fatalf("expected versions 2 and 3, got %d and %d", v2.VersionNo, v3.VersionNo)
	}

	stored := reloadEbook(t, db, ebook.EbookID)
	if stored.Status != models.StatusRevisionRequired {
		t.Fatalf("expected REVISION_REQUIRED, got %s", stored.Status)
	}
	if stored.CurrentVersionID == nil || *stored.CurrentVersionID != v3.VersionID {
		t.Fatalf("current_version_id not repointed to latest revision")
	}
	assertStatusMatchesHistory(t, db, ebook.EbookID)
}

func TestAttachFileChecksActorAndStampsVersion(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db, clockAt(testTime))
	author := seedUser(t, db, "Ana Author", "ana@example.org")
	stranger := seedUser(t, db, "Sam Stranger", "sam@example.org")
	ebook := createTestSubmission(t, svc, author, "Paper X")

	input := AttachFileInput{
		FileType:     models.FileTypeManuscript,
		OriginalName: "paper-x.pdf",
		StoragePath:  "uploads/paper-x.pdf",
		MimeType:     "application/pdf",
		FileSize:     1024,
	}

	_, err := svc.AttachFile(Actor{UserID: stranger.UserID}, ebook.EbookID, input)
	assertKind(t, err, ErrForbidden)

	// Elevated privilege passes the same gate.
	if _, err := svc.AttachFile(Actor{UserID: stranger.UserID, Roles: []string{models.RoleAdmin}}, ebook.EbookID, input); err != nil {
		t.Fatalf("admin attach: %v", err)
	}

	file, err := svc.AttachFile(Actor{UserID: author.UserID}, ebook.EbookID, input)
	if err != nil {
		t.Fatalf("owner attach: %v", err)
	}

	stored := reloadEbook(t, db, ebook.EbookID)
	if file.VersionID == nil || *file.VersionID != *stored.CurrentVersionID {
		t.Fatalf("file not stamped with current version")
	}

	_, err = svc.AttachFile(Actor{UserID: author.UserID}, ebook.EbookID, AttachFileInput{OriginalName: "x"})
	assertKind(t, err, ErrValidation)
}

func TestEditorQueueCoversActivePipelineOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkflowService(db, clockAt(testTime))
	author := seedUser(t, db, "Ana Author", "ana@example.org")
	editor := seedUser(t, db, "Ed Editor", "ed@example.org")

	active := createTestSubmission(t, svc, author, "Active Paper")
	accepted := createTestSubmission(t, svc, author, "Accepted Paper")
	rejected := createTestSubmission(t, svc, author, "Rejected Paper")

	advanceStatus(t, svc, editor, accepted.EbookID, models.StatusUnderReview, models.StatusAccepted)
	advanceStatus(t, svc, editor, rejected.EbookID, models.StatusRejected)

	queue, err := svc.EditorQueue()
	if err != nil {
		t.Fatalf("editor queue: %v", err)
	}

	got := make(map[int]bool, len(queue))
	for _, e := range queue {
		got[e.EbookID] = true
	}
	if !got[active.EbookID] || !got[accepted.EbookID] {
		t.Fatalf("active pipeline ebooks missing from queue: %v", got)
	}
	if got[rejected.EbookID] {
		t.Fatalf("rejected ebook leaked into editor queue")
	}
}

func TestFullPipelineScenario(t *testing.T) {
	db := newTestDB(t)
	workflow := NewWorkflowService(db, clockAt(testTime))
	reviewSvc := NewReviewService(db, clockAt(testTime))
	financeSvc := NewFinanceService(db, clockAt(testTime))
	productionSvc := NewProductionService(db, clockAt(testTime))
	librarySvc := NewLibraryService(db, clockAt(testTime))

	author := seedUser(t, db, "Ana Author", "ana@example.org")
	editor := seedUser(t, db, "Ed Editor", "ed@example.org")
	reviewer := seedUser(t, db, "Rita Reviewer", "rita@example.org")
	officer := seedUser(t, db, "Fred Finance", "fred@example.org")
	manager := seedUser(t, db, "Mia Manager", "mia@example.org")

	// Author submits.
	ebook := createTestSubmission(t, workflow, author, "Paper X")

	// Editor assigns a reviewer; manuscript is pulled into review.
	assignment, err := reviewSvc.AssignReviewer(Actor{UserID: editor.UserID}, ebook.EbookID, reviewer.UserID, nil)
	if err != nil {
		t.Fatalf("assign reviewer: %v", err)
	}
	if assignment.Status != models.AssignmentInvited {
		t.Fatalf("expected INVITED assignment, got %s", assignment.Status)
	}
	if got := reloadEbook(t, db, ebook.EbookID).Status; got != models.StatusUnderReview {
		t.Fatalf("expected UNDER_REVIEW after assignment, got %s", got)
	}
	assertStatusMatchesHistory(t, db, ebook.EbookID)

	// Reviewer accepts and recommends minor revisions.
	if _, err := reviewSvc.AcceptInvite(Actor{UserID: reviewer.UserID}, assignment.AssignmentID); err != nil {
		t.Fatalf("accept invite: %v", err)
	}
	if _, err := reviewSvc.SubmitReview(Actor{UserID: reviewer.UserID}, assignment.AssignmentID, SubmitReviewInput{
		Recommendation: models.RecommendMinor,
	}); err != nil {
		t.Fatalf("submit review: %v", err)
	}

	summaries, err := reviewSvc.Summaries([]int{ebook.EbookID})
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if summaries[ebook.EbookID].RecMinor != 1 || summaries[ebook.EbookID].Submitted != 1 {
		t.Fatalf("unexpected summary: %+v", summaries[ebook.EbookID])
	}

	// Editor requests a revision; author resubmits.
	advanceStatus(t, workflow, editor, ebook.EbookID, models.StatusRevisionRequired)
	v2, err := workflow.SubmitRevision(Actor{UserID: author.UserID}, ebook.EbookID, SubmitRevisionInput{})
	if err != nil {
		t.Fatalf("submit revision: %v", err)
	}
	if v2.VersionNo != 2 {
		t.Fatalf("expected version 2, got %d", v2.VersionNo)
	}
	if got := reloadEbook(t, db, ebook.EbookID).Status; got != models.StatusRevisionRequired {
		t.Fatalf("expected REVISION_REQUIRED after resubmission, got %s", got)
	}

	// Editor accepts, finance clears, production runs, manager publishes.
	advanceStatus(t, workflow, editor, ebook.EbookID, models.StatusUnderReview, models.StatusAccepted)

	payment, err := financeSvc.SetPayment(Actor{UserID: officer.UserID}, ebook.EbookID, SetPaymentInput{Status: models.PaymentPaid})
	if err != nil {
		t.Fatalf("set payment: %v", err)
	}
	if payment.ClearedAt == nil {
		t.Fatalf("expected cleared_at on PAID payment")
	}
	if got := reloadEbook(t, db, ebook.EbookID).Status; got != models.StatusFinanceCleared {
		t.Fatalf("expected FINANCE_CLEARED, got %s", got)
	}
	assertStatusMatchesHistory(t, db, ebook.EbookID)

	if _, err := productionSvc.StartProduction(Actor{UserID: manager.UserID}, ebook.EbookID); err != nil {
		t.Fatalf("start production: %v", err)
	}
	if got := reloadEbook(t, db, ebook.EbookID).Status; got != models.StatusInProduction {
		t.Fatalf("expected IN_PRODUCTION, got %s", got)
	}

	published, err := productionSvc.Publish(Actor{UserID: manager.UserID}, ebook.EbookID, PublishInput{})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != models.StatusPublished || published.PublishedAt == nil {
		t.Fatalf("unexpected published ebook: %+v", published)
	}
	if published.Access == nil || *published.Access != models.AccessOpen {
		t.Fatalf("expected OPEN access by default")
	}
	assertStatusMatchesHistory(t, db, ebook.EbookID)

	// Open access is world readable.
	if _, err := librarySvc.PublicEbook(ebook.EbookID, false); err != nil {
		t.Fatalf("anonymous read of open ebook: %v", err)
	}
}
