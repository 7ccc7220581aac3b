package services

import (
	"context"
	"testing"

	"github.com/mangatarem/tourism-backend/internal/models"
)

func TestInitialStatusAndSubmitter(t *testing.T) {
	db := setupDB(t)
	admin := newAdmin(t, db)
	contributor := newContributor(t, db, "mod-rep", "Poblacion", true)

	if InitialStatus(admin) != models.StatusApproved {
		t.Fatal("expected admin insertion to start approved")
	}
	if InitialStatus(contributor) != models.StatusPending {
		t.Fatal("expected contributor submission to start pending")
	}
	if SubmitterID(admin) != nil {
		t.Fatal("expected admin insertion to be unowned")
	}
	if id := SubmitterID(contributor); id == nil || *id != contributor.ID {
		t.Fatal("expected contributor submission to carry their id")
	}
}

func TestCanSubmitAndCanModify(t *testing.T) {
	db := setupDB(t)
	svc := NewModerationService(db)

	admin := newAdmin(t, db)
	owner := newContributor(t, db, "owner-rep", "Poblacion", true)
	other := newContributor(t, db, "other-rep", "Bamban", true)
	waiting := newContributor(t, db, "waiting-rep", "Umangan", false)

	if !svc.CanSubmit(admin) || !svc.CanSubmit(owner) {
		t.Fatal("expected admin and approved contributor to submit")
	}
	if svc.CanSubmit(waiting) {
		t.Fatal("expected unapproved contributor to be blocked from submitting")
	}

	ownerID := owner.ID
	item := &models.Attraction{Name: "Spot", Description: "d", Category: "Nature"}
	item.UserID = &ownerID
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed creating attraction: %v", err)
	}

	if !svc.CanModify(admin, item) {
		t.Fatal("expected admin to modify any item")
	}
	if !svc.CanModify(owner, item) {
		t.Fatal("expected owner to modify their item")
	}
	if svc.CanModify(other, item) {
		t.Fatal("expected non-owner contributor to be blocked")
	}
}

func TestApproveAndRejectWriteLogs(t *testing.T) {
	db := setupDB(t)
	svc := NewModerationService(db)
	ctx := context.Background()

	admin := newAdmin(t, db)
	owner := newContributor(t, db, "log-rep", "Poblacion", true)

	ownerID := owner.ID
	item := &models.Attraction{Name: "Spot", Description: "d", Category: "Nature"}
	item.UserID = &ownerID
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed creating attraction: %v", err)
	}

	t.Run("contributor cannot moderate", func(t *testing.T) {
		if err := svc.Approve(ctx, owner, item); err != ErrPermissionDenied {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("approve flips status and logs", func(t *testing.T) {
		if err := svc.Approve(ctx, admin, item); err != nil {
			t.Fatalf("approve failed: %v", err)
		}

		var reloaded models.Attraction
		if err := db.First(&reloaded, "id = ?", item.ID).Error; err != nil {
			t.Fatalf("failed reloading: %v", err)
		}
		if reloaded.Status != models.StatusApproved {
			t.Fatalf("expected approved, got %s", reloaded.Status)
		}

		var log models.ModerationLog
		if err := db.First(&log, "action = ? AND content_id = ?", "content.approve", item.ID).Error; err != nil {
			t.Fatalf("expected approve log row: %v", err)
		}
		if log.ActorID != admin.ID || log.ContentKind != "attraction" {
			t.Fatalf("unexpected log row: %+v", log)
		}
	})

	t.Run("reject retains row with reason", func(t *testing.T) {
		reason := "duplicate entry"
		if err := svc.Reject(ctx, admin, item, &reason); err != nil {
			t.Fatalf("reject failed: %v", err)
		}

		var reloaded models.Attraction
		if err := db.First(&reloaded, "id = ?", item.ID).Error; err != nil {
			t.Fatalf("expected row to survive rejection: %v", err)
		}
		if reloaded.Status != models.StatusRejected {
			t.Fatalf("expected rejected, got %s", reloaded.Status)
		}
		if reloaded.RejectionReason == nil || *reloaded.RejectionReason != reason {
			t.Fatalf("expected stored reason, got %v", reloaded.RejectionReason)
		}

		var log models.ModerationLog
		if err := db.First(&log, "action = ?", "content.reject").Error; err != nil {
			t.Fatalf("expected reject log row: %v", err)
		}
		if log.Reason == nil || *log.Reason != reason {
			t.Fatalf("expected reason on log row, got %v", log.Reason)
		}
	})
}

func TestFinalizeEdit(t *testing.T) {
	db := setupDB(t)
	svc := NewModerationService(db)

	admin := newAdmin(t, db)
	owner := newContributor(t, db, "edit-rep", "Poblacion", true)

	reason := "needs better photos"
	item := &models.Attraction{Name: "Spot", Description: "d", Category: "Nature"}
	item.SetStatus(models.StatusRejected)
	item.SetRejectionReason(&reason)

	svc.FinalizeEdit(admin, item)
	if item.Status != models.StatusRejected {
		t.Fatal("expected admin edit to leave status untouched")
	}

	svc.FinalizeEdit(owner, item)
	if item.Status != models.StatusPending {
		t.Fatalf("expected owner edit to resubmit as pending, got %s", item.Status)
	}
	if item.RejectionReason != nil {
		t.Fatal("expected rejection reason cleared on resubmit")
	}
}
