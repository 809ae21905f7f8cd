package bookingRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"schooltrip/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "schooltrip.bookings"

func bookingDoc(id, status string, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "tourId", Value: "T1"},
		{Key: "participants", Value: bson.D{
			{Key: "students", Value: 20},
			{Key: "parents", Value: 5},
			{Key: "teachers", Value: 2},
		}},
		{Key: "totalPrice", Value: 540.0},
		{Key: "status", Value: status},
		{Key: "createdAt", Value: created},
	}
}

func TestMongoBookingRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("list decodes newest first order from server", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		now := time.Now().UTC().Truncate(time.Millisecond)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bookingDoc("b2", "confirmed", now),
			bookingDoc("b1", "pending", now.Add(-time.Hour)),
		))

		got, err := repo.List(ctx, models.BookingFilter{})
		if err != nil {
			mt.Fatalf("List error: %v", err)
		}
		if len(got) != 2 || got[0].ID != "b2" || got[1].ID != "b1" {
			mt.Fatalf("unexpected bookings: %+v", got)
		}
		if got[0].Participants.Total() != 27 {
			mt.Fatalf("participants not decoded: %+v", got[0].Participants)
		}
	})

	mt.Run("get missing returns nil", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := repo.GetByID(ctx, "nope")
		if err != nil {
			mt.Fatalf("GetByID error: %v", err)
		}
		if got != nil {
			mt.Fatalf("expected nil booking, got %+v", got)
		}
	})

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		b := &models.Booking{ID: "b1", TourID: "T1", Status: models.StatusPending, CreatedAt: time.Now()}
		if err := repo.Create(ctx, b); err != nil {
			mt.Fatalf("Create error: %v", err)
		}
	})

	mt.Run("apply patch returns updated document", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: bookingDoc("b1", "confirmed", time.Now().UTC())},
		))

		status := models.StatusConfirmed
		got, err := repo.ApplyPatch(ctx, "b1", models.BookingPatch{Status: &status})
		if err != nil {
			mt.Fatalf("ApplyPatch error: %v", err)
		}
		if got.Status != models.StatusConfirmed || got.TotalPrice != 540 {
			mt.Fatalf("unexpected booking: %+v", got)
		}
	})

	mt.Run("apply patch on missing booking", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		status := models.StatusRejected
		_, err := repo.ApplyPatch(ctx, "missing", models.BookingPatch{Status: &status})
		if !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPatchDocumentOnlySetsGivenFields(t *testing.T) {
	status := models.StatusPending
	doc := patchDocument(models.BookingPatch{
		ContactDetails: &models.ContactDetails{Name: "Nino", Phone: "555"},
		Status:         &status,
	})
	if _, ok := doc["bus"]; ok {
		t.Fatalf("bus must not be written when absent")
	}
	if doc["status"] != models.StatusPending {
		t.Fatalf("status not set: %v", doc["status"])
	}
	if len(doc) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(doc))
	}
}
