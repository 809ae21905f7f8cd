package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"schooltrip/models"

	"go.uber.org/zap"
)

var member = Actor{UserID: "u1"}

func newTestService(tours ...models.Tour) (*DefaultBookingService, *memBookings, *memTours) {
	bookings := newMemBookings()
	tourStore := newMemTours(tours...)
	svc := NewBookingService(bookings, tourStore, zap.NewNop())
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, bookings, tourStore
}

func TestQuoteMatchesFormulaForEveryMenu(t *testing.T) {
	tours := []float64{0, 10, 15, 20, 40}
	groups := []models.Participants{{Students: 1, Teachers: 1}, {Students: 20, Parents: 5, Teachers: 2}, {Students: 33, Parents: 0, Teachers: 4}}
	for _, base := range tours {
		for _, m := range Menus() {
			for _, p := range groups {
				menu := m
				total, food := Quote(base, &menu, p)
				want := (base + m.PricePerPerson) * float64(p.Total())
				if total != want {
					t.Fatalf("Quote(%v, %s, %+v) = %v, want %v", base, m.ID, p, total, want)
				}
				if food != m.PricePerPerson*float64(p.Total()) {
					t.Fatalf("food price %v for %s", food, m.ID)
				}
			}
		}
	}
}

func TestLookupMenuByIDOrLabel(t *testing.T) {
	for _, key := range []string{"premium", "Premium Feast", " PREMIUM "} {
		m, ok := LookupMenu(key)
		if !ok || m.PricePerPerson != 20 {
			t.Fatalf("LookupMenu(%q) = %+v, %v", key, m, ok)
		}
	}
	if _, ok := LookupMenu("vegan"); ok {
		t.Fatalf("unknown menu resolved")
	}
}

func TestCreateBookingRecomputesPrice(t *testing.T) {
	svc, _, _ := newTestService(models.Tour{ID: "T1", Name: "Sataflia", BasePrice: 15})

	b, err := svc.CreateBooking(context.Background(), member, models.BookingInput{
		TourID:        "T1",
		Participants:  models.Participants{Students: 20, Parents: 5, Teachers: 2},
		FoodSelection: &models.FoodSelectionHint{MenuType: "eco", TotalFoodPrice: 1},
		TotalPrice:    1,
	})
	if err != nil {
		t.Fatalf("CreateBooking error: %v", err)
	}
	if b.TotalPrice != (15+15)*27 {
		t.Fatalf("total = %v", b.TotalPrice)
	}
	if b.QuotedPrice != 1 {
		t.Fatalf("quoted = %v", b.QuotedPrice)
	}
	if b.FoodSelection == nil || b.FoodSelection.MenuType != "Eco/Organic" || b.FoodSelection.TotalFoodPrice != 15*27 {
		t.Fatalf("food = %+v", b.FoodSelection)
	}
	if b.Status != models.StatusPending || b.UserID != "u1" || b.ID == "" || b.Source != models.SourceWizard {
		t.Fatalf("unexpected booking: %+v", b)
	}
}

func TestCreateBookingWithoutSignInPersistsNothing(t *testing.T) {
	svc, bookings, _ := newTestService(models.Tour{ID: "T1", BasePrice: 20})

	_, err := svc.CreateBooking(context.Background(), Actor{}, models.BookingInput{
		TourID:       "T1",
		Participants: models.Participants{Students: 1},
	})
	if !errors.Is(err, ErrSignInRequired) {
		t.Fatalf("expected ErrSignInRequired, got %v", err)
	}
	if len(bookings.docs) != 0 {
		t.Fatalf("booking persisted without sign-in")
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc, bookings, _ := newTestService(models.Tour{ID: "T1", BasePrice: 20})
	cases := map[string]models.BookingInput{
		"no tour":      {Participants: models.Participants{Students: 1}},
		"unknown tour": {TourID: "T9", Participants: models.Participants{Students: 1}},
		"negative":     {TourID: "T1", Participants: models.Participants{Students: 2, Parents: -1}},
		"empty group":  {TourID: "T1"},
		"bad menu":     {TourID: "T1", Participants: models.Participants{Students: 1}, FoodSelection: &models.FoodSelectionHint{MenuType: "vegan"}},
	}
	for name, input := range cases {
		_, err := svc.CreateBooking(context.Background(), member, input)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s: expected ValidationError, got %v", name, err)
		}
	}
	if len(bookings.docs) != 0 {
		t.Fatalf("invalid bookings persisted")
	}
}

func TestStatusReachableFromAnyStatus(t *testing.T) {
	svc, _, _ := newTestService(models.Tour{ID: "T1", BasePrice: 20})
	ctx := context.Background()
	b, err := svc.CreateBooking(ctx, member, models.BookingInput{TourID: "T1", Participants: models.Participants{Students: 20, Parents: 5, Teachers: 2}, TotalPrice: 540})
	if err != nil {
		t.Fatalf("CreateBooking error: %v", err)
	}

	path := []models.BookingStatus{models.StatusConfirmed, models.StatusRejected, models.StatusConfirmed, models.StatusPending, models.StatusRejected}
	for _, status := range path {
		got, err := svc.SetStatus(ctx, b.ID, models.StatusUpdate{Status: status})
		if err != nil {
			t.Fatalf("SetStatus(%s) error: %v", status, err)
		}
		if got.Status != status || got.TotalPrice != 540 || got.Participants != b.Participants {
			t.Fatalf("SetStatus(%s) = %+v", status, got)
		}
	}

	if _, err := svc.SetStatus(ctx, b.ID, models.StatusUpdate{Status: "cancelled"}); err == nil {
		t.Fatalf("unknown status accepted")
	}
	if _, err := svc.SetStatus(ctx, "missing", models.StatusUpdate{Status: models.StatusConfirmed}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletedTourResolvesToAbsent(t *testing.T) {
	svc, _, tours := newTestService(models.Tour{ID: "T1", Name: "Gelati", BasePrice: 20})
	ctx := context.Background()
	b, err := svc.CreateBooking(ctx, member, models.BookingInput{TourID: "T1", Participants: models.Participants{Students: 3}})
	if err != nil {
		t.Fatalf("CreateBooking error: %v", err)
	}
	if err := tours.Delete(ctx, "T1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	view, err := svc.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if view.Tour != nil || view.TourName != models.DeletedTourName || view.TourID != "T1" {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.TransportName != models.SelfOrganizedName {
		t.Fatalf("transport name = %q", view.TransportName)
	}

	list, err := svc.ListForAdmin(ctx, models.BookingFilter{})
	if err != nil || len(list) != 1 || list[0].TourName != models.DeletedTourName {
		t.Fatalf("ListForAdmin = %+v, %v", list, err)
	}
}

func TestListForAdminNewestFirstAndFiltered(t *testing.T) {
	svc, _, _ := newTestService(models.Tour{ID: "T1", Name: "Signagi", BasePrice: 40})
	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		b, err := svc.CreateBooking(ctx, member, models.BookingInput{TourID: "T1", Participants: models.Participants{Students: i + 1}})
		if err != nil {
			t.Fatalf("CreateBooking error: %v", err)
		}
		ids = append(ids, b.ID)
	}
	if _, err := svc.SetStatus(ctx, ids[0], models.StatusUpdate{Status: models.StatusConfirmed}); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}

	all, err := svc.ListForAdmin(ctx, models.BookingFilter{})
	if err != nil {
		t.Fatalf("ListForAdmin error: %v", err)
	}
	if len(all) != 3 || all[0].ID != ids[2] || all[2].ID != ids[0] || all[0].TourName != "Signagi" {
		t.Fatalf("unexpected order: %+v", all)
	}

	confirmed, err := svc.ListForAdmin(ctx, models.BookingFilter{Status: models.StatusConfirmed})
	if err != nil || len(confirmed) != 1 || confirmed[0].ID != ids[0] {
		t.Fatalf("filtered = %+v, %v", confirmed, err)
	}
	if _, err := svc.ListForAdmin(ctx, models.BookingFilter{Status: "bogus"}); err == nil {
		t.Fatalf("bogus filter accepted")
	}
}

func TestApplyUpdateSteps(t *testing.T) {
	svc, _, _ := newTestService(models.Tour{ID: "T1", BasePrice: 20})
	ctx := context.Background()
	b, err := svc.CreateBooking(ctx, member, models.BookingInput{TourID: "T1", Participants: models.Participants{Students: 10}})
	if err != nil {
		t.Fatalf("CreateBooking error: %v", err)
	}

	got, err := svc.ApplyUpdate(ctx, b.ID, member, models.BookingUpdate{Bus: &models.TransportUpdate{Name: "Setra S415", Driver: "დათო", Capacity: 50}})
	if err != nil {
		t.Fatalf("transport update error: %v", err)
	}
	if got.Bus == nil || got.Bus.Name != "Setra S415" || got.TotalPrice != b.TotalPrice {
		t.Fatalf("unexpected booking after transport: %+v", got)
	}

	svc.SetStatus(ctx, b.ID, models.StatusUpdate{Status: models.StatusRejected})
	got, err = svc.ApplyUpdate(ctx, b.ID, member, models.BookingUpdate{ContactDetails: &models.ContactUpdate{Name: "Nino", Phone: "555 12 34 56"}})
	if err != nil {
		t.Fatalf("contact update error: %v", err)
	}
	if got.Status != models.StatusPending || got.ContactDetails.Name != "Nino" || got.Bus == nil {
		t.Fatalf("unexpected booking after contact: %+v", got)
	}
}

func TestApplyUpdateRejects(t *testing.T) {
	svc, _, _ := newTestService(models.Tour{ID: "T1", BasePrice: 20})
	ctx := context.Background()
	b, _ := svc.CreateBooking(ctx, member, models.BookingInput{TourID: "T1", Participants: models.Participants{Students: 10}})
	confirmed := models.StatusConfirmed

	cases := map[string]models.BookingUpdate{
		"empty":        {},
		"both":         {Bus: &models.TransportUpdate{Name: "x"}, ContactDetails: &models.ContactUpdate{Name: "a", Phone: "1"}},
		"no phone":     {ContactDetails: &models.ContactUpdate{Name: "a"}},
		"no bus name":  {Bus: &models.TransportUpdate{Capacity: 20}},
		"status only":  {Status: &confirmed},
		"confirm self": {ContactDetails: &models.ContactUpdate{Name: "a", Phone: "1"}, Status: &confirmed},
	}
	for name, u := range cases {
		var vErr *ValidationError
		if _, err := svc.ApplyUpdate(ctx, b.ID, member, u); !errors.As(err, &vErr) {
			t.Fatalf("%s: expected ValidationError, got %v", name, err)
		}
	}

	contact := models.BookingUpdate{ContactDetails: &models.ContactUpdate{Name: "a", Phone: "1"}}
	if _, err := svc.ApplyUpdate(ctx, b.ID, Actor{UserID: "u2"}, contact); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.ApplyUpdate(ctx, b.ID, Actor{UserID: "admin", Admin: true}, contact); err != nil {
		t.Fatalf("admin update error: %v", err)
	}
	if _, err := svc.ApplyUpdate(ctx, "missing", member, contact); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateFromChat(t *testing.T) {
	tours := []models.Tour{{ID: "T1", Name: "Sataflia"}, {ID: "T2", Name: "Gelati Monastery"}}
	svc, bookings, _ := newTestService(tours...)

	b, err := svc.CreateFromChat(context.Background(), "ჩემი ნომერია +995 555 12 34 56", []string{"gelati monastery 25 კაცი"}, tours)
	if err != nil {
		t.Fatalf("CreateFromChat error: %v", err)
	}
	if b.TourID != "T2" {
		t.Fatalf("tour = %q", b.TourID)
	}
	if b.ContactDetails.Phone != "+995 555 12 34 56" || b.ContactDetails.Name != ChatContactName {
		t.Fatalf("contact = %+v", b.ContactDetails)
	}
	if b.Source != models.SourceChat || b.Status != models.StatusPending || b.Notes != chatNotesPrefix+"ჩემი ნომერია +995 555 12 34 56" {
		t.Fatalf("unexpected chat booking: %+v", b)
	}
	if _, ok := bookings.docs[b.ID]; !ok {
		t.Fatalf("chat booking not stored")
	}

	b, err = svc.CreateFromChat(context.Background(), "დიახ", nil, tours)
	if err != nil || b.TourID != "" || b.ContactDetails.Phone != "" {
		t.Fatalf("bare confirmation = %+v, %v", b, err)
	}
}
