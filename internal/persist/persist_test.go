package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/erazemk/musemate/internal/db"
	"github.com/erazemk/musemate/internal/metrics"
	"github.com/erazemk/musemate/internal/model"
	"github.com/erazemk/musemate/internal/store"
)

func sampleState() store.State {
	attendees := 250
	capacity := 300
	cet := time.FixedZone("CET", 3600)

	st := store.Empty()
	st.Items = []model.Item{
		{ID: "i1", Name: "SM58", Category: "Audio", Quantity: 6, Available: 4, MaintenanceStatus: model.MaintenanceGood},
		{ID: "i2", Name: "Hazer", Category: "Stage", Quantity: 1, Available: 0, PurchasePrice: "499.99"},
	}
	st.Events = []model.Event{{
		ID:                "e1",
		Name:              "Release show",
		Date:              time.Date(2024, 6, 1, 20, 30, 0, 123000000, cet),
		Type:              model.EventTypeConcert,
		Venue:             "Kino Šiška",
		ExpectedAttendees: &attendees,
		Checklist:         []model.ChecklistEntry{{ItemID: "i1", Completed: true}, {ItemID: "deleted"}},
		Details: &model.EventDetails{
			LoadInTime: "16:00",
			Timeline:   map[string]string{"doors": "19:30"},
			Ticketing:  &model.Ticketing{Provider: "Eventim", Capacity: &capacity},
		},
		Members: []model.BandMember{{
			ID: "m1", Name: "Ana", Role: "Vocalist", Email: "ana@example.com",
			Availability: &model.Availability{Preferred: []string{"Fri-20:00"}, Unavailable: []string{}},
		}},
		Merchandise: []model.MerchandiseItem{{ID: "x1", Name: "Tee", Price: 20, Status: model.MerchStatusDraft}},
		Equipment: []model.EquipmentRental{{
			ID: "r1", Name: "Sub", Quantity: 2,
			PickupDate: time.Date(2024, 5, 31, 10, 0, 0, 0, time.UTC),
			ReturnDate: time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC),
			Supplier:   model.Supplier{Name: "Rent-a-PA", Contact: "Bo"},
			Status:     model.RentalStatusConfirmed,
			Cost:       180,
		}},
	}}
	st.Templates = []model.ChecklistTemplate{{ID: "t1", Name: "Club gig"}}
	st.Loading = true
	st.Error = "transient"
	st.UserID = "user_2abc"
	return st
}

func TestEncodeWritesOnlyDurableFields(t *testing.T) {
	data, err := Encode(sampleState())
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"version", "items", "events", "userId"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("payload missing %q", key)
		}
	}
	for _, key := range []string{"templates", "loading", "error"} {
		if _, ok := raw[key]; ok {
			t.Errorf("payload must not contain %q", key)
		}
	}
}

func TestEncodeEmptyUserIDIsNull(t *testing.T) {
	data, err := Encode(store.Empty())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"userId":null`)) {
		t.Errorf("expected null userId, got %s", data)
	}
}

func TestRoundTrip(t *testing.T) {
	orig := sampleState()

	data, err := Encode(orig)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !got.Events[0].Date.Equal(orig.Events[0].Date) {
		t.Errorf("event date = %v, want %v", got.Events[0].Date, orig.Events[0].Date)
	}
	if !got.Events[0].Equipment[0].PickupDate.Equal(orig.Events[0].Equipment[0].PickupDate) {
		t.Errorf("pickup date = %v, want %v", got.Events[0].Equipment[0].PickupDate, orig.Events[0].Equipment[0].PickupDate)
	}
	if got.UserID != orig.UserID {
		t.Errorf("userId = %q, want %q", got.UserID, orig.UserID)
	}
	if len(got.Templates) != 0 || got.Loading || got.Error != "" {
		t.Errorf("transient fields restored: %+v", got)
	}

	again, err := Encode(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Errorf("re-encoded payload differs:\n%s\n%s", data, again)
	}
}

func TestDecodeAcceptsBrowserDates(t *testing.T) {
	payload := `{"items":[],"events":[{"id":"1","name":"Gig","date":"2024-01-01T18:00:00.000Z","type":"concert","checklist":[]}],"userId":null}`

	st, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	if !st.Events[0].Date.Equal(want) {
		t.Errorf("date = %v, want %v", st.Events[0].Date, want)
	}
	if st.UserID != "" {
		t.Errorf("expected empty userId, got %q", st.UserID)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{{{"},
		{"wrong shape", `{"items":"nope"}`},
		{"bad date", `{"events":[{"id":"1","date":"yesterday"}]}`},
		{"future version", `{"version":2,"items":[],"events":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.payload)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	backend := NewSQLiteBackend(db.NewTestDB(t))

	data, err := backend.Load(ctx, Key)
	if err != nil || data != nil {
		t.Fatalf("expected (nil, nil) for missing key, got (%q, %v)", data, err)
	}

	for _, v := range []string{"first", "second"} {
		if err := backend.Save(ctx, Key, []byte(v)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	data, err = backend.Load(ctx, Key)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("expected second, got %q", data)
	}
}

func TestSQLiteBackendSecret(t *testing.T) {
	ctx := context.Background()
	backend := NewSQLiteBackend(db.NewTestDB(t))

	secret1, err := backend.Secret(ctx, "jwt-secret")
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	secret2, err := backend.Secret(ctx, "jwt-secret")
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("absent", func(t *testing.T) {
		st := Restore(ctx, NewSQLiteBackend(db.NewTestDB(t)))
		if len(st.Items) != 0 || len(st.Events) != 0 || st.Items == nil {
			t.Errorf("expected empty state, got %+v", st)
		}
	})

	t.Run("saved", func(t *testing.T) {
		backend := NewSQLiteBackend(db.NewTestDB(t))
		data, _ := Encode(sampleState())
		if err := backend.Save(ctx, Key, data); err != nil {
			t.Fatal(err)
		}
		st := Restore(ctx, backend)
		if len(st.Items) != 2 || len(st.Events) != 1 || st.UserID != "user_2abc" {
			t.Errorf("unexpected restored state %+v", st)
		}
	})

	for _, payload := range []string{"not json", `{"items":5}`, `{"version":9}`} {
		t.Run("corrupt "+payload, func(t *testing.T) {
			backend := NewSQLiteBackend(db.NewTestDB(t))
			if err := backend.Save(ctx, Key, []byte(payload)); err != nil {
				t.Fatal(err)
			}
			st := Restore(ctx, backend)
			if st.Items == nil || st.Events == nil || len(st.Items)+len(st.Events) != 0 {
				t.Errorf("expected empty state, got %+v", st)
			}
		})
	}

	t.Run("load error", func(t *testing.T) {
		database, mock, err := sqlmock.New()
		if err != nil {
			t.Fatal(err)
		}
		defer database.Close()
		mock.ExpectQuery("SELECT value FROM kv").WithArgs(Key).WillReturnError(errors.New("disk I/O error"))

		st := Restore(ctx, NewSQLiteBackend(database))
		if len(st.Items)+len(st.Events) != 0 {
			t.Errorf("expected empty state, got %+v", st)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

// recordingBackend remembers every saved payload.
type recordingBackend struct {
	saves [][]byte
	err   error
}

func (b *recordingBackend) Load(context.Context, string) ([]byte, error) {
	if len(b.saves) == 0 {
		return nil, nil
	}
	return b.saves[len(b.saves)-1], nil
}

func (b *recordingBackend) Save(_ context.Context, _ string, data []byte) error {
	if b.err != nil {
		return b.err
	}
	b.saves = append(b.saves, data)
	return nil
}

func TestSaverWritesEveryMutationWithoutInterval(t *testing.T) {
	backend := &recordingBackend{}
	saver := NewSaver(backend, 0)
	s := store.New(store.Empty(), store.WithHook(saver.Hook))

	s.AddItem(model.Item{Name: "Mic"})
	s.AddItem(model.Item{Name: "Stand"})
	s.AddEvent(model.Event{Name: "Gig"})

	if len(backend.saves) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(backend.saves))
	}
	st, err := Decode(backend.saves[2])
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Items) != 2 || len(st.Events) != 1 {
		t.Errorf("last write has wrong state %+v", st)
	}
}

func TestSaverSkipsUnchangedPayload(t *testing.T) {
	backend := &recordingBackend{}
	m := metrics.New()
	saver := NewSaver(backend, 0, WithMetrics(m))
	s := store.New(store.Empty(), store.WithHook(saver.Hook))

	s.AddItem(model.Item{Name: "Mic"})
	// Transient fields are not persisted, so these leave the payload as is.
	s.SetLoading(true)
	s.SetError("oops")

	if len(backend.saves) != 1 {
		t.Errorf("expected 1 write, got %d", len(backend.saves))
	}
	if got := testutil.ToFloat64(m.WritesSkipped); got != 2 {
		t.Errorf("expected 2 skipped writes, got %v", got)
	}
	if got := testutil.ToFloat64(m.Writes); got != 1 {
		t.Errorf("expected 1 counted write, got %v", got)
	}
}

func TestSaverCoalescesWithinInterval(t *testing.T) {
	backend := &recordingBackend{}
	saver := NewSaver(backend, time.Hour)
	s := store.New(store.Empty(), store.WithHook(saver.Hook))

	for i := 0; i < 10; i++ {
		s.AddItem(model.Item{Name: "Cable"})
	}
	if len(backend.saves) != 0 {
		t.Fatalf("expected no writes before flush, got %d", len(backend.saves))
	}

	if err := saver.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(backend.saves) != 1 {
		t.Fatalf("expected 1 write after flush, got %d", len(backend.saves))
	}
	st, _ := Decode(backend.saves[0])
	if len(st.Items) != 10 {
		t.Errorf("expected latest state with 10 items, got %d", len(st.Items))
	}

	if err := saver.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(backend.saves) != 1 {
		t.Errorf("flush without pending state wrote again")
	}
}

func TestSaverTimerFires(t *testing.T) {
	done := make(chan struct{})
	backend := &signalBackend{done: done}
	saver := NewSaver(backend, 10*time.Millisecond)

	saver.Notify(store.Empty())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced write never happened")
	}
}

type signalBackend struct {
	done chan struct{}
}

func (b *signalBackend) Load(context.Context, string) ([]byte, error) { return nil, nil }

func (b *signalBackend) Save(context.Context, string, []byte) error {
	close(b.done)
	return nil
}

func TestSaverCloseFlushesAndGoesSynchronous(t *testing.T) {
	backend := &recordingBackend{}
	saver := NewSaver(backend, time.Hour)
	s := store.New(store.Empty(), store.WithHook(saver.Hook))

	s.AddItem(model.Item{Name: "Mic"})
	if err := saver.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(backend.saves) != 1 {
		t.Fatalf("expected close to flush, got %d writes", len(backend.saves))
	}

	s.AddItem(model.Item{Name: "Stand"})
	if len(backend.saves) != 2 {
		t.Errorf("expected synchronous write after close, got %d writes", len(backend.saves))
	}
}

func TestSaverFailureIsRetriedOnNextFlush(t *testing.T) {
	backend := &recordingBackend{err: errors.New("disk full")}
	m := metrics.New()
	saver := NewSaver(backend, time.Hour, WithMetrics(m))

	saver.Notify(sampleState())
	err := saver.Flush(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected disk full error, got %v", err)
	}
	if got := testutil.ToFloat64(m.WriteFailures); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}

	backend.err = nil
	if err := saver.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(backend.saves) != 1 {
		t.Errorf("expected retried write, got %d", len(backend.saves))
	}
}

func TestSaverSQLiteFailureDoesNotReachStore(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()
	mock.ExpectExec("INSERT INTO kv").WillReturnError(errors.New("database is locked"))

	m := metrics.New()
	saver := NewSaver(NewSQLiteBackend(database), 0, WithMetrics(m))
	s := store.New(store.Empty(), store.WithHook(saver.Hook))

	item := s.AddItem(model.Item{Name: "Mic"})

	if _, ok := s.Item(item.ID); !ok {
		t.Error("mutation lost after failed save")
	}
	if got := testutil.ToFloat64(m.WriteFailures); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestImages(t *testing.T) {
	ctx := context.Background()
	images := NewImages(db.NewTestDB(t))

	if _, err := images.Get(ctx, "m1"); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}

	img := Image{Data: []byte{0xff, 0xd8, 0x01}, MIME: "image/jpeg", ETag: `"abc"`}
	if err := images.Put(ctx, "e1", "m1", img); err != nil {
		t.Fatal(err)
	}
	if err := images.Put(ctx, "e1", "m2", img); err != nil {
		t.Fatal(err)
	}
	img.ETag = `"def"`
	if err := images.Put(ctx, "e1", "m1", img); err != nil {
		t.Fatal(err)
	}

	got, err := images.Get(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ETag != `"def"` || got.MIME != "image/jpeg" || !bytes.Equal(got.Data, img.Data) {
		t.Errorf("unexpected image %+v", got)
	}

	if err := images.Delete(ctx, "m1"); err != nil {
		t.Fatal(err)
	}
	if _, err := images.Get(ctx, "m1"); !errors.Is(err, ErrNoImage) {
		t.Errorf("expected m1 gone, got %v", err)
	}

	if err := images.DeleteEvent(ctx, "e1"); err != nil {
		t.Fatal(err)
	}
	if _, err := images.Get(ctx, "m2"); !errors.Is(err, ErrNoImage) {
		t.Errorf("expected m2 gone with its event, got %v", err)
	}
}
