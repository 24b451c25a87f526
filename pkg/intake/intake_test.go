package intake_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/lead"
)

func sampleLead(id string) lead.Lead {
	return lead.Lead{
		ID:            id,
		Name:          "Ana Lopez",
		Phone:         "55 1234 5678",
		Email:         "ana@correo.com",
		AgeBracket:    "26-35",
		RetirementAge: "65",
		IncomeBracket: "30000-50000",
		TaxInterest:   "si",
		Locale:        "es",
		CreatedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSimulated_ZeroDelayAcceptsImmediately(t *testing.T) {
	sim := intake.NewSimulated(0)
	if err := sim.Submit(context.Background(), sampleLead("a")); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestSimulated_NegativeDelayUsesDefault(t *testing.T) {
	if got := intake.NewSimulated(-1).Delay; got != intake.DefaultDelay {
		t.Fatalf("expected default delay, got %s", got)
	}
}

func TestSimulated_HonoursCancellation(t *testing.T) {
	sim := intake.NewSimulated(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sim.Submit(ctx, sampleLead("a")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStore_SaveListGet(t *testing.T) {
	store, err := intake.Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	for _, id := range []string{"first", "second", "third"} {
		if err := store.Submit(context.Background(), sampleLead(id)); err != nil {
			t.Fatalf("submit %s: %v", id, err)
		}
	}

	leads, err := store.List(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ids []string
	for _, stored := range leads {
		ids = append(ids, stored.ID)
	}
	if diff := cmp.Diff([]string{"third", "second", "first"}, ids); diff != "" {
		t.Fatalf("list order mismatch (-want +got):\n%s", diff)
	}

	limited, err := store.List(2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(limited))
	}

	got, err := store.Get("second")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := intake.StoredLead{Lead: sampleLead("second"), Seq: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stored lead mismatch (-want +got):\n%s", diff)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 leads, got %d", count)
	}
}

func TestStore_ResaveKeepsSequence(t *testing.T) {
	store, err := intake.Open(intake.MemoryPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	first, err := store.Save(sampleLead("a"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Save(sampleLead("b")); err != nil {
		t.Fatalf("save: %v", err)
	}

	updated := sampleLead("a")
	updated.Name = "Ana María"
	again, err := store.Save(updated)
	if err != nil {
		t.Fatalf("resave: %v", err)
	}
	if again.Seq != first.Seq {
		t.Fatalf("expected seq %d kept, got %d", first.Seq, again.Seq)
	}
	if count, _ := store.Count(); count != 2 {
		t.Fatalf("expected 2 leads, got %d", count)
	}
}

func TestStore_GetUnknown(t *testing.T) {
	store, err := intake.Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, err := store.Get("missing"); !errors.Is(err, intake.ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestStore_RejectsEmptyID(t *testing.T) {
	store, err := intake.Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, err := store.Save(lead.Lead{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.db")

	store, err := intake.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Save(sampleLead("kept")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := intake.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.Get("kept"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	next, err := reopened.Save(sampleLead("next"))
	if err != nil {
		t.Fatalf("save after reopen: %v", err)
	}
	if next.Seq != 2 {
		t.Fatalf("expected sequence to continue at 2, got %d", next.Seq)
	}
}

func TestRemote_AcceptsLead(t *testing.T) {
	var received lead.Lead
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("expected api key header, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	remote, err := intake.NewRemote(server.URL+"/leads", intake.WithRemoteHeader("X-Api-Key", "secret"))
	if err != nil {
		t.Fatalf("new remote: %v", err)
	}
	if err := remote.Submit(context.Background(), sampleLead("remote-1")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(sampleLead("remote-1"), received); diff != "" {
		t.Fatalf("forwarded lead mismatch (-want +got):\n%s", diff)
	}
}

func TestRemote_ErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"rejected","errors":{"/body/email":["duplicate email"]}}`))
	}))
	defer server.Close()

	remote, err := intake.NewRemote(server.URL)
	if err != nil {
		t.Fatalf("new remote: %v", err)
	}
	err = remote.Submit(context.Background(), sampleLead("remote-2"))

	var remoteErr *intake.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %T %v", err, err)
	}
	want := &intake.RemoteError{
		Status:  http.StatusUnprocessableEntity,
		Message: "rejected",
		Fields:  map[string][]string{"/body/email": {"duplicate email"}},
	}
	if diff := cmp.Diff(want, remoteErr); diff != "" {
		t.Fatalf("remote error mismatch (-want +got):\n%s", diff)
	}
}

func TestRemote_RequiresURL(t *testing.T) {
	if _, err := intake.NewRemote("  "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	sim, err := intake.New(intake.Config{Delay: 0})
	if err != nil {
		t.Fatalf("new simulated: %v", err)
	}
	if _, ok := sim.Intake.(*intake.Simulated); !ok {
		t.Fatalf("expected simulated intake, got %T", sim.Intake)
	}

	stored, err := intake.New(intake.Config{Mode: intake.ModeStore})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer stored.Close()
	if stored.Store == nil {
		t.Fatalf("expected store handle")
	}
	if err := stored.Intake.Submit(context.Background(), sampleLead("via-backend")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := stored.Store.Get("via-backend"); err != nil {
		t.Fatalf("expected lead stored: %v", err)
	}

	if _, err := intake.New(intake.Config{Mode: "carrier-pigeon"}); err == nil {
		t.Fatalf("expected unknown mode error")
	}
}

func TestChain_StopsAtFirstError(t *testing.T) {
	calls := 0
	failing := lead.IntakeFunc(func(context.Context, lead.Lead) error {
		calls++
		return errors.New("boom")
	})
	counting := lead.IntakeFunc(func(context.Context, lead.Lead) error {
		calls++
		return nil
	})

	err := intake.Chain(counting, failing, counting).Submit(context.Background(), sampleLead("x"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}
