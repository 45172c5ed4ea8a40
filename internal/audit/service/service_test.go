package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuriTheCoder/AuditCenter-API/internal/audit"
	"github.com/YuriTheCoder/AuditCenter-API/internal/audit/broker"
	"github.com/YuriTheCoder/AuditCenter-API/internal/audit/store"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/domain"
	dErrors "github.com/YuriTheCoder/AuditCenter-API/pkg/domain-errors"
)

func newService() (*Service, *broker.Broker) {
	b := broker.New(8)
	return New(store.NewMemoryStore(), b), b
}

func ingest(t *testing.T, svc *Service, userEmail, action string) audit.Event {
	t.Helper()
	saved, err := svc.Ingest(context.Background(), audit.Event{
		SystemName: "sales",
		UserEmail:  userEmail,
		Action:     action,
		Metadata:   "{}",
	})
	require.NoError(t, err)
	return saved
}

func TestIngestPersistsAndBroadcasts(t *testing.T) {
	svc, b := newService()
	l := b.Subscribe()
	defer b.Unsubscribe(l)

	saved := ingest(t, svc, "alice@x.com", "SALE_CLOSED")
	require.NotEmpty(t, saved.ID)
	require.False(t, saved.Timestamp.IsZero())

	select {
	case got := <-l.Events():
		// The listener sees the persisted event, identity included.
		assert.Equal(t, saved.ID, got.ID)
		assert.Equal(t, "SALE_CLOSED", got.Action)
	default:
		t.Fatal("expected the ingested event to be broadcast")
	}
}

type failingStore struct{}

func (failingStore) Save(context.Context, audit.Event) (audit.Event, error) {
	return audit.Event{}, errors.New("disk on fire")
}
func (failingStore) ListAll(context.Context) ([]audit.Event, error) { return nil, nil }
func (failingStore) ListByUserEmail(context.Context, string) ([]audit.Event, error) {
	return nil, nil
}

func TestIngestDoesNotBroadcastUnsavedEvents(t *testing.T) {
	b := broker.New(8)
	svc := New(failingStore{}, b)
	l := b.Subscribe()
	defer b.Unsubscribe(l)

	_, err := svc.Ingest(context.Background(), audit.Event{SystemName: "sales", UserEmail: "a@x.com", Action: "X"})
	require.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	select {
	case <-l.Events():
		t.Fatal("an event that failed to persist must never reach a listener")
	default:
	}
}

func TestListVisibility(t *testing.T) {
	svc, _ := newService()

	ingest(t, svc, "alice@x.com", "A1")
	ingest(t, svc, "bob@x.com", "B1")
	ingest(t, svc, "alice@x.com", "A2")

	alice := domain.Principal{Email: "alice@x.com", Role: domain.RoleAnalyst}
	bobOther := domain.Principal{Email: "carol@x.com", Role: domain.RoleAnalyst}
	admin := domain.Principal{Email: "root@x.com", Role: domain.RoleAdmin}

	aliceEvents, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, aliceEvents, 2)
	for _, e := range aliceEvents {
		assert.Equal(t, "alice@x.com", e.UserEmail)
	}

	carolEvents, err := svc.List(context.Background(), bobOther)
	require.NoError(t, err)
	assert.Empty(t, carolEvents)

	adminEvents, err := svc.List(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, adminEvents, 3, "admin sees the full system-wide set")

	// Admin visibility is a superset of any analyst's view.
	ids := make(map[string]bool)
	for _, e := range adminEvents {
		ids[e.ID.String()] = true
	}
	for _, e := range aliceEvents {
		assert.True(t, ids[e.ID.String()])
	}
}

func TestListReevaluatesEveryCall(t *testing.T) {
	svc, _ := newService()
	admin := domain.Principal{Email: "root@x.com", Role: domain.RoleAdmin}

	before, err := svc.List(context.Background(), admin)
	require.NoError(t, err)
	assert.Empty(t, before)

	ingest(t, svc, "alice@x.com", "A1")

	after, err := svc.List(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestListRequiresPrincipal(t *testing.T) {
	svc, _ := newService()

	_, err := svc.List(context.Background(), domain.Principal{})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
