package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuriTheCoder/AuditCenter-API/internal/audit"
)

func TestMemoryStoreAssignsIdentityAndKeepsOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, err := s.Save(ctx, audit.Event{SystemName: "sales", UserEmail: "alice@x.com", Action: "SALE", Metadata: "{}"})
	require.NoError(t, err)
	second, err := s.Save(ctx, audit.Event{SystemName: "billing", UserEmail: "bob@x.com", Action: "INVOICE", Metadata: "{}"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.Timestamp.IsZero())

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestMemoryStoreListByUserEmailExactMatch(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Save(ctx, audit.Event{SystemName: "sales", UserEmail: "alice@x.com", Action: "A", Metadata: "{}"})
	require.NoError(t, err)
	_, err = s.Save(ctx, audit.Event{SystemName: "sales", UserEmail: "Alice@x.com", Action: "B", Metadata: "{}"})
	require.NoError(t, err)
	_, err = s.Save(ctx, audit.Event{SystemName: "sales", UserEmail: "alice@x.com", Action: "C", Metadata: "{}"})
	require.NoError(t, err)

	events, err := s.ListByUserEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Len(t, events, 2, "matching is case-sensitive as stored")
	assert.Equal(t, "A", events[0].Action)
	assert.Equal(t, "C", events[1].Action)

	none, err := s.ListByUserEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}
