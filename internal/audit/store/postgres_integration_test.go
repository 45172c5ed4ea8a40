//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/YuriTheCoder/AuditCenter-API/internal/audit"
	"github.com/YuriTheCoder/AuditCenter-API/internal/audit/store"
	"github.com/YuriTheCoder/AuditCenter-API/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *PostgresStoreSuite) save(userEmail, action string) audit.Event {
	saved, err := s.store.Save(context.Background(), audit.Event{
		SystemName: "crm",
		UserEmail:  userEmail,
		Action:     action,
		Metadata:   `{"k":"v"}`,
	})
	s.Require().NoError(err)
	return saved
}

func (s *PostgresStoreSuite) TestSaveAssignsIdentity() {
	saved := s.save("alice@x.com", "SALE_CLOSED")

	s.NotEmpty(saved.ID)
	s.False(saved.Timestamp.IsZero())

	all, err := s.store.ListAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(saved.ID, all[0].ID)
	s.Equal(`{"k":"v"}`, all[0].Metadata)
}

func (s *PostgresStoreSuite) TestListAllKeepsInsertionOrder() {
	first := s.save("alice@x.com", "A1")
	second := s.save("bob@x.com", "B1")
	third := s.save("alice@x.com", "A2")

	all, err := s.store.ListAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(first.ID, all[0].ID)
	s.Equal(second.ID, all[1].ID)
	s.Equal(third.ID, all[2].ID)
}

func (s *PostgresStoreSuite) TestListByUserEmailIsExactMatch() {
	s.save("alice@x.com", "A1")
	s.save("Alice@x.com", "A2")
	s.save("bob@x.com", "B1")

	events, err := s.store.ListByUserEmail(context.Background(), "alice@x.com")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("A1", events[0].Action)
}

func (s *PostgresStoreSuite) TestConcurrentSaves() {
	const goroutines = 50
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.save("alice@x.com", "CONCURRENT")
		}()
	}
	wg.Wait()

	all, err := s.store.ListAll(context.Background())
	s.Require().NoError(err)
	s.Len(all, goroutines)

	ids := make(map[string]bool, len(all))
	for _, e := range all {
		ids[e.ID.String()] = true
	}
	s.Len(ids, goroutines, "every event gets a distinct id")
}
