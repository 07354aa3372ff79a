package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/SaloAlex/clasharena/internal/domain/registration"
)

func TestIncrementTotalsUnknownRegistration(t *testing.T) {
	repo := NewRegistrationRepository()
	if err := repo.IncrementTotals(context.Background(), "ghost", 10, 1); err == nil {
		t.Fatal("expected an error for an unknown registration")
	}
}

func TestIncrementTotalsKeepsDeltasUnderConcurrency(t *testing.T) {
	repo := NewRegistrationRepository()
	repo.Put(registration.Registration{ID: "r-1", TournamentID: "t-1"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.IncrementTotals(context.Background(), "r-1", 10, 1)
		}()
	}
	wg.Wait()

	reg, _, _ := repo.Get(context.Background(), "r-1")
	if reg.TotalPoints != 500 || reg.TotalMatches != 50 {
		t.Fatalf("totals = (%d, %d), want (500, 50)", reg.TotalPoints, reg.TotalMatches)
	}
}
