package triprepo

import (
	"testing"

	"github.com/tripcrew/tripcrew-api/internal/adapters/contracttest"
	memuserrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/userrepo"
	triprepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/triprepo"
	userrepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

func TestContract_TripRepo(t *testing.T) {
	contracttest.RunTripRepo(t,
		func(t *testing.T) (userrepoport.Repository, func()) {
			t.Helper()
			return memuserrepo.NewRepo(), nil
		},
		func(t *testing.T) (triprepoport.Repository, func()) {
			t.Helper()
			return NewRepo(), nil
		},
	)
}
