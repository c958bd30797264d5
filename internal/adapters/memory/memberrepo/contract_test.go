package memberrepo

import (
	"testing"

	"github.com/tripcrew/tripcrew-api/internal/adapters/contracttest"
	memtriprepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/userrepo"
	memberrepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/memberrepo"
	triprepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/triprepo"
	userrepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

func TestContract_MemberRepo(t *testing.T) {
	contracttest.RunMemberRepo(t,
		func(t *testing.T) (userrepoport.Repository, func()) {
			t.Helper()
			return memuserrepo.NewRepo(), nil
		},
		func(t *testing.T) (triprepoport.Repository, func()) {
			t.Helper()
			return memtriprepo.NewRepo(), nil
		},
		func(t *testing.T) (memberrepoport.Repository, func()) {
			t.Helper()
			return NewRepo(), nil
		},
	)
}
