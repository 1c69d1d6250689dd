package service

import (
	"testing"

	"github.com/propertyhub/propertyhub/entity"
)

func TestOwnerOfNilAccountFallsBack(t *testing.T) {
	owner := OwnerOf(nil)
	if owner.Resolved() {
		t.Fatal("nil account must not resolve")
	}
	if got := owner.Contact(); got != DefaultContact {
		t.Errorf("contact = %+v, want platform default", got)
	}
}

func TestOwnerOfIncompleteAccountFallsBack(t *testing.T) {
	for _, account := range []*entity.User{
		{Name: "", Email: "x@y.test"},
		{Name: "X", Email: ""},
	} {
		if OwnerOf(account).Resolved() {
			t.Errorf("account %+v must not resolve", account)
		}
	}
}

func TestOwnerOfResolvedAccount(t *testing.T) {
	account := &entity.User{
		Name:  "Acme Estates",
		Email: "info@acme.test",
		Phone: "+92 300 0000000",
		Role:  entity.RoleAgency,
	}
	owner := OwnerOf(account)
	if !owner.Resolved() {
		t.Fatal("complete account must resolve")
	}
	contact := owner.Contact()
	if contact.Name != "Acme Estates" || contact.Email != "info@acme.test" || contact.Role != entity.RoleAgency {
		t.Errorf("contact = %+v", contact)
	}
}
