package service

import "github.com/propertyhub/propertyhub/entity"

// Contact is the display record shown next to a listing.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// DefaultContact is rendered whenever a listing's owning account cannot be
// resolved, e.g. the account was deleted after the listing was created.
var DefaultContact = Contact{
	Name:  "PropertyHub Team",
	Email: "contact@propertyhub.example.com",
	Phone: "+1 000 000 0000",
	Role:  entity.RoleAdmin,
}

// Owner is either a resolved account or unknown. The decision is made once,
// at construction; rendering never inspects individual fields again.
type Owner struct {
	account *entity.User
}

// OwnerOf classifies an owning-account reference. A nil account or one
// missing its required display fields is Unknown.
func OwnerOf(account *entity.User) Owner {
	if account == nil || account.Name == "" || account.Email == "" {
		return Owner{}
	}
	return Owner{account: account}
}

func (o Owner) Resolved() bool {
	return o.account != nil
}

func (o Owner) Contact() Contact {
	if !o.Resolved() {
		return DefaultContact
	}
	return Contact{
		Name:  o.account.Name,
		Email: o.account.Email,
		Phone: o.account.Phone,
		Role:  o.account.Role,
	}
}
