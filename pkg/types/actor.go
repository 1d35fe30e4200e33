package types

// ActorType identifies the kind of authenticated principal.
type ActorType string

const (
	ActorTypeAdmin     ActorType = "ADMIN"
	ActorTypeClinic    ActorType = "CLINIC"
	ActorTypeTherapist ActorType = "THERAPIST"
)

func (a ActorType) Valid() bool {
	switch a {
	case ActorTypeAdmin, ActorTypeClinic, ActorTypeTherapist:
		return true
	}
	return false
}

// OwnerType is the subset of actor types that may own tickets and
// subscriptions.
type OwnerType string

const (
	OwnerTypeClinic    OwnerType = "CLINIC"
	OwnerTypeTherapist OwnerType = "THERAPIST"
)

func (o OwnerType) Valid() bool {
	return o == OwnerTypeClinic || o == OwnerTypeTherapist
}

// Principal is the authenticated identity attached to each request by the
// auth middleware. Token issuance belongs to the identity provider; this
// service only trusts the extracted claims.
type Principal struct {
	ID    string    `json:"id"`
	Type  ActorType `json:"type"`
	Email string    `json:"email"`
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Type == ActorTypeAdmin
}

// Owner returns the principal as a ticket/subscription owner reference.
// Admins are not owners.
func (p *Principal) Owner() (OwnerType, bool) {
	switch p.Type {
	case ActorTypeClinic:
		return OwnerTypeClinic, true
	case ActorTypeTherapist:
		return OwnerTypeTherapist, true
	}
	return "", false
}
