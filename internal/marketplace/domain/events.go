package domain

const (
	SubjectAccountRegistered = "account.registered"
	SubjectOfferPublished    = "offer.published"
	SubjectOfferUpdated      = "offer.updated"
	SubjectOfferRemoved      = "offer.removed"
)

type AccountRegisteredEvent struct {
	AccountID  string `json:"account_id"`
	Username   string `json:"username"`
	Newsletter bool   `json:"newsletter"`
}

type OfferEvent struct {
	OfferID string `json:"offer_id"`
	OwnerID string `json:"owner_id"`
	Title   string `json:"title,omitempty"`
	Price   int    `json:"price,omitempty"`
	Images  int    `json:"images,omitempty"`
}
