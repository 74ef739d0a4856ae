package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 500
	MinPrice             = 1
	MaxPrice             = 100000
)

// Attribute labels, in the order they are stored and displayed.
const (
	AttrCondition = "condition"
	AttrLocation  = "location"
	AttrBrand     = "brand"
	AttrSize      = "size"
	AttrColor     = "color"
)

// Image is a file hosted by the remote image store.
type Image struct {
	RemoteID string `json:"remoteId"`
	URL      string `json:"url"`
}

// ImageFile is an image not yet uploaded.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type Account struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	PasswordSalt string
	Token        string
	Avatar       *Image
	Newsletter   bool
	CreatedAt    time.Time
}

// PublicProfile is the only part of an Account that leaves the service.
type PublicProfile struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Avatar   *Image `json:"avatar,omitempty"`
}

func (a *Account) Profile() PublicProfile {
	return PublicProfile{ID: a.ID, Username: a.Username, Avatar: a.Avatar}
}

// Attribute is one labeled fact about an offer. It serializes as a
// single-key object, e.g. {"condition":"Good"}.
type Attribute struct {
	Label string
	Value string
}

func (a Attribute) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	key, err := json.Marshal(a.Label)
	if err != nil {
		return nil, err
	}
	val, err := json.Marshal(a.Value)
	if err != nil {
		return nil, err
	}
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(val)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *Attribute) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for k, v := range m {
		a.Label, a.Value = k, v
	}
	return nil
}

type Offer struct {
	ID          string
	Title       string
	Description string
	Price       int
	Attributes  []Attribute
	Images      []Image
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OfferView is an offer as served to clients: owner reduced to public fields.
type OfferView struct {
	ID          string         `json:"_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       int            `json:"price"`
	Attributes  []Attribute    `json:"attributes"`
	Images      []Image        `json:"images"`
	Owner       *PublicProfile `json:"owner,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewOfferView(o *Offer, owner *PublicProfile) *OfferView {
	return &OfferView{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Price:       o.Price,
		Attributes:  o.Attributes,
		Images:      o.Images,
		Owner:       owner,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// OfferInput holds the editable fields of an offer as submitted by a client.
// Price is kept as text so that absence and malformed values can be told apart.
type OfferInput struct {
	Title       string
	Description string
	Price       string
	Condition   string
	Location    string
	Brand       string
	Size        string
	Color       string
}

type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// ParseSortOrder maps unrecognized values to SortNone.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOrder(s)
	default:
		return SortNone
	}
}

// OfferQuery is a resolved catalog query, ready for a repository.
type OfferQuery struct {
	TitleContains string
	PriceMin      int
	PriceMax      int
	Sort          SortOrder
	Skip          int64
	Limit         int64
}

func OfferFolder(offerID string) string {
	return "offers/" + offerID
}

func AccountFolder(accountID string) string {
	return "users/" + accountID
}
