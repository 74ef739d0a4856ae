package mongodb

import (
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type imageDocument struct {
	RemoteID string `bson:"remote_id"`
	URL      string `bson:"url"`
}

type profileDocument struct {
	Username string         `bson:"username"`
	Avatar   *imageDocument `bson:"avatar,omitempty"`
}

type accountDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Email      string             `bson:"email"`
	Account    profileDocument    `bson:"account"`
	Newsletter bool               `bson:"newsletter"`
	Token      string             `bson:"token"`
	Hash       string             `bson:"hash"`
	Salt       string             `bson:"salt"`
	CreatedAt  primitive.DateTime `bson:"created_at"`
}

type attributeDocument struct {
	Label string `bson:"label"`
	Value string `bson:"value"`
}

type offerDocument struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Title       string              `bson:"title"`
	Description string              `bson:"description"`
	Price       int                 `bson:"price"`
	Attributes  []attributeDocument `bson:"attributes"`
	Images      []imageDocument     `bson:"images"`
	OwnerID     primitive.ObjectID  `bson:"owner_id"`
	CreatedAt   primitive.DateTime  `bson:"created_at"`
	UpdatedAt   primitive.DateTime  `bson:"updated_at"`
}

func toImageDocument(img *domain.Image) *imageDocument {
	if img == nil {
		return nil
	}
	return &imageDocument{RemoteID: img.RemoteID, URL: img.URL}
}

func (d *imageDocument) toDomain() *domain.Image {
	if d == nil {
		return nil
	}
	return &domain.Image{RemoteID: d.RemoteID, URL: d.URL}
}

func fromDomainAccount(a *domain.Account) (*accountDocument, error) {
	doc := &accountDocument{
		Email: a.Email,
		Account: profileDocument{
			Username: a.Username,
			Avatar:   toImageDocument(a.Avatar),
		},
		Newsletter: a.Newsletter,
		Token:      a.Token,
		Hash:       a.PasswordHash,
		Salt:       a.PasswordSalt,
		CreatedAt:  primitive.NewDateTimeFromTime(a.CreatedAt),
	}
	if a.ID != "" {
		id, err := primitive.ObjectIDFromHex(a.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid account ID format: %w", err)
		}
		doc.ID = id
	}
	return doc, nil
}

func (d *accountDocument) toDomain() *domain.Account {
	return &domain.Account{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Username:     d.Account.Username,
		PasswordHash: d.Hash,
		PasswordSalt: d.Salt,
		Token:        d.Token,
		Avatar:       d.Account.Avatar.toDomain(),
		Newsletter:   d.Newsletter,
		CreatedAt:    d.CreatedAt.Time().UTC(),
	}
}

func fromDomainOffer(o *domain.Offer) (*offerDocument, error) {
	owner, err := primitive.ObjectIDFromHex(o.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID format: %w", err)
	}
	doc := &offerDocument{
		Title:       o.Title,
		Description: o.Description,
		Price:       o.Price,
		Attributes:  make([]attributeDocument, len(o.Attributes)),
		Images:      make([]imageDocument, len(o.Images)),
		OwnerID:     owner,
		CreatedAt:   primitive.NewDateTimeFromTime(o.CreatedAt),
		UpdatedAt:   primitive.NewDateTimeFromTime(o.UpdatedAt),
	}
	for i, a := range o.Attributes {
		doc.Attributes[i] = attributeDocument{Label: a.Label, Value: a.Value}
	}
	for i, img := range o.Images {
		doc.Images[i] = imageDocument{RemoteID: img.RemoteID, URL: img.URL}
	}
	if o.ID != "" {
		id, err := primitive.ObjectIDFromHex(o.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid offer ID format: %w", err)
		}
		doc.ID = id
	}
	return doc, nil
}

func (d *offerDocument) toDomain() *domain.Offer {
	o := &domain.Offer{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Attributes:  make([]domain.Attribute, len(d.Attributes)),
		Images:      make([]domain.Image, len(d.Images)),
		OwnerID:     d.OwnerID.Hex(),
		CreatedAt:   d.CreatedAt.Time().UTC(),
		UpdatedAt:   d.UpdatedAt.Time().UTC(),
	}
	for i, a := range d.Attributes {
		o.Attributes[i] = domain.Attribute{Label: a.Label, Value: a.Value}
	}
	for i, img := range d.Images {
		o.Images[i] = domain.Image{RemoteID: img.RemoteID, URL: img.URL}
	}
	return o
}
