package mongostore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/smartplace/idrole/pkg/paper"
)

// reader implements paper.Reader. A session bound to ctx by
// mongo.NewSessionContext is picked up by every query.
type reader struct {
	db *mongo.Database
}

// GetIdentity returns the identity or paper.ErrIdentityNotFound.
func (r reader) GetIdentity(ctx context.Context, identityID uuid.UUID) (*paper.Identity, error) {
	var doc identityDoc
	err := r.db.Collection(identitiesCollection).FindOne(ctx, bson.D{{Key: "_id", Value: identityID.String()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, paper.ErrIdentityNotFound
		}
		return nil, errors.Join(paper.ErrStorage, err)
	}
	identity, err := doc.toIdentity()
	if err != nil {
		return nil, errors.Join(paper.ErrStorage, err)
	}
	return identity, nil
}

// GetPapersForIdentity returns every paper of the identity ordered by creation time.
func (r reader) GetPapersForIdentity(ctx context.Context, identityID uuid.UUID) ([]paper.Paper, error) {
	if err := r.requireIdentity(ctx, identityID); err != nil {
		return nil, err
	}

	var docs []paperDoc
	if err := r.find(ctx, papersCollection, "identity_id", identityID, &docs); err != nil {
		return nil, err
	}

	papers := make([]paper.Paper, 0, len(docs))
	for _, d := range docs {
		p, err := d.toPaper()
		if err != nil {
			return nil, errors.Join(paper.ErrStorage, err)
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// GetBusinessRegistrationsForIdentity returns the businesses the identity owns.
func (r reader) GetBusinessRegistrationsForIdentity(ctx context.Context, identityID uuid.UUID) ([]paper.BusinessRegistration, error) {
	if err := r.requireIdentity(ctx, identityID); err != nil {
		return nil, err
	}

	var docs []businessDoc
	if err := r.find(ctx, businessesCollection, "owner_id", identityID, &docs); err != nil {
		return nil, err
	}

	regs := make([]paper.BusinessRegistration, 0, len(docs))
	for _, d := range docs {
		reg, err := d.toBusiness()
		if err != nil {
			return nil, errors.Join(paper.ErrStorage, err)
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

func (r reader) find(ctx context.Context, collection, field string, id uuid.UUID, out any) error {
	cursor, err := r.db.Collection(collection).Find(ctx,
		bson.D{{Key: field, Value: id.String()}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	return nil
}

func (r reader) requireIdentity(ctx context.Context, identityID uuid.UUID) error {
	n, err := r.db.Collection(identitiesCollection).CountDocuments(ctx,
		bson.D{{Key: "_id", Value: identityID.String()}},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	if n == 0 {
		return paper.ErrIdentityNotFound
	}
	return nil
}
