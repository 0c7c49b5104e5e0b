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

const (
	identitiesCollection = "identities"
	businessesCollection = "business_registrations"
	papersCollection     = "papers"
)

// Store implements paper.Store on MongoDB. It needs a replica set for
// ReadSnapshot and InsertBusinessRegistration.
type Store struct {
	db *mongo.Database
	reader
}

var _ paper.Store = (*Store)(nil)

// New creates a Store on db. Call EnsureIndexes once before use.
func New(db *mongo.Database) *Store {
	return &Store{db: db, reader: reader{db: db}}
}

// EnsureIndexes creates the indexes the read paths rely on. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(papersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "identity_id", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	_, err = s.db.Collection(businessesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	return nil
}

// InsertIdentity stores a new identity.
func (s *Store) InsertIdentity(ctx context.Context, identity *paper.Identity) error {
	_, err := s.db.Collection(identitiesCollection).InsertOne(ctx, fromIdentity(identity))
	return mapWriteError(err)
}

// InsertPaper stores a new paper. The owner is checked first; MongoDB has no
// foreign keys.
func (s *Store) InsertPaper(ctx context.Context, p *paper.Paper) error {
	if err := s.requireIdentity(ctx, p.IdentityID); err != nil {
		return err
	}
	_, err := s.db.Collection(papersCollection).InsertOne(ctx, fromPaper(p))
	return mapWriteError(err)
}

// InsertBusinessRegistration stores the business and its registration paper
// in one transaction.
func (s *Store) InsertBusinessRegistration(ctx context.Context, reg *paper.BusinessRegistration, p *paper.Paper) error {
	sess, err := s.db.Client().StartSession()
	if err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		if err := s.requireIdentity(ctx, reg.OwnerID); err != nil {
			return nil, err
		}
		if _, err := s.db.Collection(businessesCollection).InsertOne(ctx, fromBusiness(reg)); err != nil {
			return nil, mapWriteError(err)
		}
		if _, err := s.db.Collection(papersCollection).InsertOne(ctx, fromPaper(p)); err != nil {
			return nil, mapWriteError(err)
		}
		return nil, nil
	})
	if err != nil && !isMapped(err) {
		return errors.Join(paper.ErrStorage, err)
	}
	return err
}

// DeactivatePaper clears the active flag of a paper owned by the identity.
func (s *Store) DeactivatePaper(ctx context.Context, identityID, paperID uuid.UUID) error {
	res, err := s.db.Collection(papersCollection).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: paperID.String()}, {Key: "identity_id", Value: identityID.String()}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "active", Value: false}}}},
	)
	if err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	if res.MatchedCount == 0 {
		return paper.ErrPaperNotFound
	}
	return nil
}

// DeactivateIdentity clears the active flag of an identity.
func (s *Store) DeactivateIdentity(ctx context.Context, identityID uuid.UUID) error {
	res, err := s.db.Collection(identitiesCollection).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: identityID.String()}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "active", Value: false}}}},
	)
	if err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	if res.MatchedCount == 0 {
		return paper.ErrIdentityNotFound
	}
	return nil
}

// ReadSnapshot runs fn in a snapshot session: every read fn makes sees the
// majority-committed state at the time of the first read.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(ctx context.Context, r paper.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sess, err := s.db.Client().StartSession(options.Session().SetSnapshot(true))
	if err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	defer sess.EndSession(ctx)

	return fn(mongo.NewSessionContext(ctx, sess), s.reader)
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return paper.ErrDuplicate
	default:
		return errors.Join(paper.ErrStorage, err)
	}
}

func isMapped(err error) bool {
	return errors.Is(err, paper.ErrStorage) ||
		errors.Is(err, paper.ErrDuplicate) ||
		errors.Is(err, paper.ErrIdentityNotFound)
}
