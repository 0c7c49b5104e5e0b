// Package mongostore implements paper.Store on MongoDB.
//
// Identities, business registrations and papers live in three collections
// with string ids. ReadSnapshot uses a snapshot session, and
// InsertBusinessRegistration writes the business and its paper in one
// transaction, so the server must run as a replica set (MongoDB 5.0 or newer):
//
//	db, err := mongo.ConnectDatabase(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	store := mongostore.New(db)
//	if err := store.EnsureIndexes(ctx); err != nil {
//	    return err
//	}
//	builder := identity.NewBuilder(store)
package mongostore
