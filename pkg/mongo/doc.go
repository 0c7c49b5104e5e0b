// Package mongo connects to MongoDB with the official v2 driver.
//
// Config is populated from MONGODB_* environment variables. Connect applies
// the pool settings and pings until the server answers:
//
//	db, err := mongo.ConnectDatabase(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
// The paper store built on it needs a replica set: snapshot reads and the
// business registration transaction are not available on a standalone server.
package mongo
