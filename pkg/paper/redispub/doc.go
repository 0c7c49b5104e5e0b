// Package redispub publishes paper lifecycle events on a Redis channel.
//
// Publisher satisfies paper.Publisher, so it plugs straight into the paper
// service:
//
//	client, err := redis.Connect(ctx, redisCfg)
//	if err != nil {
//	    return err
//	}
//	svc := paper.NewService(store, paper.WithPublisher(redispub.New(client, redispub.Config{})))
//
// Events are JSON encoded paper.Event values and carry ids only. Subscribers
// use them to drop identity contexts they have cached; Subscribe is the
// reading side.
package redispub
