package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/smartplace/idrole/pkg/mongo"
)

func TestHealthcheck_Unreachable(t *testing.T) {
	t.Parallel()

	// the driver connects lazily, so only the ping fails
	client, err := driver.Connect(options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200 * time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(context.Background()) }()

	err = mongo.Healthcheck(client)(context.Background())
	assert.ErrorIs(t, err, mongo.ErrHealthcheckFailed)
}
