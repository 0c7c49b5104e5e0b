package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartplace/idrole/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")
	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestIDAttrs(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name string
		attr slog.Attr
		key  string
	}{
		{name: "identity", attr: logger.IdentityID(id), key: "identity_id"},
		{name: "business", attr: logger.BusinessID(id), key: "business_id"},
		{name: "paper", attr: logger.PaperID(id), key: "paper_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, id, tt.attr.Value.Any())
		})
	}

	assert.True(t, logger.IdentityID(nil).Equal(slog.Attr{}))
	assert.True(t, logger.BusinessID(nil).Equal(slog.Attr{}))
	assert.True(t, logger.PaperID(nil).Equal(slog.Attr{}))
}

func TestRole(t *testing.T) {
	attr := logger.Role("owner")
	require.Equal(t, "role", attr.Key)
	assert.Equal(t, "owner", attr.Value.Any())
}

func TestPaperType(t *testing.T) {
	attr := logger.PaperType("employment_contract")
	require.Equal(t, "paper_type", attr.Key)
	assert.Equal(t, "employment_contract", attr.Value.String())
}
