package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func TestUserEmailIndexIgnoresCase(t *testing.T) {
	idx := userEmailIndex()
	assert.Equal(t, bson.D{{Key: "email", Value: 1}}, idx.Keys)

	var opts options.IndexOptions
	for _, set := range idx.Options.Opts {
		require.NoError(t, set(&opts))
	}

	require.NotNil(t, opts.Unique)
	assert.True(t, *opts.Unique)
	require.NotNil(t, opts.Collation)
	assert.Equal(t, "en", opts.Collation.Locale)
	assert.Equal(t, 2, opts.Collation.Strength)
}
