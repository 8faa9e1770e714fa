//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/platform/postgres"
	"github.com/phrazzld/blogrelay/internal/storage"
	"github.com/phrazzld/blogrelay/internal/store"
	"github.com/phrazzld/blogrelay/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStoreIntegration(t *testing.T) {
	db := testdb.OpenTestDB(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sqlx.Tx) {
		s := postgres.NewArtifactStore(tx, nil)
		ctx := context.Background()
		base := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

		var keys []string
		for i := 0; i < 3; i++ {
			created := base.Add(time.Duration(i) * time.Minute)
			key := storage.ObjectKey(fmt.Sprintf("topic-%d", i), created)
			keys = append(keys, key)
			a := domain.NewStoredArtifact(fmt.Sprintf("topic %d", i), "blogs", key,
				storage.PublicURL("blogs", "s3.amazonaws.com", key), created)
			require.NoError(t, s.Record(ctx, a))
		}

		got, err := s.GetByKey(ctx, keys[1])
		require.NoError(t, err)
		assert.Equal(t, "topic 1", got.Topic)
		assert.True(t, got.CreatedAt.Equal(base.Add(time.Minute)))

		_, err = s.GetByKey(ctx, "blog-output/missing.txt")
		assert.ErrorIs(t, err, store.ErrArtifactNotFound)

		recent, err := s.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, keys[2], recent[0].Key)
		assert.Equal(t, keys[1], recent[1].Key)
	})
}
