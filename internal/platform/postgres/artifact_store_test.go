package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/platform/postgres"
	"github.com/phrazzld/blogrelay/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var artifactColumns = []string{"id", "topic", "object_key", "bucket", "url", "created_at"}

func newMockStore(t *testing.T) (*postgres.ArtifactStore, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = mockDB.Close()
	})

	db := sqlx.NewDb(mockDB, postgres.DriverName)
	return postgres.NewArtifactStore(db, nil), mock
}

func sampleArtifact() *domain.StoredArtifact {
	return domain.NewStoredArtifact(
		"cats & dogs!",
		"blogs",
		"blog-output/cats---dogs-_20241105_090703.txt",
		"https://blogs.s3.amazonaws.com/blog-output/cats---dogs-_20241105_090703.txt",
		time.Date(2024, time.November, 5, 9, 7, 3, 0, time.UTC),
	)
}

func TestArtifactStore_Record(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	artifact := sampleArtifact()

	mock.ExpectExec("INSERT INTO blog_artifacts").
		WithArgs(sqlmock.AnyArg(), artifact.Topic, artifact.Key, artifact.Bucket, artifact.URL, artifact.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Record(context.Background(), artifact))
}

func TestArtifactStore_RecordAssignsMissingID(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	artifact := sampleArtifact()
	artifact.ID = uuid.Nil

	mock.ExpectExec("INSERT INTO blog_artifacts").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Record(context.Background(), artifact))
	assert.NotEqual(t, uuid.Nil, artifact.ID)
}

func TestArtifactStore_RecordErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid artifact", func(t *testing.T) {
		t.Parallel()

		s, _ := newMockStore(t)
		err := s.Record(context.Background(), &domain.StoredArtifact{Topic: "x"})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("duplicate key", func(t *testing.T) {
		t.Parallel()

		s, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO blog_artifacts").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "blog_artifacts_object_key_key"})

		err := s.Record(context.Background(), sampleArtifact())
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("connection failure", func(t *testing.T) {
		t.Parallel()

		s, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO blog_artifacts").WillReturnError(sql.ErrConnDone)

		err := s.Record(context.Background(), sampleArtifact())
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrConnDone)

		var storeErr *store.StoreError
		assert.True(t, errors.As(err, &storeErr))
	})
}

func TestArtifactStore_GetByKey(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	want := sampleArtifact()

	mock.ExpectQuery("SELECT (.+) FROM blog_artifacts WHERE object_key").
		WithArgs(want.Key).
		WillReturnRows(sqlmock.NewRows(artifactColumns).
			AddRow(want.ID.String(), want.Topic, want.Key, want.Bucket, want.URL, want.CreatedAt))

	got, err := s.GetByKey(context.Background(), want.Key)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestArtifactStore_GetByKeyNotFound(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM blog_artifacts").
		WillReturnRows(sqlmock.NewRows(artifactColumns))

	_, err := s.GetByKey(context.Background(), "blog-output/none.txt")
	assert.ErrorIs(t, err, store.ErrArtifactNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestArtifactStore_ListRecent(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	newer := sampleArtifact()
	older := domain.NewStoredArtifact("go", "blogs", "blog-output/go_20241104_000000.txt",
		"https://blogs.s3.amazonaws.com/blog-output/go_20241104_000000.txt",
		time.Date(2024, time.November, 4, 0, 0, 0, 0, time.UTC))

	mock.ExpectQuery("SELECT (.+) FROM blog_artifacts ORDER BY created_at DESC LIMIT").
		WithArgs(store.DefaultListLimit).
		WillReturnRows(sqlmock.NewRows(artifactColumns).
			AddRow(newer.ID.String(), newer.Topic, newer.Key, newer.Bucket, newer.URL, newer.CreatedAt).
			AddRow(older.ID.String(), older.Topic, older.Key, older.Bucket, older.URL, older.CreatedAt))

	got, err := s.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.Key, got[0].Key)
	assert.Equal(t, older.Key, got[1].Key)
}

func TestArtifactStore_ListRecentFailure(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM blog_artifacts").
		WithArgs(store.MaxListLimit).
		WillReturnError(sql.ErrConnDone)

	_, err := s.ListRecent(context.Background(), 500)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
