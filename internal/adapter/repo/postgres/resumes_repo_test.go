package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

func TestResumeRepoCreate(t *testing.T) {
	t.Parallel()

	t.Run("generates id when empty", func(t *testing.T) {
		t.Parallel()
		pool := &fakePool{}
		repo := NewResumeRepo(pool)

		id, err := repo.Create(context.Background(), domain.Resume{Text: "hello", Filename: "cv.txt", MIME: "text/plain", Size: 5})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		require.Len(t, pool.execArgs, 1)
		assert.Equal(t, id, pool.execArgs[0][0])
	})

	t.Run("keeps provided id", func(t *testing.T) {
		t.Parallel()
		pool := &fakePool{}
		repo := NewResumeRepo(pool)

		id, err := repo.Create(context.Background(), domain.Resume{ID: "fixed", Text: "x"})
		require.NoError(t, err)
		assert.Equal(t, "fixed", id)
	})

	t.Run("wraps pool errors", func(t *testing.T) {
		t.Parallel()
		pool := &fakePool{execErr: errors.New("boom")}
		repo := NewResumeRepo(pool)

		_, err := repo.Create(context.Background(), domain.Resume{Text: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "op=resume.create")
	})
}

func TestResumeRepoGet(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		now := time.Now().UTC()
		pool := &fakePool{rowVals: []any{"r-1", "extracted text", "cv.pdf", "application/pdf", int64(1234), now}}
		repo := NewResumeRepo(pool)

		got, err := repo.Get(context.Background(), "r-1")
		require.NoError(t, err)
		assert.Equal(t, domain.Resume{ID: "r-1", Text: "extracted text", Filename: "cv.pdf", MIME: "application/pdf", Size: 1234, CreatedAt: now}, got)
	})

	t.Run("not found maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()
		pool := &fakePool{rowErr: pgx.ErrNoRows}
		repo := NewResumeRepo(pool)

		_, err := repo.Get(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
