package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/set-night/swifthub/internal/domain"
	"github.com/set-night/swifthub/internal/repository/sqlc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	chatID   int64
	language string
	err      error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	ts := pgtype.Timestamptz{Time: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC), Valid: true}
	*dest[0].(*int64) = r.chatID
	*dest[1].(*string) = r.language
	*dest[2].(*pgtype.Timestamptz) = ts
	*dest[3].(*pgtype.Timestamptz) = ts
	return nil
}

type fakeDB struct {
	row  fakeRow
	sql  string
	args []any
}

func (f *fakeDB) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("query not supported")
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.sql = sql
	f.args = args
	return f.row
}

func TestPreferenceRepoGetLanguage(t *testing.T) {
	db := &fakeDB{row: fakeRow{chatID: 7, language: "ar"}}
	repo := NewPreferenceRepo(sqlc.New(db))

	lang, err := repo.GetLanguage(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageArabic, lang)
	assert.Equal(t, []any{int64(7)}, db.args)
}

func TestPreferenceRepoNoRowsIsNotSet(t *testing.T) {
	repo := NewPreferenceRepo(sqlc.New(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}}))

	_, err := repo.GetLanguage(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrLanguageNotSet)
}

func TestPreferenceRepoWrapsErrors(t *testing.T) {
	boom := errors.New("connection reset")
	repo := NewPreferenceRepo(sqlc.New(&fakeDB{row: fakeRow{err: boom}}))

	_, err := repo.GetLanguage(context.Background(), 7)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrLanguageNotSet)

	err = repo.SetLanguage(context.Background(), 7, domain.LanguageFrench)
	assert.ErrorIs(t, err, boom)

	_, err = repo.LanguageStats(context.Background())
	assert.Error(t, err)
}

func TestPreferenceRepoRejectsCorruptLanguage(t *testing.T) {
	repo := NewPreferenceRepo(sqlc.New(&fakeDB{row: fakeRow{chatID: 7, language: "en"}}))

	_, err := repo.GetLanguage(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
}

func TestPreferenceRepoSetLanguage(t *testing.T) {
	db := &fakeDB{row: fakeRow{chatID: 9, language: "fr"}}
	repo := NewPreferenceRepo(sqlc.New(db))

	require.NoError(t, repo.SetLanguage(context.Background(), 9, domain.LanguageFrench))
	assert.Contains(t, db.sql, "ON CONFLICT (chat_id)")
	assert.Equal(t, []any{int64(9), "fr"}, db.args)
}
