package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, `%100\%%`, likePattern(" 100% "))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\x%`, likePattern(`c:\x`))
}

func TestNormalizePage_Limites(t *testing.T) {
	l, o := normalizePage(0, -5)
	assert.Equal(t, 50, l)
	assert.Equal(t, 0, o)
	l, o = normalizePage(500, 10)
	assert.Equal(t, 50, l)
	assert.Equal(t, 10, o)
	l, _ = normalizePage(20, 0)
	assert.Equal(t, 20, l)
}

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	v := nullIfEmpty("x")
	if assert.NotNil(t, v) {
		assert.Equal(t, "x", *v)
	}
	assert.Equal(t, "", derefString(nil))
}
