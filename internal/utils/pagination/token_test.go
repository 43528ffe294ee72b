package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	ts := time.Date(2024, 3, 8, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(ts, "0b7c6f7e-2f4e-4d1b-9d59-1c1f3f0b9a11")
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, ts.Equal(cursor.Timestamp))
	assert.Equal(t, "0b7c6f7e-2f4e-4d1b-9d59-1c1f3f0b9a11", cursor.ID)
}

func TestEncodeToken_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("Bishkek", 6*3600)
	ts := time.Date(2024, 3, 8, 20, 0, 0, 0, loc)

	cursor, err := DecodeToken(EncodeToken(ts, "id-1"))
	require.NoError(t, err)
	assert.True(t, ts.Equal(cursor.Timestamp))
	assert.Equal(t, time.UTC, cursor.Timestamp.Location())
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.URLEncoding.EncodeToString([]byte("2024-03-08T00:00:00Z"))
	_, err = DecodeToken(noSeparator)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badTime := base64.URLEncoding.EncodeToString([]byte("notadate|id-1"))
	_, err = DecodeToken(badTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp parse")
}
