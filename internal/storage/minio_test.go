package storage

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/carpeta/organizer/internal/config"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 30, 5, 123000000, time.FixedZone("CET", 3600))
	require.Equal(t, "snapshots/carpetaDigital/20250314T083005.123Z.json", ObjectKey("carpetaDigital", at))
	require.Equal(t, "snapshots/team%2Fa/20250314T083005.123Z.json", ObjectKey("team/a", at))

	keys := []string{
		ObjectKey("k", at.Add(time.Hour)),
		ObjectKey("k", at),
		ObjectKey("k", at.Add(time.Millisecond)),
	}
	sort.Strings(keys)
	require.True(t, strings.HasSuffix(keys[0], "083005.123Z.json"))
	require.True(t, strings.HasSuffix(keys[2], "093005.123Z.json"))
}

func TestNewMinIOStorage_RequiresEndpoint(t *testing.T) {
	_, err := NewMinIOStorage(nil)
	require.Error(t, err)
	_, err = NewMinIOStorage(&config.MinIOConfig{Bucket: "b"})
	require.Error(t, err)
}
