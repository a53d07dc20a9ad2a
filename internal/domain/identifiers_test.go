package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidSlug(t *testing.T) {
	t.Parallel()

	require.True(t, ValidSlug("sample-post"))
	require.True(t, ValidSlug("2024-summer"))
	require.False(t, ValidSlug(""))
	require.False(t, ValidSlug("Sample"))
	require.False(t, ValidSlug("한글"))
	require.False(t, ValidSlug("a_b"))
	require.True(t, ValidSlug(strings.Repeat("a", 65)))
}

func TestValidDongID(t *testing.T) {
	t.Parallel()

	require.True(t, ValidDongID("hwangji"))
	require.True(t, ValidDongID("황지동"))
	require.True(t, ValidDongID("dong_01"))
	require.True(t, ValidDongID("hwangji.1"))
	require.True(t, ValidDongID("hwangji dong"))
	require.False(t, ValidDongID(""))
	require.False(t, ValidDongID("  "))
}

func TestParsePlaceID(t *testing.T) {
	t.Parallel()

	id, ok := ParsePlaceID("12")
	require.True(t, ok)
	require.Equal(t, int64(12), id)

	for _, raw := range []string{"", "abc", "-1", "0", "1.5", "+1", "0001", " 1", "99999999999999999999"} {
		_, ok := ParsePlaceID(raw)
		require.False(t, ok, raw)
	}
}

func TestPlaceTypeLabels(t *testing.T) {
	t.Parallel()

	require.Equal(t, "카페", PlaceTypeCafe.Label())
	require.Equal(t, "맛집", PlaceTypeRestaurant.Label())
	require.Equal(t, "관광지", PlaceTypeAttraction.Label())
	require.Equal(t, "추천", PlaceTypeRecommendation.Label())
	require.False(t, PlaceType("museum").Valid())
}
