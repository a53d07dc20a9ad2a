package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMarksActiveSection(t *testing.T) {
	t.Parallel()

	items := Build("/dong/hwangji")
	require.Len(t, items, 3)
	require.True(t, items[0].Active)
	require.False(t, items[1].Active)

	for _, it := range Build("/") {
		require.False(t, it.Active)
	}
	require.False(t, Build("/dongs")[0].Active)
	require.True(t, Build("/hidden/visit/new")[2].Active)
	require.True(t, Build("/hidden/place-register")[1].Active)
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	crumbs := Breadcrumbs("/places/3", "바람의 언덕")
	require.Len(t, crumbs, 3)
	require.Equal(t, "홈", crumbs[0].Label)
	require.Equal(t, "지역정보", crumbs[1].Label)
	require.Equal(t, "/places", crumbs[1].Href)
	require.Equal(t, "바람의 언덕", crumbs[2].Label)
	require.True(t, crumbs[2].Active)

	section := Breadcrumbs("/visit", "")
	require.Len(t, section, 2)
	require.True(t, section[1].Active)

	require.Len(t, Breadcrumbs("", ""), 1)
}
