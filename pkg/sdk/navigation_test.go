package sdk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/terraconstructs/haroldo/pkg/sdk"
)

func TestNavigationFor(t *testing.T) {
	t.Run("client gets the five client items", func(t *testing.T) {
		items := sdk.NavigationFor(sdk.RoleClient)
		assert.Len(t, items, 5)
		assert.Equal(t, "/", items[0].Path)
		for _, item := range items {
			assert.NotEmpty(t, item.Label)
			assert.NotEmpty(t, item.Icon)
		}
	})

	t.Run("unknown role yields empty", func(t *testing.T) {
		items := sdk.NavigationFor(sdk.Role(99))
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("absent role yields empty", func(t *testing.T) {
		assert.Empty(t, sdk.NavigationFor(sdk.RoleNone))
	})

	t.Run("role sets are disjoint", func(t *testing.T) {
		seen := map[string]sdk.Role{}
		for _, role := range sdk.Roles() {
			for _, item := range sdk.NavigationFor(role) {
				owner, dup := seen[item.Path]
				assert.False(t, dup, "path %s shared by %s and %s", item.Path, owner, role)
				seen[item.Path] = role
			}
		}
	})

	t.Run("result is a copy", func(t *testing.T) {
		items := sdk.NavigationFor(sdk.RoleAdviser)
		items[0].Label = "changed"
		assert.NotEqual(t, "changed", sdk.NavigationFor(sdk.RoleAdviser)[0].Label)
	})
}
