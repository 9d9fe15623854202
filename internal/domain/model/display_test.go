package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/repocard/internal/domain/model"
)

func TestDefaultDisplayConfig_AllVisible(t *testing.T) {
	d := model.DefaultDisplayConfig()
	for _, toggle := range model.DisplayToggles {
		assert.True(t, toggle.Get(d), toggle.Name)
	}
}

func TestDisplayToggles_SetAffectsOnlyOwnField(t *testing.T) {
	for _, toggle := range model.DisplayToggles {
		t.Run(toggle.Name, func(t *testing.T) {
			d := model.DefaultDisplayConfig()
			toggle.Set(&d, false)

			for _, other := range model.DisplayToggles {
				assert.Equal(t, other.Name != toggle.Name, other.Get(d), other.Name)
			}
		})
	}
}

func TestDisplayToggles_Order(t *testing.T) {
	names := make([]string, 0, len(model.DisplayToggles))
	for _, toggle := range model.DisplayToggles {
		names = append(names, toggle.Name)
	}
	assert.Equal(t, []string{"contributors", "stars", "watchers", "forks", "issues"}, names)
}

func TestParseDisplayConfig(t *testing.T) {
	values := map[string]string{"stars": "false", "forks": "0", "issues": "true"}

	d, err := model.ParseDisplayConfig(func(name string) string { return values[name] })

	require.NoError(t, err)
	assert.True(t, d.ShowContributors)
	assert.False(t, d.ShowStars)
	assert.True(t, d.ShowWatchers)
	assert.False(t, d.ShowForks)
	assert.True(t, d.ShowIssues)
}

func TestParseDisplayConfig_RejectsNonBoolean(t *testing.T) {
	_, err := model.ParseDisplayConfig(func(name string) string {
		if name == "watchers" {
			return "sometimes"
		}
		return ""
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watchers")
}
