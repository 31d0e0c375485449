package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fefrre/ferweb/internal/models"
)

func TestLookups(t *testing.T) {
	assert.True(t, IsProjectType("ecommerce"))
	assert.False(t, IsProjectType(""))
	assert.False(t, IsProjectType("mobile"))

	assert.True(t, IsBudget("50k+"))
	assert.False(t, IsBudget(""))

	assert.True(t, IsHosting(""), "no preference is a valid hosting choice")
	assert.True(t, IsFeature("Chat en vivo"))
	assert.False(t, IsIntegration("Chat en vivo"))

	assert.Equal(t, "Aplicación Web", ProjectTypeLabel("webapp"))
	assert.Equal(t, "legacy", ProjectTypeLabel("legacy"))
	assert.Equal(t, "Contactado", StatusLabel(models.StatusContacted))
}

func TestEveryStatusHasAnOption(t *testing.T) {
	for _, s := range models.Statuses {
		_, ok := find(StatusOptions, string(s))
		assert.True(t, ok, "missing option for %s", s)
	}
}

func TestPackagesHaveTechLinks(t *testing.T) {
	for _, p := range Packages {
		for _, tech := range p.Tech {
			_, ok := TechLinks[tech]
			assert.True(t, ok, "%s: no link for %s", p.ID, tech)
		}
	}
}
