package genres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
)

func TestLoadBuildsTree(t *testing.T) {
	tax := Load()

	sf, ok := tax.ByName("Science Fiction")
	require.True(t, ok)
	assert.Nil(t, sf.Parent)
	assert.NotEmpty(t, sf.Subgenres)

	military, ok := tax.ByName("Military SF")
	require.True(t, ok)
	assert.Equal(t, sf, military.Parent)
	assert.True(t, sf.HasSubgenre(military))
	assert.False(t, military.HasSubgenre(sf))
}

func TestByNameCaseInsensitive(t *testing.T) {
	tax := Load()

	for _, name := range []string{"mystery", "MYSTERY", " Mystery "} {
		g, ok := tax.ByName(name)
		require.True(t, ok, "lookup %q", name)
		assert.Equal(t, "Mystery", g.Name)
	}
}

func TestSelfAndSubgenres(t *testing.T) {
	tax := Load()

	fantasy := tax.MustByName("Fantasy")
	all := fantasy.SelfAndSubgenres()
	names := make([]string, len(all))
	for i, g := range all {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"Fantasy", "Epic Fantasy", "Historical Fantasy", "Urban Fantasy"}, names)
	assert.Len(t, fantasy.AllSubgenres(), 3)
}

func TestDefaultFictionInheritance(t *testing.T) {
	tax := Load()

	// Subgenres inherit fiction status from their parent.
	cozy := tax.MustByName("Cozy Mystery")
	require.NotNil(t, cozy.DefaultFiction())
	assert.True(t, *cozy.DefaultFiction())

	militaryHistory := tax.MustByName("Military History")
	require.NotNil(t, militaryHistory.DefaultFiction())
	assert.False(t, *militaryHistory.DefaultFiction())

	// Humor is deliberately ambiguous.
	humor := tax.MustByName("Humor")
	assert.Nil(t, humor.DefaultFiction())
}

func TestAudienceRestrictions(t *testing.T) {
	tax := Load()

	erotica := tax.MustByName(Erotica)
	assert.Equal(t, []domain.Audience{domain.AudienceAdultsOnly}, erotica.RestrictedToAudiences())

	lifeStrategies := tax.MustByName("Life Strategies")
	assert.Equal(t, []domain.Audience{domain.AudienceYoungAdult}, lifeStrategies.RestrictedToAudiences())

	assert.Nil(t, tax.MustByName("Romance").RestrictedToAudiences())
}

func TestAllIsSortedAndComplete(t *testing.T) {
	tax := Load()

	all := tax.All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}

	// Names other packages hardcode must exist.
	for _, name := range []string{Erotica, MediaTieInSF, ComicsGraphicNovels} {
		_, ok := tax.ByName(name)
		assert.True(t, ok, "missing %q", name)
	}
}
