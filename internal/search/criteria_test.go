package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func TestBuild_IDPrefixSelectsExactLookup(t *testing.T) {
	c := Build(Params{Search: strPtr("id:abc-123")})

	assert.Equal(t, ModeByID, c.Mode)
	assert.Equal(t, "abc-123", c.ID)
	assert.Empty(t, c.Term)
	assert.Empty(t, c.Attributes)
}

func TestBuild_IDPrefixTrimsWhitespace(t *testing.T) {
	c := Build(Params{Search: strPtr("id:  abc-123  ")})

	assert.Equal(t, ModeByID, c.Mode)
	assert.Equal(t, "abc-123", c.ID)
}

func TestBuild_IDPrefixIgnoresEverythingElse(t *testing.T) {
	c := Build(Params{
		Search:   strPtr("id:abc-123"),
		LastName: strPtr("smith"),
		Enabled:  boolPtr(true),
		Query:    strPtr("email:x@example.com"),
	})

	assert.Equal(t, ModeByID, c.Mode)
	assert.Equal(t, "abc-123", c.ID)
	assert.Empty(t, c.Attributes)
}

func TestBuild_FreeTextDropsStructuredFields(t *testing.T) {
	c := Build(Params{
		Search:    strPtr("  alice  "),
		LastName:  strPtr("smith"),
		FirstName: strPtr("alice"),
		Email:     strPtr("a@example.com"),
	})

	assert.Equal(t, ModeFreeText, c.Mode)
	assert.Equal(t, "alice", c.Term)
	assert.Empty(t, c.Attributes)
	assert.False(t, c.IncludeServiceAccounts)
}

func TestBuild_FreeTextFoldsInEnabled(t *testing.T) {
	c := Build(Params{
		Search:  strPtr("alice"),
		Enabled: boolPtr(false),
	})

	assert.Equal(t, ModeFreeText, c.Mode)
	assert.Equal(t, map[string]string{FieldEnabled: "false"}, c.Attributes)
}

func TestBuild_StructuredFieldsSelectAttributes(t *testing.T) {
	c := Build(Params{
		LastName:      strPtr("smith"),
		EmailVerified: boolPtr(true),
		Exact:         boolPtr(true),
	})

	assert.Equal(t, ModeAttributes, c.Mode)
	assert.Equal(t, map[string]string{
		FieldLastName:      "smith",
		FieldEmailVerified: "true",
		FieldExact:         "true",
	}, c.Attributes)
	assert.True(t, c.IncludeServiceAccounts)
}

func TestBuild_GenericQuerySelectsAttributes(t *testing.T) {
	c := Build(Params{Query: strPtr("lastName:smith enabled:true")})

	assert.Equal(t, ModeAttributes, c.Mode)
	assert.Equal(t, map[string]string{
		FieldLastName: "smith",
		FieldEnabled:  "true",
	}, c.Attributes)
}

func TestBuild_NamedParametersWinOverGenericQuery(t *testing.T) {
	c := Build(Params{
		Query:    strPtr("lastName:jones email:old@example.com"),
		LastName: strPtr("smith"),
	})

	assert.Equal(t, ModeAttributes, c.Mode)
	assert.Equal(t, "smith", c.Attributes[FieldLastName])
	assert.Equal(t, "old@example.com", c.Attributes[FieldEmail])
}

func TestBuild_MalformedGenericQueryAlone(t *testing.T) {
	c := Build(Params{Query: strPtr("not a structured query")})

	assert.Equal(t, ModeListAll, c.Mode)
	assert.Empty(t, c.Attributes)
}

func TestBuild_MalformedGenericQueryWithNamedParameter(t *testing.T) {
	c := Build(Params{
		Query:    strPtr("not a structured query"),
		LastName: strPtr("smith"),
	})

	assert.Equal(t, ModeAttributes, c.Mode)
	assert.Equal(t, map[string]string{FieldLastName: "smith"}, c.Attributes)
}

func TestBuild_NoParametersListsAll(t *testing.T) {
	c := Build(Params{})

	assert.Equal(t, ModeListAll, c.Mode)
	assert.Equal(t, NoOffset, c.First)
	assert.Equal(t, defaultMaxResults, c.Max)
	assert.False(t, c.IncludeServiceAccounts)
}

func TestBuild_PaginationWindow(t *testing.T) {
	c := Build(Params{First: intPtr(20), Max: intPtr(10)})

	assert.Equal(t, 20, c.First)
	assert.Equal(t, 10, c.Max)
}

func TestBuild_PaginationAppliesInEveryMode(t *testing.T) {
	c := Build(Params{Search: strPtr("id:abc"), First: intPtr(5), Max: intPtr(3)})
	assert.Equal(t, 5, c.First)
	assert.Equal(t, 3, c.Max)

	c = Build(Params{Search: strPtr("alice"), First: intPtr(5), Max: intPtr(3)})
	assert.Equal(t, 5, c.First)
	assert.Equal(t, 3, c.Max)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "by_id", ModeByID.String())
	assert.Equal(t, "free_text", ModeFreeText.String())
	assert.Equal(t, "attributes", ModeAttributes.String())
	assert.Equal(t, "list_all", ModeListAll.String())
}
