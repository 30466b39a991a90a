package testutil

// WithTeamTestData adds the standard team dataset: a handful of users
// under '@' and topics under '#'. Mirrors the demo seed data.
func (b *Builder) WithTeamTestData() *Builder {
	return b.
		WithUser("11a", Name("brad"), Detail("Brad Fritz")).
		WithUser("21b", Name("susan"), Detail("Susan Aoki")).
		WithUser("42c", Name("lucy"), Detail("Lucy Ferrao")).
		WithUser("56d", Name("luna"), Detail("Luna Park")).
		WithUser("77e", Name("testUser"), Detail("Shared QA account")).
		WithTopic("007", Name("Flutter"), Detail("Framework talk")).
		WithTopic("014", Name("release"), Detail("Release coordination")).
		WithTopic("021", Name("design"), Detail("Design reviews"))
}

// WithAmbiguousNameData adds users whose names prefix each other, for
// exercising longest-match resolution.
func (b *Builder) WithAmbiguousNameData() *Builder {
	return b.
		WithUser("u1", Name("ann")).
		WithUser("u2", Name("anna")).
		WithUser("u3", Name("annabel"))
}
