package directory

// Seed returns the built-in demo directory used when no database is
// configured: a small team under '@' and a handful of topics under '#'.
// The ids are stable so canonical text survives restarts.
func Seed() *Memory {
	m := NewMemory()

	for _, c := range []Candidate{
		{ID: "11a", Name: "Brad", Detail: "Platform"},
		{ID: "22b", Name: "Brianna", Detail: "Design"},
		{ID: "3c1", Name: "Carlos", Detail: "Infra"},
		{ID: "4d2", Name: "Dana", Detail: "Product"},
		{ID: "5e9", Name: "Eve", Detail: "Security"},
		{ID: "6f4", Name: "Franklin", Detail: "Mobile"},
		{ID: "7a7", Name: "Grace", Detail: "Data"},
		{ID: "8b3", Name: "Hiro", Detail: "Platform"},
	} {
		m.Add('@', c)
	}

	for _, c := range []Candidate{
		{ID: "t1", Name: "golang", Detail: "language"},
		{ID: "t2", Name: "flutter", Detail: "framework"},
		{ID: "t3", Name: "release", Detail: "process"},
		{ID: "t4", Name: "oncall", Detail: "rotation"},
		{ID: "t5", Name: "design-review", Detail: "process"},
		{ID: "t6", Name: "standup", Detail: "meeting"},
	} {
		m.Add('#', c)
	}

	return m
}
