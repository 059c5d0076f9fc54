package environments

type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Staging     Environment = "staging"
	Test        Environment = "test"
)

func Parse(raw string) Environment {
	switch Environment(raw) {
	case Production, Development, Staging, Test:
		return Environment(raw)
	default:
		return Production
	}
}
