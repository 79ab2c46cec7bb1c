package constants

// User constants
const (
	// MinUsernameLength is the minimum number of characters in a username
	MinUsernameLength = 3
)

// Recommendation constants
const (
	// DefaultRecommendationLimit is the number of posts returned by a recommendation
	DefaultRecommendationLimit = 10
)

// Neo4j error codes
const (
	// Neo4jConstraintViolation is reported when a write breaks a uniqueness constraint
	Neo4jConstraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"
)
