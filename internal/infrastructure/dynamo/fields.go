package dynamo

// DynamoDB attribute names of a TTL entry. "key" is a reserved word, so
// expressions refer to it through a placeholder.
const (
	fieldKey       = "key"
	fieldExpiresAt = "expires_at"
)
