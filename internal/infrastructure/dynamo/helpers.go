package dynamo

import (
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// liveFilter selects items whose TTL has not passed at now. DynamoDB removes
// expired items in the background, sometimes days late, so reads filter too.
type liveFilter struct {
	Expr       string
	Projection string
	Names      map[string]string
	Values     map[string]types.AttributeValue
}

func newLiveFilter(now time.Time) liveFilter {
	return liveFilter{
		Expr:       "#exp > :now",
		Projection: "#k, #exp",
		Names: map[string]string{
			"#k":   fieldKey,
			"#exp": fieldExpiresAt,
		},
		Values: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
	}
}
