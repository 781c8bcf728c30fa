package utils

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractInt64 reads a numeric attribute, returning 0 when it is absent or malformed.
func ExtractInt64(item map[string]types.AttributeValue, field string) int64 {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberN); ok {
			n, err := strconv.ParseInt(v.Value, 10, 64)
			if err == nil {
				return n
			}
		}
	}
	return 0
}

// StringAttr and NumberAttr build key attributes.
func StringAttr(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

func NumberAttr(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
}
