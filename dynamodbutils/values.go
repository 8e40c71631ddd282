package dynamodbutils

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Number is the set of Go numeric types representable as a DynamoDB number.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// StringValue returns s as a string attribute value.
func StringValue(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

// NumberValue returns n as a number attribute value.
func NumberValue[N Number](n N) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: fmt.Sprint(n)}
}

// BinaryValue returns b as a binary attribute value.
func BinaryValue(b []byte) types.AttributeValue {
	return &types.AttributeValueMemberB{Value: b}
}
