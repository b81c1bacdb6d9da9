package dal

import (
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strings"

	"nosql-repository-backend/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// EncodeKey converts a key value into its wire form. Only S, N and B values are accepted.
func EncodeKey(k models.KeyValue) (types.AttributeValue, error) {
	switch v := k.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil value", ErrUnsupportedKeyType)
	case models.StringKey:
		return &types.AttributeValueMemberS{Value: string(v)}, nil
	case models.NumberKey:
		if !numberPattern.MatchString(string(v)) {
			return nil, fmt.Errorf("%w: %q is not a number", ErrUnsupportedKeyType, string(v))
		}
		return &types.AttributeValueMemberN{Value: string(v)}, nil
	case models.BinaryKey:
		b := make([]byte, len(v))
		copy(b, v)
		return &types.AttributeValueMemberB{Value: b}, nil
	case models.EncodedKey:
		switch av := v.Value.(type) {
		case *types.AttributeValueMemberS:
			return av, nil
		case *types.AttributeValueMemberN:
			if !numberPattern.MatchString(av.Value) {
				return nil, fmt.Errorf("%w: %q is not a number", ErrUnsupportedKeyType, av.Value)
			}
			return av, nil
		case *types.AttributeValueMemberB:
			return av, nil
		default:
			return nil, fmt.Errorf("%w: encoded %T", ErrUnsupportedKeyType, v.Value)
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKeyType, k)
	}
}

// scalarType returns the attribute type a key value encodes to
func scalarType(av types.AttributeValue) types.ScalarAttributeType {
	switch av.(type) {
	case *types.AttributeValueMemberN:
		return types.ScalarAttributeTypeN
	case *types.AttributeValueMemberB:
		return types.ScalarAttributeTypeB
	default:
		return types.ScalarAttributeTypeS
	}
}

// expressionOperand converts an encoded key into the Go value the expression
// builder marshals back to the same attribute type.
func expressionOperand(av types.AttributeValue) any {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		return attributevalue.Number(v.Value)
	case *types.AttributeValueMemberB:
		return v.Value
	case *types.AttributeValueMemberS:
		return v.Value
	}
	return nil
}

// PrimaryKeyMap builds the key map of a table for a primary key. Each value
// must match its declared attribute type, and tables with a sort key need one.
func PrimaryKeyMap(schema TableSchema, key models.PrimaryKey) (map[string]types.AttributeValue, error) {
	pkValue, err := encodeFor(schema.PartitionKey, key.PK)
	if err != nil {
		return nil, fmt.Errorf("partition key %s: %w", schema.PartitionKey.Name, err)
	}
	out := map[string]types.AttributeValue{schema.PartitionKey.Name: pkValue}

	if schema.SortKey == nil {
		if key.SK != nil {
			return nil, fmt.Errorf("%w: %s has no sort key", ErrInvalidCondition, schema.TableName)
		}
		return out, nil
	}
	if key.SK == nil {
		return nil, fmt.Errorf("%w: %s on %s", ErrMissingKey, schema.SortKey.Name, schema.TableName)
	}
	skValue, err := encodeFor(*schema.SortKey, key.SK)
	if err != nil {
		return nil, fmt.Errorf("sort key %s: %w", schema.SortKey.Name, err)
	}
	out[schema.SortKey.Name] = skValue
	return out, nil
}

// KeyFromItem extracts the base table key of a marshalled entity and checks
// every key attribute is present with its declared type.
func KeyFromItem(schema TableSchema, item map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	key := make(map[string]types.AttributeValue, 2)
	for _, attr := range schema.KeyAttributes() {
		av, ok := item[attr.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s on %s", ErrMissingKey, attr.Name, schema.TableName)
		}
		if _, isNull := av.(*types.AttributeValueMemberNULL); isNull {
			return nil, fmt.Errorf("%w: %s on %s", ErrMissingKey, attr.Name, schema.TableName)
		}
		encoded, err := EncodeKey(models.EncodedKey{Value: av})
		if err != nil {
			return nil, fmt.Errorf("key attribute %s: %w", attr.Name, err)
		}
		if attr.Type != "" && scalarType(encoded) != attr.Type {
			return nil, fmt.Errorf("%w: %s is %s, schema declares %s", ErrUnsupportedKeyType, attr.Name, scalarType(encoded), attr.Type)
		}
		key[attr.Name] = encoded
	}
	return key, nil
}

// CanonicalKey renders a key map as a stable string so keys read back from
// the store can be matched against the keys that were requested.
func CanonicalKey(key map[string]types.AttributeValue) string {
	names := make([]string, 0, len(key))
	for name := range key {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		switch v := key[name].(type) {
		case *types.AttributeValueMemberS:
			fmt.Fprintf(&b, "S:%q", v.Value)
		case *types.AttributeValueMemberN:
			fmt.Fprintf(&b, "N:%s", canonicalNumber(v.Value))
		case *types.AttributeValueMemberB:
			fmt.Fprintf(&b, "B:%x", v.Value)
		default:
			fmt.Fprintf(&b, "?:%T", v)
		}
		b.WriteByte(';')
	}
	return b.String()
}

func canonicalNumber(s string) string {
	f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
	if err != nil {
		return s
	}
	return f.Text('g', -1)
}
