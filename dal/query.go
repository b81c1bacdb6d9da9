package dal

import (
	"fmt"

	"nosql-repository-backend/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type sortOperator int

const (
	sortNone sortOperator = iota
	sortEqual
	sortBetween
	sortBeginsWith
	sortGreaterThan
	sortGreaterThanOrEqual
	sortLessThan
	sortLessThanOrEqual
)

var sortOperatorNames = map[sortOperator]string{
	sortNone:               "none",
	sortEqual:              "=",
	sortBetween:            "BETWEEN",
	sortBeginsWith:         "begins_with",
	sortGreaterThan:        ">",
	sortGreaterThanOrEqual: ">=",
	sortLessThan:           "<",
	sortLessThanOrEqual:    "<=",
}

// KeyCondition is a key predicate over a table or one of its indexes. Values
// are built with the constructors in this file and rendered by Build.
type KeyCondition struct {
	indexKind IndexKind
	indexName string
	pk        models.KeyValue
	op        sortOperator
	sk        models.KeyValue
	skEnd     models.KeyValue
}

// PartitionEquals matches every row of a partition
func PartitionEquals(pk models.KeyValue) KeyCondition {
	return KeyCondition{pk: pk}
}

// PrimaryKeyEquals matches a single row
func PrimaryKeyEquals(pk, sk models.KeyValue) KeyCondition {
	return KeyCondition{pk: pk, op: sortEqual, sk: sk}
}

// SortBetween matches rows whose sort key lies in [start, end]
func SortBetween(pk, start, end models.KeyValue) KeyCondition {
	return KeyCondition{pk: pk, op: sortBetween, sk: start, skEnd: end}
}

// SortBeginsWith matches rows whose string or binary sort key starts with
// prefix. An empty prefix matches the whole partition.
func SortBeginsWith(pk, prefix models.KeyValue) KeyCondition {
	return KeyCondition{pk: pk, op: sortBeginsWith, sk: prefix}
}

func SortGreaterThan(pk, sk models.KeyValue) KeyCondition {
	return KeyCondition{pk: pk, op: sortGreaterThan, sk: sk}
}

func SortGreaterThanOrEqual(pk, sk models.KeyValue) KeyCondition {
	return KeyCondition{pk: pk, op: sortGreaterThanOrEqual, sk: sk}
}

func SortLessThan(pk, sk models.KeyValue) KeyCondition {
	return KeyCondition{pk: pk, op: sortLessThan, sk: sk}
}

func SortLessThanOrEqual(pk, sk models.KeyValue) KeyCondition {
	return KeyCondition{pk: pk, op: sortLessThanOrEqual, sk: sk}
}

// IndexEquals matches rows of a secondary index. Without an index sort value
// only the index partition is constrained.
func IndexEquals(kind IndexKind, idx models.SecondaryIndex) KeyCondition {
	c := KeyCondition{indexKind: kind, indexName: idx.IndexName, pk: idx.PK}
	if idx.SK != nil {
		c.op = sortEqual
		c.sk = idx.SK
	}
	return c
}

func (c KeyCondition) String() string {
	target := "table"
	if c.indexName != "" {
		target = c.indexKind.String() + " " + c.indexName
	}
	return fmt.Sprintf("%s pk=%v sk %s %v", target, c.pk, sortOperatorNames[c.op], c.sk)
}

// Query is a rendered KeyCondition
type Query struct {
	IndexName    *string
	KeyCondition *string
	Names        map[string]string
	Values       map[string]types.AttributeValue
}

// Input returns the QueryInput for a physical table. Results come back in
// ascending sort key order.
func (q Query) Input(tableName string) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:                 aws.String(tableName),
		IndexName:                 q.IndexName,
		KeyConditionExpression:    q.KeyCondition,
		ExpressionAttributeNames:  q.Names,
		ExpressionAttributeValues: q.Values,
		ScanIndexForward:          aws.Bool(true),
	}
}

// placeholders for a binary prefix clause; the expression builder only
// emits numbered ones, so these cannot collide
const (
	binaryPrefixName  = "#skprefix"
	binaryPrefixValue = ":skprefix"
)

// Build renders the condition against a table schema. It performs no I/O.
func (c KeyCondition) Build(schema TableSchema) (Query, error) {
	pkAttr := schema.PartitionKey
	skAttr := schema.SortKey
	var indexName *string

	if c.indexName != "" {
		idx, ok := schema.Index(c.indexKind, c.indexName)
		if !ok {
			return Query{}, fmt.Errorf("%w: %s %s on %s", ErrUnknownIndex, c.indexKind, c.indexName, schema.TableName)
		}
		pkAttr = idx.PartitionKey
		skAttr = idx.SortKey
		indexName = aws.String(idx.Name)
	}

	pkValue, err := encodeFor(pkAttr, c.pk)
	if err != nil {
		return Query{}, fmt.Errorf("partition key %s: %w", pkAttr.Name, err)
	}
	keyCond := expression.Key(pkAttr.Name).Equal(expression.Value(expressionOperand(pkValue)))

	op := c.op
	if op == sortBeginsWith && emptyPrefix(c.sk) {
		op = sortNone
	}

	// binary prefixes are appended after the builder has rendered the rest
	var binaryPrefix types.AttributeValue
	if op != sortNone {
		if skAttr == nil {
			return Query{}, fmt.Errorf("%w: %s has no sort key for %s", ErrInvalidCondition, schema.TableName, sortOperatorNames[op])
		}
		if op == sortBeginsWith && skAttr.Type == types.ScalarAttributeTypeB {
			binaryPrefix, err = encodeFor(*skAttr, c.sk)
			if err != nil {
				return Query{}, fmt.Errorf("sort key %s: %w", skAttr.Name, err)
			}
		} else {
			sortCond, err := c.sortCondition(op, *skAttr)
			if err != nil {
				return Query{}, fmt.Errorf("sort key %s: %w", skAttr.Name, err)
			}
			keyCond = keyCond.And(sortCond)
		}
	}

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return Query{}, fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}
	q := Query{
		IndexName:    indexName,
		KeyCondition: expr.KeyCondition(),
		Names:        expr.Names(),
		Values:       expr.Values(),
	}
	if binaryPrefix != nil {
		q.KeyCondition = aws.String(fmt.Sprintf("(%s) AND (begins_with (%s, %s))", aws.ToString(q.KeyCondition), binaryPrefixName, binaryPrefixValue))
		q.Names[binaryPrefixName] = skAttr.Name
		q.Values[binaryPrefixValue] = binaryPrefix
	}
	return q, nil
}

func emptyPrefix(k models.KeyValue) bool {
	switch v := k.(type) {
	case models.StringKey:
		return v == ""
	case models.BinaryKey:
		return len(v) == 0
	}
	return false
}

func (c KeyCondition) sortCondition(op sortOperator, attr KeyAttribute) (expression.KeyConditionBuilder, error) {
	key := expression.Key(attr.Name)

	skValue, err := encodeFor(attr, c.sk)
	if op == sortBeginsWith {
		if attr.Type == types.ScalarAttributeTypeN {
			return expression.KeyConditionBuilder{}, fmt.Errorf("%w: begins_with on %s key", ErrUnsupportedKeyType, attr.Type)
		}
		if err != nil {
			return expression.KeyConditionBuilder{}, err
		}
		prefix, ok := skValue.(*types.AttributeValueMemberS)
		if !ok {
			return expression.KeyConditionBuilder{}, fmt.Errorf("%w: begins_with prefix must be a string, got %T", ErrUnsupportedKeyType, c.sk)
		}
		return key.BeginsWith(prefix.Value), nil
	}
	if err != nil {
		return expression.KeyConditionBuilder{}, err
	}
	value := expression.Value(expressionOperand(skValue))

	switch op {
	case sortEqual:
		return key.Equal(value), nil
	case sortBetween:
		endValue, err := encodeFor(attr, c.skEnd)
		if err != nil {
			return expression.KeyConditionBuilder{}, err
		}
		return key.Between(value, expression.Value(expressionOperand(endValue))), nil
	case sortGreaterThan:
		return key.GreaterThan(value), nil
	case sortGreaterThanOrEqual:
		return key.GreaterThanEqual(value), nil
	case sortLessThan:
		return key.LessThan(value), nil
	case sortLessThanOrEqual:
		return key.LessThanEqual(value), nil
	}
	return expression.KeyConditionBuilder{}, fmt.Errorf("%w: operator %d", ErrInvalidCondition, op)
}

// encodeFor encodes a key value and checks it against the declared attribute type
func encodeFor(attr KeyAttribute, k models.KeyValue) (types.AttributeValue, error) {
	av, err := EncodeKey(k)
	if err != nil {
		return nil, err
	}
	if attr.Type != "" && scalarType(av) != attr.Type {
		return nil, fmt.Errorf("%w: %s value for %s key", ErrUnsupportedKeyType, scalarType(av), attr.Type)
	}
	return av, nil
}
