package models

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// KeyKind enumerates the scalar types a key attribute may hold
type KeyKind int

const (
	StringKind KeyKind = iota
	NumberKind
	BinaryKind
	EncodedKind
)

// KeyValue is a partition or sort key value. The set of implementations is
// closed: StringKey, NumberKey, BinaryKey and EncodedKey.
type KeyValue interface {
	Kind() KeyKind
	isKeyValue()
}

// StringKey is a string key value
type StringKey string

// NumberKey is a numeric key value held as decimal text
type NumberKey string

// BinaryKey is an opaque byte key value
type BinaryKey []byte

// EncodedKey carries an already encoded attribute value. Only S, N and B
// members are usable as keys.
type EncodedKey struct {
	Value types.AttributeValue
}

func (StringKey) Kind() KeyKind  { return StringKind }
func (NumberKey) Kind() KeyKind  { return NumberKind }
func (BinaryKey) Kind() KeyKind  { return BinaryKind }
func (EncodedKey) Kind() KeyKind { return EncodedKind }

func (StringKey) isKeyValue()  {}
func (NumberKey) isKeyValue()  {}
func (BinaryKey) isKeyValue()  {}
func (EncodedKey) isKeyValue() {}

// Number is the set of Go numeric types accepted by NumberKeyOf
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// NumberKeyOf formats a Go number as a NumberKey
func NumberKeyOf[N Number](n N) NumberKey {
	switch any(n).(type) {
	case float32:
		return NumberKey(strconv.FormatFloat(float64(n), 'f', -1, 32))
	case float64:
		return NumberKey(strconv.FormatFloat(float64(n), 'f', -1, 64))
	case uint, uint8, uint16, uint32, uint64:
		return NumberKey(strconv.FormatUint(uint64(n), 10))
	case int, int8, int16, int32, int64:
		return NumberKey(strconv.FormatInt(int64(n), 10))
	}

	// named types: 1/2 is only non-zero for floats, 0-1 only positive for unsigned
	var zero, one N = 0, 1
	switch {
	case one/2 != zero:
		return NumberKey(strconv.FormatFloat(float64(n), 'f', -1, 64))
	case zero-one > zero:
		return NumberKey(strconv.FormatUint(uint64(n), 10))
	}
	return NumberKey(strconv.FormatInt(int64(n), 10))
}

// SecondaryIndex describes a lookup against a named GSI or LSI. SK is nil when
// the lookup only constrains the index partition.
type SecondaryIndex struct {
	IndexName string
	PK        KeyValue
	SK        KeyValue
}

// GSI builds a global secondary index lookup
func GSI(indexName string, pk, sk KeyValue) SecondaryIndex {
	return SecondaryIndex{IndexName: indexName, PK: pk, SK: sk}
}

// GSIWithoutSK builds a global secondary index lookup on the index partition only
func GSIWithoutSK(indexName string, pk KeyValue) SecondaryIndex {
	return SecondaryIndex{IndexName: indexName, PK: pk}
}

// LSI builds a local secondary index lookup. pk is the base table partition value.
func LSI(indexName string, pk, sk KeyValue) SecondaryIndex {
	return SecondaryIndex{IndexName: indexName, PK: pk, SK: sk}
}

// PrimaryKey identifies one row. SK is nil for tables without a sort key.
type PrimaryKey struct {
	PK KeyValue
	SK KeyValue
}
