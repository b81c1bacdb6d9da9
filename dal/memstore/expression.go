package memstore

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// keyCondition is one clause of a KeyConditionExpression
type keyCondition struct {
	attr   string
	op     string
	values []types.AttributeValue
}

// parseKeyCondition understands the clause forms the expression builder emits:
// "a = v", "a < v", "a <= v", "a > v", "a >= v", "a BETWEEN v AND w" and
// "begins_with (a, v)", joined by AND and optionally parenthesised.
func parseKeyCondition(expr string, names map[string]string, values map[string]types.AttributeValue) ([]keyCondition, error) {
	replacer := strings.NewReplacer("(", " ", ")", " ", ",", " ")
	tokens := strings.Fields(replacer.Replace(expr))

	resolveName := func(tok string) (string, error) {
		if strings.HasPrefix(tok, "#") {
			name, ok := names[tok]
			if !ok {
				return "", validationError("undefined expression attribute name %s", tok)
			}
			return name, nil
		}
		return tok, nil
	}
	resolveValue := func(tok string) (types.AttributeValue, error) {
		v, ok := values[tok]
		if !ok {
			return nil, validationError("undefined expression attribute value %s", tok)
		}
		return v, nil
	}

	var conds []keyCondition
	for i := 0; i < len(tokens); {
		if strings.EqualFold(tokens[i], "AND") {
			i++
			continue
		}

		if strings.EqualFold(tokens[i], "begins_with") {
			if i+2 >= len(tokens) {
				return nil, validationError("malformed begins_with in %q", expr)
			}
			attr, err := resolveName(tokens[i+1])
			if err != nil {
				return nil, err
			}
			v, err := resolveValue(tokens[i+2])
			if err != nil {
				return nil, err
			}
			conds = append(conds, keyCondition{attr: attr, op: "begins_with", values: []types.AttributeValue{v}})
			i += 3
			continue
		}

		if i+2 >= len(tokens) {
			return nil, validationError("malformed key condition %q", expr)
		}
		attr, err := resolveName(tokens[i])
		if err != nil {
			return nil, err
		}
		op := strings.ToUpper(tokens[i+1])
		switch op {
		case "=", "<", "<=", ">", ">=":
			v, err := resolveValue(tokens[i+2])
			if err != nil {
				return nil, err
			}
			conds = append(conds, keyCondition{attr: attr, op: op, values: []types.AttributeValue{v}})
			i += 3
		case "BETWEEN":
			if i+4 >= len(tokens) || !strings.EqualFold(tokens[i+3], "AND") {
				return nil, validationError("malformed BETWEEN in %q", expr)
			}
			lo, err := resolveValue(tokens[i+2])
			if err != nil {
				return nil, err
			}
			hi, err := resolveValue(tokens[i+4])
			if err != nil {
				return nil, err
			}
			conds = append(conds, keyCondition{attr: attr, op: op, values: []types.AttributeValue{lo, hi}})
			i += 5
		default:
			return nil, validationError("unsupported operator %s in %q", tokens[i+1], expr)
		}
	}
	if len(conds) == 0 {
		return nil, validationError("empty key condition")
	}
	return conds, nil
}

func (c keyCondition) matches(item map[string]types.AttributeValue) bool {
	v, ok := item[c.attr]
	if !ok || !sameType(v, c.values[0]) {
		return false
	}
	switch c.op {
	case "=":
		return compareValues(v, c.values[0]) == 0
	case "<":
		return compareValues(v, c.values[0]) < 0
	case "<=":
		return compareValues(v, c.values[0]) <= 0
	case ">":
		return compareValues(v, c.values[0]) > 0
	case ">=":
		return compareValues(v, c.values[0]) >= 0
	case "BETWEEN":
		return compareValues(v, c.values[0]) >= 0 && compareValues(v, c.values[1]) <= 0
	case "begins_with":
		switch p := c.values[0].(type) {
		case *types.AttributeValueMemberS:
			return strings.HasPrefix(v.(*types.AttributeValueMemberS).Value, p.Value)
		case *types.AttributeValueMemberB:
			return bytes.HasPrefix(v.(*types.AttributeValueMemberB).Value, p.Value)
		}
	}
	return false
}

func sameType(a, b types.AttributeValue) bool {
	return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}

// compareValues orders two scalar values of the same type
func compareValues(a, b types.AttributeValue) int {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		if bv, ok := b.(*types.AttributeValueMemberS); ok {
			return strings.Compare(av.Value, bv.Value)
		}
	case *types.AttributeValueMemberN:
		if bv, ok := b.(*types.AttributeValueMemberN); ok {
			return compareNumbers(av.Value, bv.Value)
		}
	case *types.AttributeValueMemberB:
		if bv, ok := b.(*types.AttributeValueMemberB); ok {
			return bytes.Compare(av.Value, bv.Value)
		}
	}
	return strings.Compare(encodeValue(a), encodeValue(b))
}

func compareNumbers(a, b string) int {
	af, _, errA := big.ParseFloat(a, 10, 256, big.ToNearestEven)
	bf, _, errB := big.ParseFloat(b, 10, 256, big.ToNearestEven)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return af.Cmp(bf)
}

// encodeValue renders a scalar key value as a stable string
func encodeValue(v types.AttributeValue) string {
	switch av := v.(type) {
	case *types.AttributeValueMemberS:
		return "S:" + av.Value
	case *types.AttributeValueMemberN:
		f, _, err := big.ParseFloat(av.Value, 10, 256, big.ToNearestEven)
		if err != nil {
			return "N:" + av.Value
		}
		return "N:" + f.Text('g', -1)
	case *types.AttributeValueMemberB:
		return fmt.Sprintf("B:%x", av.Value)
	default:
		return fmt.Sprintf("?:%T", v)
	}
}

func isKeyScalar(v types.AttributeValue, want types.ScalarAttributeType) bool {
	switch v.(type) {
	case *types.AttributeValueMemberS:
		return want == types.ScalarAttributeTypeS
	case *types.AttributeValueMemberN:
		return want == types.ScalarAttributeTypeN
	case *types.AttributeValueMemberB:
		return want == types.ScalarAttributeTypeB
	}
	return false
}
