package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func s(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }
func n(v string) types.AttributeValue { return &types.AttributeValueMemberN{Value: v} }

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// StoreTestSuite drives the store through the DynamoDB API surface
type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
}

func (suite *StoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = New()

	_, err := suite.store.CreateTable(suite.ctx, &dynamodb.CreateTableInput{
		TableName: aws.String("scores"),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("player"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("score"), AttributeType: types.ScalarAttributeTypeN},
			{AttributeName: aws.String("team"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("tag"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("player"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("score"), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{{
			IndexName: aws.String("TeamIndex"),
			KeySchema: []types.KeySchemaElement{{AttributeName: aws.String("team"), KeyType: types.KeyTypeHash}},
		}},
		LocalSecondaryIndexes: []types.LocalSecondaryIndex{{
			IndexName: aws.String("TagIndex"),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("player"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("tag"), KeyType: types.KeyTypeRange},
			},
		}},
	})
	require.NoError(suite.T(), err)
}

func (suite *StoreTestSuite) put(item map[string]types.AttributeValue) {
	_, err := suite.store.PutItem(suite.ctx, &dynamodb.PutItemInput{TableName: aws.String("scores"), Item: item})
	require.NoError(suite.T(), err)
}

func (suite *StoreTestSuite) query(expr string, names map[string]string, values map[string]types.AttributeValue, index *string) []map[string]types.AttributeValue {
	out, err := suite.store.Query(suite.ctx, &dynamodb.QueryInput{
		TableName:                 aws.String("scores"),
		IndexName:                 index,
		KeyConditionExpression:    aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	require.NoError(suite.T(), err)
	return out.Items
}

func scores(items []map[string]types.AttributeValue) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item["score"].(*types.AttributeValueMemberN).Value)
	}
	return out
}

func (suite *StoreTestSuite) TestCreateTableTwiceIsResourceInUse() {
	_, err := suite.store.CreateTable(suite.ctx, &dynamodb.CreateTableInput{
		TableName:            aws.String("scores"),
		AttributeDefinitions: []types.AttributeDefinition{{AttributeName: aws.String("player"), AttributeType: types.ScalarAttributeTypeS}},
		KeySchema:            []types.KeySchemaElement{{AttributeName: aws.String("player"), KeyType: types.KeyTypeHash}},
	})
	assert.Equal(suite.T(), "ResourceInUseException", errorCode(err))
}

func (suite *StoreTestSuite) TestDescribeTable() {
	suite.put(map[string]types.AttributeValue{"player": s("p1"), "score": n("1")})

	out, err := suite.store.DescribeTable(suite.ctx, &dynamodb.DescribeTableInput{TableName: aws.String("scores")})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), types.TableStatusActive, out.Table.TableStatus)
	assert.Equal(suite.T(), int64(1), aws.ToInt64(out.Table.ItemCount))
	assert.Len(suite.T(), out.Table.GlobalSecondaryIndexes, 1)
	assert.Len(suite.T(), out.Table.LocalSecondaryIndexes, 1)

	_, err = suite.store.DescribeTable(suite.ctx, &dynamodb.DescribeTableInput{TableName: aws.String("missing")})
	assert.Equal(suite.T(), "ResourceNotFoundException", errorCode(err))
}

func (suite *StoreTestSuite) TestGetPutDelete() {
	key := map[string]types.AttributeValue{"player": s("p1"), "score": n("10")}
	suite.put(map[string]types.AttributeValue{"player": s("p1"), "score": n("10"), "team": s("red")})

	out, err := suite.store.GetItem(suite.ctx, &dynamodb.GetItemInput{TableName: aws.String("scores"), Key: key})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), s("red"), out.Item["team"])

	// numerically equal keys address the same item
	out, err = suite.store.GetItem(suite.ctx, &dynamodb.GetItemInput{
		TableName: aws.String("scores"),
		Key:       map[string]types.AttributeValue{"player": s("p1"), "score": n("10.0")},
	})
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), out.Item)

	_, err = suite.store.DeleteItem(suite.ctx, &dynamodb.DeleteItemInput{TableName: aws.String("scores"), Key: key})
	require.NoError(suite.T(), err)

	out, err = suite.store.GetItem(suite.ctx, &dynamodb.GetItemInput{TableName: aws.String("scores"), Key: key})
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), out.Item)
}

func (suite *StoreTestSuite) TestKeyValidation() {
	_, err := suite.store.GetItem(suite.ctx, &dynamodb.GetItemInput{
		TableName: aws.String("scores"),
		Key:       map[string]types.AttributeValue{"player": s("p1")},
	})
	assert.Equal(suite.T(), "ValidationException", errorCode(err))

	_, err = suite.store.PutItem(suite.ctx, &dynamodb.PutItemInput{
		TableName: aws.String("scores"),
		Item:      map[string]types.AttributeValue{"player": s("p1"), "score": s("ten")},
	})
	assert.Equal(suite.T(), "ValidationException", errorCode(err))

	_, err = suite.store.PutItem(suite.ctx, &dynamodb.PutItemInput{
		TableName: aws.String("scores"),
		Item:      map[string]types.AttributeValue{"player": s("p1"), "score": n("1"), "team": n("7")},
	})
	assert.Equal(suite.T(), "ValidationException", errorCode(err))
}

func (suite *StoreTestSuite) TestQueryOrdersNumbersNumerically() {
	for _, v := range []string{"100", "9", "20", "-3"} {
		suite.put(map[string]types.AttributeValue{"player": s("p1"), "score": n(v)})
	}
	names := map[string]string{"#0": "player", "#1": "score"}

	items := suite.query("#0 = :0", names, map[string]types.AttributeValue{":0": s("p1")}, nil)
	assert.Equal(suite.T(), []string{"-3", "9", "20", "100"}, scores(items))

	items = suite.query("(#0 = :0) AND (#1 BETWEEN :1 AND :2)", names, map[string]types.AttributeValue{
		":0": s("p1"), ":1": n("9"), ":2": n("20"),
	}, nil)
	assert.Equal(suite.T(), []string{"9", "20"}, scores(items))

	items = suite.query("(#0 = :0) AND (#1 > :1)", names, map[string]types.AttributeValue{
		":0": s("p1"), ":1": n("9"),
	}, nil)
	assert.Equal(suite.T(), []string{"20", "100"}, scores(items))
}

func (suite *StoreTestSuite) TestQueryIndexes() {
	suite.put(map[string]types.AttributeValue{"player": s("p1"), "score": n("1"), "team": s("red"), "tag": s("b")})
	suite.put(map[string]types.AttributeValue{"player": s("p1"), "score": n("2"), "tag": s("a")})
	suite.put(map[string]types.AttributeValue{"player": s("p2"), "score": n("3"), "team": s("red")})

	items := suite.query("#0 = :0", map[string]string{"#0": "team"}, map[string]types.AttributeValue{":0": s("red")}, aws.String("TeamIndex"))
	assert.ElementsMatch(suite.T(), []string{"1", "3"}, scores(items))

	items = suite.query("#0 = :0", map[string]string{"#0": "player"}, map[string]types.AttributeValue{":0": s("p1")}, aws.String("TagIndex"))
	assert.Equal(suite.T(), []string{"2", "1"}, scores(items))

	items = suite.query("(#0 = :0) AND (begins_with (#1, :1))", map[string]string{"#0": "player", "#1": "tag"},
		map[string]types.AttributeValue{":0": s("p1"), ":1": s("b")}, aws.String("TagIndex"))
	assert.Equal(suite.T(), []string{"1"}, scores(items))
}

func (suite *StoreTestSuite) TestScanPages() {
	for _, v := range []string{"1", "2", "3"} {
		suite.put(map[string]types.AttributeValue{"player": s("p1"), "score": n(v)})
	}

	first, err := suite.store.Scan(suite.ctx, &dynamodb.ScanInput{TableName: aws.String("scores"), Limit: aws.Int32(2)})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"1", "2"}, scores(first.Items))
	require.NotEmpty(suite.T(), first.LastEvaluatedKey)

	second, err := suite.store.Scan(suite.ctx, &dynamodb.ScanInput{
		TableName:         aws.String("scores"),
		Limit:             aws.Int32(2),
		ExclusiveStartKey: first.LastEvaluatedKey,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"3"}, scores(second.Items))
	assert.Empty(suite.T(), second.LastEvaluatedKey)
}

func (suite *StoreTestSuite) TestTransactWriteIsAllOrNothing() {
	put := func(score string) types.TransactWriteItem {
		return types.TransactWriteItem{Put: &types.Put{
			TableName: aws.String("scores"),
			Item:      map[string]types.AttributeValue{"player": s("p1"), "score": n(score)},
		}}
	}

	_, err := suite.store.TransactWriteItems(suite.ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{put("1"), {Put: &types.Put{
			TableName: aws.String("scores"),
			Item:      map[string]types.AttributeValue{"player": s("p1")},
		}}},
	})
	assert.Equal(suite.T(), "ValidationException", errorCode(err))

	out, err := suite.store.Scan(suite.ctx, &dynamodb.ScanInput{TableName: aws.String("scores")})
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), out.Items)

	_, err = suite.store.TransactWriteItems(suite.ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{put("1"), put("2")},
	})
	require.NoError(suite.T(), err)

	out, err = suite.store.Scan(suite.ctx, &dynamodb.ScanInput{TableName: aws.String("scores")})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), out.Items, 2)
}

func (suite *StoreTestSuite) TestBatchGetItem() {
	suite.put(map[string]types.AttributeValue{"player": s("p1"), "score": n("1")})
	suite.put(map[string]types.AttributeValue{"player": s("p1"), "score": n("2")})
	keys := []map[string]types.AttributeValue{
		{"player": s("p1"), "score": n("1")},
		{"player": s("p1"), "score": n("2")},
		{"player": s("p1"), "score": n("3")},
	}

	out, err := suite.store.BatchGetItem(suite.ctx, &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{"scores": {Keys: keys}},
	})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), out.Responses["scores"], 2)
	assert.Empty(suite.T(), out.UnprocessedKeys)

	suite.store.BatchGetLimit = 1
	out, err = suite.store.BatchGetItem(suite.ctx, &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{"scores": {Keys: keys}},
	})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), out.Responses["scores"], 1)
	assert.Len(suite.T(), out.UnprocessedKeys["scores"].Keys, 2)

	_, err = suite.store.BatchGetItem(suite.ctx, &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{"scores": {Keys: append(keys, keys[0])}},
	})
	assert.Equal(suite.T(), "ValidationException", errorCode(err))
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
