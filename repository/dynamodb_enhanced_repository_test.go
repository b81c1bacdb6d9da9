package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"nosql-repository-backend/dal"
	"nosql-repository-backend/dal/memstore"
	"nosql-repository-backend/entity"
	"nosql-repository-backend/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// EnhancedRepositoryTestSuite covers transactions and batch reads across tables
type EnhancedRepositoryTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memstore.Store
	enhanced *DynamoDBEnhancedRepository
	main     *DynamoDBRepository[entity.MainTableEntity]
	events   *DynamoDBRepository[entity.EventTableEntity]
	base     time.Time
}

func (suite *EnhancedRepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newTestStore(suite.T(), allTestEntities()...)
	suite.enhanced = NewDynamoDBEnhancedRepository(suite.store, testSuffix, testLogger(), nil)
	suite.main = NewDynamoDBRepository[entity.MainTableEntity](suite.store, "main_table_test", ReportLookupErrors, testLogger(), nil)
	suite.events = NewDynamoDBRepository[entity.EventTableEntity](suite.store, "event_table_test", ReportLookupErrors, testLogger(), nil)
	suite.base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
}

func (suite *EnhancedRepositoryTestSuite) seedOrders(n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("id-%03d", i)
		ids = append(ids, id)
		require.NoError(suite.T(), suite.main.Save(suite.ctx, entity.NewOrderEntity(models.Order{ID: id, ProductName: "widget", Email: "a@example.com", Amount: i})))
	}
	return ids
}

func (suite *EnhancedRepositoryTestSuite) seedEvents(n int) []models.Event {
	events := make([]models.Event, 0, n)
	for i := 0; i < n; i++ {
		ev := models.Event{Type: models.EventTypeClick, Date: suite.base.Add(time.Duration(i) * time.Minute)}
		events = append(events, ev)
		require.NoError(suite.T(), suite.events.Save(suite.ctx, entity.NewEventEntity(ev)))
	}
	return events
}

func orderKeys(ids ...string) []models.PrimaryKey {
	keys := make([]models.PrimaryKey, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, models.PrimaryKey{PK: models.StringKey(entity.OrderPartition), SK: models.StringKey(id)})
	}
	return keys
}

func (suite *EnhancedRepositoryTestSuite) TestSaveInTransactionWritesEveryTable() {
	order := models.Order{ID: "id-1", ProductName: "widget", Email: "a@example.com", Amount: 2}
	event := models.Event{Type: models.EventTypeSend, Date: suite.base}

	err := suite.enhanced.SaveInTransaction(suite.ctx, entity.NewOrderEntity(order), entity.NewEventEntity(event))
	require.NoError(suite.T(), err)

	savedOrder, err := suite.main.FindByPrimaryKeys(suite.ctx, models.StringKey(entity.OrderPartition), models.StringKey("id-1"))
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), savedOrder)
	assert.Equal(suite.T(), order, savedOrder.ToOrder())

	key := entity.EventKey(event.Type, event.Date)
	savedEvent, err := suite.events.FindByPrimaryKeys(suite.ctx, key.PK, key.SK)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), savedEvent)
}

func (suite *EnhancedRepositoryTestSuite) TestSaveInTransactionWithInvalidItemWritesNothing() {
	order := entity.NewOrderEntity(models.Order{ID: "id-1", ProductName: "widget", Email: "a@example.com"})

	err := suite.enhanced.SaveInTransaction(suite.ctx, order, flagEntity{PK: true})

	assert.ErrorIs(suite.T(), err, dal.ErrUnsupportedKeyType)
	rows, err := suite.main.FindAllByPK(suite.ctx, models.StringKey(entity.OrderPartition))
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), rows)
}

func (suite *EnhancedRepositoryTestSuite) TestSaveInTransactionRejectedByStoreWritesNothing() {
	// two writes to one item are refused by the store as a whole
	first := entity.NewOrderEntity(models.Order{ID: "id-1", ProductName: "widget", Email: "a@example.com"})
	other := entity.NewOrderEntity(models.Order{ID: "id-2", ProductName: "gadget", Email: "a@example.com"})

	err := suite.enhanced.SaveInTransaction(suite.ctx, other, first, first)

	assert.ErrorIs(suite.T(), err, dal.ErrStoreFailure)
	rows, err := suite.main.FindAllByPK(suite.ctx, models.StringKey(entity.OrderPartition))
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), rows)
}

func (suite *EnhancedRepositoryTestSuite) TestSaveInTransactionLimits() {
	assert.NoError(suite.T(), suite.enhanced.SaveInTransaction(suite.ctx))

	items := make([]dal.TableEntity, dal.MaxTransactItems+1)
	for i := range items {
		items[i] = entity.NewOrderEntity(models.Order{ID: fmt.Sprintf("id-%d", i)})
	}
	err := suite.enhanced.SaveInTransaction(suite.ctx, items...)
	assert.ErrorIs(suite.T(), err, dal.ErrTransactionTooLarge)
}

func (suite *EnhancedRepositoryTestSuite) TestBatchGetItemsPreservesResourcesAndOrder() {
	ids := suite.seedOrders(5)
	events := suite.seedEvents(3)

	requestedIDs := []string{ids[3], ids[0], ids[4], ids[1], ids[2]}
	eventKeys := []models.PrimaryKey{
		entity.EventKey(events[2].Type, events[2].Date),
		entity.EventKey(events[0].Type, events[0].Date),
		entity.EventKey(events[1].Type, events[1].Date),
	}

	responses, err := suite.enhanced.BatchGetItems(suite.ctx, []BatchResource{
		NewBatchResource[entity.MainTableEntity](orderKeys(requestedIDs...)...),
		NewBatchResource[entity.EventTableEntity](eventKeys...),
	})

	require.NoError(suite.T(), err)
	require.Len(suite.T(), responses, 2)
	assert.Equal(suite.T(), "main_table_test", responses[0].TableName)
	assert.Equal(suite.T(), "event_table_test", responses[1].TableName)

	orders := ItemsOf[entity.MainTableEntity](responses[0])
	assert.Equal(suite.T(), requestedIDs, idsOf(orders))

	gotEvents := ItemsOf[entity.EventTableEntity](responses[1])
	require.Len(suite.T(), gotEvents, 3)
	for i, key := range eventKeys {
		assert.Equal(suite.T(), string(key.SK.(models.StringKey)), gotEvents[i].Date)
	}

	assert.Nil(suite.T(), ItemsOf[entity.EventTableEntity](responses[0]))
}

func (suite *EnhancedRepositoryTestSuite) TestBatchGetItemsSharedTableAndAbsentKeys() {
	ids := suite.seedOrders(3)

	responses, err := suite.enhanced.BatchGetItems(suite.ctx, []BatchResource{
		NewBatchResource[entity.MainTableEntity](orderKeys(ids[0], "missing", ids[1])...),
		NewBatchResource[entity.MainTableEntity](orderKeys(ids[1], ids[2])...),
		NewBatchResource[entity.EventTableEntity](),
	})

	require.NoError(suite.T(), err)
	require.Len(suite.T(), responses, 3)
	assert.Equal(suite.T(), []string{ids[0], ids[1]}, idsOf(ItemsOf[entity.MainTableEntity](responses[0])))
	assert.Equal(suite.T(), []string{ids[1], ids[2]}, idsOf(ItemsOf[entity.MainTableEntity](responses[1])))
	assert.Empty(suite.T(), ItemsOf[entity.EventTableEntity](responses[2]))
}

func (suite *EnhancedRepositoryTestSuite) TestBatchGetItemsChunksLargeRequests() {
	ids := suite.seedOrders(dal.MaxBatchGetKeys + 30)

	responses, err := suite.enhanced.BatchGetItems(suite.ctx, []BatchResource{
		NewBatchResource[entity.MainTableEntity](orderKeys(ids...)...),
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), ids, idsOf(ItemsOf[entity.MainTableEntity](responses[0])))
}

func (suite *EnhancedRepositoryTestSuite) TestBatchGetItemsReportsUnprocessedKeys() {
	ids := suite.seedOrders(5)
	suite.store.BatchGetLimit = 2

	responses, err := suite.enhanced.BatchGetItems(suite.ctx, []BatchResource{
		NewBatchResource[entity.MainTableEntity](orderKeys(ids...)...),
	})

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, dal.ErrBatchIncomplete)
	assert.True(suite.T(), IsPartialBatch(err))

	var perr *PartialBatchError
	require.True(suite.T(), errors.As(err, &perr))
	assert.Equal(suite.T(), 3, perr.Count())
	assert.Equal(suite.T(), map[string]int{"main_table_test": 3}, perr.Unprocessed)

	require.Len(suite.T(), responses, 1)
	assert.Equal(suite.T(), ids[:2], idsOf(ItemsOf[entity.MainTableEntity](responses[0])))
}

func (suite *EnhancedRepositoryTestSuite) TestBatchGetItemsRejectsInvalidKeys() {
	_, err := suite.enhanced.BatchGetItems(suite.ctx, []BatchResource{
		NewBatchResource[entity.MainTableEntity](models.PrimaryKey{PK: nil}),
	})

	assert.ErrorIs(suite.T(), err, dal.ErrUnsupportedKeyType)
}

func (suite *EnhancedRepositoryTestSuite) TestBatchGetItemsChecksKeysAgainstSchema() {
	// a string sort value on the numeric score key
	_, err := suite.enhanced.BatchGetItems(suite.ctx, []BatchResource{
		NewBatchResource[scoreEntity](models.PrimaryKey{PK: models.StringKey("p1"), SK: models.StringKey("five")}),
	})
	assert.ErrorIs(suite.T(), err, dal.ErrUnsupportedKeyType)
	assert.False(suite.T(), IsPartialBatch(err))
	assert.NotErrorIs(suite.T(), err, dal.ErrStoreFailure)

	_, err = suite.enhanced.BatchGetItems(suite.ctx, []BatchResource{
		NewBatchResource[entity.MainTableEntity](models.PrimaryKey{PK: models.StringKey(entity.OrderPartition)}),
	})
	assert.ErrorIs(suite.T(), err, dal.ErrMissingKey)
}

func (suite *EnhancedRepositoryTestSuite) TestBatchGetItemsWithoutResources() {
	responses, err := suite.enhanced.BatchGetItems(suite.ctx, nil)

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), responses)
}

func TestEnhancedRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(EnhancedRepositoryTestSuite))
}

func TestSaveInTransactionCancelledByStore(t *testing.T) {
	api := &MockDynamoDBAPI{}
	api.On("TransactWriteItems", mock.Anything, mock.Anything).
		Return(nil, &types.TransactionCanceledException{Message: aws.String("conditional check failed")})

	enhanced := NewDynamoDBEnhancedRepository(api, testSuffix, testLogger(), nil)
	err := enhanced.SaveInTransaction(context.Background(), entity.NewOrderEntity(models.Order{ID: "id-1"}))

	assert.ErrorIs(t, err, dal.ErrTransactionAborted)
	assert.True(t, dal.IsTransactionCanceled(err))
	api.AssertExpectations(t)
}

func TestBatchGetItemsStoreFailure(t *testing.T) {
	api := &MockDynamoDBAPI{}
	api.On("BatchGetItem", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	enhanced := NewDynamoDBEnhancedRepository(api, testSuffix, testLogger(), nil)
	responses, err := enhanced.BatchGetItems(context.Background(), []BatchResource{
		NewBatchResource[entity.MainTableEntity](orderKeys("id-1")...),
	})

	assert.Nil(t, responses)
	assert.ErrorIs(t, err, dal.ErrStoreFailure)
}
