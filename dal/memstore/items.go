package memstore

import (
	"context"
	"maps"
	"slices"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// keyOf validates a primary key map against the table key schema
func (t *table) keyOf(key map[string]types.AttributeValue) (pk, sk types.AttributeValue, err error) {
	want := 1
	if t.key.sk != "" {
		want = 2
	}
	if len(key) != want {
		return nil, nil, validationError("the provided key element does not match the schema of %s", t.name)
	}
	pk, ok := key[t.key.pk]
	if !ok || !isKeyScalar(pk, t.key.pkType) {
		return nil, nil, validationError("the provided key element does not match the schema of %s", t.name)
	}
	if t.key.sk == "" {
		return pk, nil, nil
	}
	sk, ok = key[t.key.sk]
	if !ok || !isKeyScalar(sk, t.key.skType) {
		return nil, nil, validationError("the provided key element does not match the schema of %s", t.name)
	}
	return pk, sk, nil
}

// itemKey validates the key and index key attributes of an item and returns its primary key
func (t *table) itemKey(item map[string]types.AttributeValue) (pk, sk types.AttributeValue, err error) {
	key := map[string]types.AttributeValue{t.key.pk: item[t.key.pk]}
	if key[t.key.pk] == nil {
		return nil, nil, validationError("missing the key %s in the item", t.key.pk)
	}
	if t.key.sk != "" {
		if item[t.key.sk] == nil {
			return nil, nil, validationError("missing the key %s in the item", t.key.sk)
		}
		key[t.key.sk] = item[t.key.sk]
	}
	for name, def := range t.indexes {
		if v, ok := item[def.pk]; ok && !isKeyScalar(v, def.pkType) {
			return nil, nil, validationError("type mismatch for index key %s of %s", def.pk, name)
		}
		if def.sk == "" {
			continue
		}
		if v, ok := item[def.sk]; ok && !isKeyScalar(v, def.skType) {
			return nil, nil, validationError("type mismatch for index key %s of %s", def.sk, name)
		}
	}
	return t.keyOf(key)
}

func (t *table) get(pk, sk types.AttributeValue) (*row, bool) {
	p, ok := t.partitions[encodeValue(pk)]
	if !ok {
		return nil, false
	}
	return p.Get(&row{sortKey: sk})
}

func (t *table) put(pk, sk types.AttributeValue, item map[string]types.AttributeValue) {
	t.partition(pk).ReplaceOrInsert(&row{sortKey: sk, item: maps.Clone(item)})
}

func (t *table) delete(pk, sk types.AttributeValue) {
	id := encodeValue(pk)
	p, ok := t.partitions[id]
	if !ok {
		return
	}
	p.Delete(&row{sortKey: sk})
	if p.Len() == 0 {
		delete(t.partitions, id)
	}
}

// pageKey returns the key attributes DynamoDB reports in LastEvaluatedKey
func (t *table) pageKey(item map[string]types.AttributeValue, index *keyDef) map[string]types.AttributeValue {
	key := map[string]types.AttributeValue{t.key.pk: item[t.key.pk]}
	if t.key.sk != "" {
		key[t.key.sk] = item[t.key.sk]
	}
	if index != nil {
		key[index.pk] = item[index.pk]
		if index.sk != "" {
			key[index.sk] = item[index.sk]
		}
	}
	return key
}

func (t *table) baseKeyID(item map[string]types.AttributeValue) string {
	id := encodeValue(item[t.key.pk])
	if t.key.sk != "" {
		id += "|" + encodeValue(item[t.key.sk])
	}
	return id
}

// page applies ExclusiveStartKey and Limit to an ordered result set
func (t *table) page(rows []*row, start map[string]types.AttributeValue, limit *int32, index *keyDef) ([]map[string]types.AttributeValue, map[string]types.AttributeValue) {
	from := 0
	if len(start) > 0 {
		startID := t.baseKeyID(start)
		for i, r := range rows {
			if t.baseKeyID(r.item) == startID {
				from = i + 1
				break
			}
		}
	}
	rows = rows[from:]

	var lastKey map[string]types.AttributeValue
	if limit != nil && *limit > 0 && int(*limit) < len(rows) {
		rows = rows[:*limit]
		lastKey = t.pageKey(rows[len(rows)-1].item, index)
	}

	items := make([]map[string]types.AttributeValue, 0, len(rows))
	for _, r := range rows {
		items = append(items, maps.Clone(r.item))
	}
	return items, lastKey
}

// GetItem reads one item by primary key
func (s *Store) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}
	pk, sk, err := t.keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	r, found := t.get(pk, sk)
	if !found {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: maps.Clone(r.item)}, nil
}

// PutItem replaces an item
func (s *Store) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}
	pk, sk, err := t.itemKey(params.Item)
	if err != nil {
		return nil, err
	}
	t.put(pk, sk, params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// DeleteItem removes an item. Deleting an absent item succeeds.
func (s *Store) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}
	pk, sk, err := t.keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	t.delete(pk, sk)
	return &dynamodb.DeleteItemOutput{}, nil
}

// Scan returns items in partition order, then sort key order
func (s *Store) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}
	if params.IndexName != nil {
		return nil, validationError("index scans are not supported")
	}

	rows := t.rows()
	items, lastKey := t.page(rows, params.ExclusiveStartKey, params.Limit, nil)
	return &dynamodb.ScanOutput{
		Items:            items,
		Count:            int32(len(items)),
		ScannedCount:     int32(len(items)),
		LastEvaluatedKey: lastKey,
	}, nil
}

// Query evaluates a key condition against the table or one of its indexes
func (s *Store) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}

	def := t.key
	var index *keyDef
	if params.IndexName != nil {
		d, ok := t.indexes[*params.IndexName]
		if !ok {
			return nil, validationError("the table does not have the specified index: %s", *params.IndexName)
		}
		def, index = d, &d
	}

	conds, err := parseKeyCondition(aws.ToString(params.KeyConditionExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}

	var pkValue types.AttributeValue
	for _, c := range conds {
		switch {
		case c.attr == def.pk && c.op == "=":
			pkValue = c.values[0]
		case c.attr == def.sk && def.sk != "":
		default:
			return nil, validationError("query key condition not supported on %s", c.attr)
		}
	}
	if pkValue == nil {
		return nil, validationError("query condition missed key schema element: %s", def.pk)
	}

	var candidates []*row
	if index == nil {
		if p, ok := t.partitions[encodeValue(pkValue)]; ok {
			p.Ascend(func(r *row) bool {
				candidates = append(candidates, r)
				return true
			})
		}
	} else {
		candidates = t.rows()
	}

	matched := make([]*row, 0, len(candidates))
	for _, r := range candidates {
		if index != nil {
			if _, ok := r.item[index.pk]; !ok {
				continue
			}
			if index.sk != "" {
				if _, ok := r.item[index.sk]; !ok {
					continue
				}
			}
		}
		ok := true
		for _, c := range conds {
			if !c.matches(r.item) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, r)
		}
	}

	if index != nil && index.sk != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			return compareValues(matched[i].item[index.sk], matched[j].item[index.sk]) < 0
		})
	}
	if params.ScanIndexForward != nil && !*params.ScanIndexForward {
		slices.Reverse(matched)
	}

	items, lastKey := t.page(matched, params.ExclusiveStartKey, params.Limit, index)
	return &dynamodb.QueryOutput{
		Items:            items,
		Count:            int32(len(items)),
		ScannedCount:     int32(len(items)),
		LastEvaluatedKey: lastKey,
	}, nil
}

type pendingWrite struct {
	table *table
	pk    types.AttributeValue
	sk    types.AttributeValue
	item  map[string]types.AttributeValue
}

// TransactWriteItems applies Put and Delete actions atomically. Every action is
// validated before any is applied.
func (s *Store) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(params.TransactItems) == 0 || len(params.TransactItems) > maxTransactItems {
		return nil, validationError("transaction must contain between 1 and %d items", maxTransactItems)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writes := make([]pendingWrite, 0, len(params.TransactItems))
	seen := make(map[string]bool, len(params.TransactItems))
	for _, action := range params.TransactItems {
		var w pendingWrite
		switch {
		case action.Put != nil:
			t, err := s.getTable(action.Put.TableName)
			if err != nil {
				return nil, err
			}
			pk, sk, err := t.itemKey(action.Put.Item)
			if err != nil {
				return nil, err
			}
			w = pendingWrite{table: t, pk: pk, sk: sk, item: action.Put.Item}
		case action.Delete != nil:
			t, err := s.getTable(action.Delete.TableName)
			if err != nil {
				return nil, err
			}
			pk, sk, err := t.keyOf(action.Delete.Key)
			if err != nil {
				return nil, err
			}
			w = pendingWrite{table: t, pk: pk, sk: sk}
		default:
			return nil, validationError("only Put and Delete actions are supported")
		}

		id := w.table.name + "|" + encodeValue(w.pk)
		if w.sk != nil {
			id += "|" + encodeValue(w.sk)
		}
		if seen[id] {
			return nil, validationError("transaction request cannot include multiple operations on one item")
		}
		seen[id] = true
		writes = append(writes, w)
	}

	for _, w := range writes {
		if w.item != nil {
			w.table.put(w.pk, w.sk, w.item)
		} else {
			w.table.delete(w.pk, w.sk)
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

type batchKey struct {
	table *table
	key   map[string]types.AttributeValue
	pk    types.AttributeValue
	sk    types.AttributeValue
}

// BatchGetItem reads up to 100 keys across tables. Absent items are omitted.
// Keys beyond BatchGetLimit come back as UnprocessedKeys.
func (s *Store) BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params == nil || len(params.RequestItems) == 0 {
		return nil, validationError("request items is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(params.RequestItems))
	for name := range params.RequestItems {
		names = append(names, name)
	}
	sort.Strings(names)

	var keys []batchKey
	for _, name := range names {
		t, err := s.getTable(aws.String(name))
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		for _, key := range params.RequestItems[name].Keys {
			pk, sk, err := t.keyOf(key)
			if err != nil {
				return nil, err
			}
			id := t.baseKeyID(key)
			if seen[id] {
				return nil, validationError("provided list of item keys contains duplicates")
			}
			seen[id] = true
			keys = append(keys, batchKey{table: t, key: key, pk: pk, sk: sk})
		}
	}
	if len(keys) > maxBatchGetKeys {
		return nil, validationError("too many items requested for the BatchGetItem call")
	}

	out := &dynamodb.BatchGetItemOutput{
		Responses:       make(map[string][]map[string]types.AttributeValue),
		UnprocessedKeys: make(map[string]types.KeysAndAttributes),
	}
	for i, k := range keys {
		if s.BatchGetLimit > 0 && i >= s.BatchGetLimit {
			unprocessed := out.UnprocessedKeys[k.table.name]
			unprocessed.Keys = append(unprocessed.Keys, k.key)
			out.UnprocessedKeys[k.table.name] = unprocessed
			continue
		}
		if r, found := k.table.get(k.pk, k.sk); found {
			out.Responses[k.table.name] = append(out.Responses[k.table.name], maps.Clone(r.item))
		}
	}
	return out, nil
}
