package dynamo

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"movimenta_server/utils"
)

// fakeDynamo is an in-process stand-in that understands exactly the calls the
// store makes: key lookups, single-key queries, full scans and counter updates.
type fakeDynamo struct {
	mu       sync.Mutex
	schema   map[string][2]string
	tables   map[string]map[string]map[string]types.AttributeValue
	scanPage int
	putErr   error
	calls    map[string]int
}

func newFakeDynamo() *fakeDynamo {
	t := DefaultTables()
	return &fakeDynamo{
		schema: map[string][2]string{
			t.Profiles:     {"userId", ""},
			t.Interactions: {"actorId", "seq"},
			t.Pairings:     {"pairingId", ""},
			t.Messages:     {"chatId", "seq"},
			t.Counters:     {"name", ""},
		},
		tables: map[string]map[string]map[string]types.AttributeValue{},
		calls:  map[string]int{},
	}
}

func attrString(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return ""
}

func (f *fakeDynamo) key(table string, item map[string]types.AttributeValue) string {
	s := f.schema[table]
	k := attrString(item[s[0]])
	if s[1] != "" {
		k += "|" + attrString(item[s[1]])
	}
	return k
}

func (f *fakeDynamo) rows(table string) map[string]map[string]types.AttributeValue {
	if f.tables[table] == nil {
		f.tables[table] = map[string]map[string]types.AttributeValue{}
	}
	return f.tables[table]
}

func (f *fakeDynamo) sorted(table string) []map[string]types.AttributeValue {
	s := f.schema[table]
	var out []map[string]types.AttributeValue
	for _, item := range f.rows(table) {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := attrString(out[i][s[0]]), attrString(out[j][s[0]])
		if pi != pj {
			return pi < pj
		}
		return utils.ExtractInt64(out[i], s[1]) < utils.ExtractInt64(out[j], s[1])
	})
	return out
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["GetItem"]++
	return &dynamodb.GetItemOutput{Item: f.rows(*in.TableName)[f.key(*in.TableName, in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["PutItem"]++
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.rows(*in.TableName)[f.key(*in.TableName, in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows(*in.TableName), f.key(*in.TableName, in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.rows(*in.TableName)
	k := f.key(*in.TableName, in.Key)
	current := utils.ExtractInt64(rows[k], "value")
	inc, err := strconv.ParseInt(attrString(in.ExpressionAttributeValues[":one"]), 10, 64)
	if err != nil {
		return nil, err
	}
	item := map[string]types.AttributeValue{}
	for name, av := range in.Key {
		item[name] = av
	}
	item["value"] = utils.NumberAttr(current + inc)
	rows[k] = item
	return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{"value": item["value"]}}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Query"]++
	if len(in.ExpressionAttributeValues) != 1 {
		return nil, errors.New("fake query supports a single partition key value")
	}
	var want string
	for _, av := range in.ExpressionAttributeValues {
		want = attrString(av)
	}
	pk := f.schema[*in.TableName][0]
	var out []map[string]types.AttributeValue
	for _, item := range f.sorted(*in.TableName) {
		if attrString(item[pk]) == want {
			out = append(out, item)
		}
	}
	return &dynamodb.QueryOutput{Items: out}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Scan"]++
	all := f.sorted(*in.TableName)
	start := 0
	if in.ExclusiveStartKey != nil {
		after := f.key(*in.TableName, in.ExclusiveStartKey)
		for i, item := range all {
			if f.key(*in.TableName, item) == after {
				start = i + 1
				break
			}
		}
	}
	end := len(all)
	if f.scanPage > 0 && start+f.scanPage < end {
		end = start + f.scanPage
	}
	out := &dynamodb.ScanOutput{Items: all[start:end]}
	if end < len(all) {
		out.LastEvaluatedKey = all[end-1]
	}
	return out, nil
}

func (f *fakeDynamo) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["BatchWriteItem"]++
	for table, reqs := range in.RequestItems {
		if len(reqs) > maxBatchSize {
			return nil, errors.New("too many items in batch")
		}
		for _, r := range reqs {
			if r.DeleteRequest != nil {
				delete(f.rows(table), f.key(table, r.DeleteRequest.Key))
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}
