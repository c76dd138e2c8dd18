package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Dynamo is the DynamoDB-backed Adapter. All entity kinds share one table:
// the partition key "pk" holds the kind, the numeric sort key "sk" holds the
// store-assigned id, so a kind's collection scans in creation order.
type Dynamo struct {
	client *dynamodb.Client
	config Config
}

// NewDynamo creates a DynamoDB adapter.
func NewDynamo(client *dynamodb.Client, config Config) *Dynamo {
	config.validate()
	return &Dynamo{
		client: client,
		config: config,
	}
}

// counterKey returns the key of the id-allocation item for a kind.
// Counters live in their own partitions so collection queries never see them.
func (d *Dynamo) counterKey(kind string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: d.config.CounterPartition + "#" + kind},
		"sk": &types.AttributeValueMemberN{Value: "0"},
	}
}

// entityKey returns the primary key for an entity of a kind.
func (d *Dynamo) entityKey(kind, id string) (map[string]types.AttributeValue, error) {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return nil, ErrNotFound
	}
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: kind},
		"sk": &types.AttributeValueMemberN{Value: id},
	}, nil
}

// nextID atomically allocates the next numeric id for a kind.
func (d *Dynamo) nextID(ctx context.Context, kind string) (string, error) {
	out, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(d.config.Table),
		Key:              d.counterKey(kind),
		UpdateExpression: aws.String("ADD seq :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return "", fmt.Errorf("allocate id: %w", err)
	}
	seq, ok := out.Attributes["seq"].(*types.AttributeValueMemberN)
	if !ok {
		return "", fmt.Errorf("allocate id: counter for %q returned no sequence", kind)
	}
	return seq.Value, nil
}

// Get retrieves a single entity, ErrNotFound if absent.
func (d *Dynamo) Get(ctx context.Context, kind, id string) (Record, error) {
	key, err := d.entityKey(kind, id)
	if err != nil {
		return nil, err
	}
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.config.Table),
		Key:       key,
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}
	return unmarshalRecord(result.Item)
}

// GetCollection retrieves every entity of a kind, in id order.
func (d *Dynamo) GetCollection(ctx context.Context, kind string) ([]Record, error) {
	records := []Record{}
	paginator := dynamodb.NewQueryPaginator(d.client, d.collectionQuery(kind))
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			rec, err := unmarshalRecord(raw)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// RunPagedQuery reads one bounded page of a kind's collection.
func (d *Dynamo) RunPagedQuery(ctx context.Context, kind string, limit int32, cursor string) (Page, error) {
	input := d.collectionQuery(kind)
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}
	if cursor != "" {
		start, err := decodeCursor(cursor)
		if err != nil {
			return Page{}, err
		}
		input.ExclusiveStartKey = start
	}

	result, err := d.client.Query(ctx, input)
	if err != nil {
		return Page{}, err
	}

	page := Page{Items: []Record{}}
	for _, raw := range result.Items {
		rec, err := unmarshalRecord(raw)
		if err != nil {
			return Page{}, err
		}
		page.Items = append(page.Items, rec)
	}

	// DynamoDB signals further results via LastEvaluatedKey. A page that
	// ends exactly at the collection boundary may still carry one; the
	// follow-up query then yields an empty final page, which callers
	// already tolerate.
	if result.LastEvaluatedKey != nil {
		end, err := encodeCursor(result.LastEvaluatedKey)
		if err != nil {
			return Page{}, err
		}
		page.HasMore = true
		page.EndCursor = end
	}
	return page, nil
}

// Save persists a new entity and returns the store-assigned numeric id.
func (d *Dynamo) Save(ctx context.Context, kind string, data Record) (string, error) {
	id, err := d.nextID(ctx, kind)
	if err != nil {
		return "", err
	}

	item, err := marshalRecord(kind, id, data)
	if err != nil {
		return "", err
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.config.Table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(sk)"),
	})
	if err != nil {
		return "", fmt.Errorf("save %s: %w", kind, err)
	}
	return id, nil
}

// Upsert writes an entity that already carries its id field.
func (d *Dynamo) Upsert(ctx context.Context, kind string, rec Record) error {
	id, _ := rec["id"].(string)
	if id == "" {
		return fmt.Errorf("upsert %s: record has no id", kind)
	}

	item, err := marshalRecord(kind, id, rec)
	if err != nil {
		return err
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.config.Table),
		Item:      item,
	})
	return err
}

// Patch merges fields into an existing entity and returns the merged record.
// The merge is sparse: absent fields keep their stored values, and the id
// field is never overwritten.
func (d *Dynamo) Patch(ctx context.Context, kind, id string, fields Record) (Record, error) {
	current, err := d.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		current[k] = v
	}
	if err := d.Upsert(ctx, kind, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes an entity, ErrNotFound if absent or already removed.
func (d *Dynamo) Delete(ctx context.Context, kind, id string) error {
	key, err := d.entityKey(kind, id)
	if err != nil {
		return err
	}
	_, err = d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(d.config.Table),
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(sk)"),
	})
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return ErrNotFound
	}
	return err
}

// collectionQuery builds the key-condition query selecting one kind.
func (d *Dynamo) collectionQuery(kind string) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:              aws.String(d.config.Table),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: kind},
		},
	}
}

// pageKey is the JSON shape of a continuation cursor before encoding.
type pageKey struct {
	PK string `dynamodbav:"pk" json:"pk"`
	SK int64  `dynamodbav:"sk" json:"sk"`
}

// encodeCursor turns DynamoDB's LastEvaluatedKey into an opaque token.
// Standard base64 is used, so a token may contain '+' and survive the same
// URL-decoding round trip the cursor normalization layer repairs.
func encodeCursor(key map[string]types.AttributeValue) (string, error) {
	var pk pageKey
	if err := attributevalue.UnmarshalMap(key, &pk); err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	raw, err := json.Marshal(pk)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// decodeCursor turns an opaque token back into an ExclusiveStartKey.
func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrBadCursor
	}
	var pk pageKey
	if err := json.Unmarshal(raw, &pk); err != nil {
		return nil, ErrBadCursor
	}
	key, err := attributevalue.MarshalMap(pk)
	if err != nil {
		return nil, ErrBadCursor
	}
	return key, nil
}

// marshalRecord converts a record into a keyed DynamoDB item.
func marshalRecord(kind, id string, data Record) (map[string]types.AttributeValue, error) {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return nil, fmt.Errorf("marshal %s: non-numeric id %q", kind, id)
	}
	item, err := attributevalue.MarshalMap(map[string]any(data))
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", kind, err)
	}
	item["pk"] = &types.AttributeValueMemberS{Value: kind}
	item["sk"] = &types.AttributeValueMemberN{Value: id}
	return item, nil
}

// unmarshalRecord converts a DynamoDB item back into a record, dropping the
// internal key attributes.
func unmarshalRecord(raw map[string]types.AttributeValue) (Record, error) {
	var m map[string]any
	if err := attributevalue.UnmarshalMap(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	delete(m, "pk")
	delete(m, "sk")
	return Record(m), nil
}
