// Package dynamodbutils provides a thin convenience client for DynamoDB.
// Each method is a direct pass-through to the wrapped SDK call; operations
// not covered here are reachable through RawClient.
package dynamodbutils

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrNotFound is returned when a requested item does not exist.
var ErrNotFound = errors.New("item not found")

// Client wraps a DynamoDB client.
type Client struct {
	dynamodb DynamoDBAPI
}

// FromDynamoDBClient wraps an existing DynamoDB client (or any DynamoDBAPI).
func FromDynamoDBClient(api DynamoDBAPI) *Client {
	return &Client{dynamodb: api}
}

// FromConfig builds a client from an AWS config.
func FromConfig(cfg aws.Config) *Client {
	return FromDynamoDBClient(dynamodb.NewFromConfig(cfg))
}

// FromEnv builds a client using the default AWS config chain.
func FromEnv(ctx context.Context) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg), nil
}

// RawClient exposes the wrapped client for operations this package does not
// cover.
func (c *Client) RawClient() DynamoDBAPI {
	return c.dynamodb
}

// GetItemRaw fetches an item and returns the raw SDK output.
func (c *Client) GetItemRaw(ctx context.Context, table, keyName string, keyValue types.AttributeValue) (*dynamodb.GetItemOutput, error) {
	out, err := c.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       map[string]types.AttributeValue{keyName: keyValue},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return out, nil
}

// GetItem fetches an item and unmarshals it into T. A missing item yields
// ErrNotFound.
func GetItem[T any](ctx context.Context, c *Client, table, keyName string, keyValue types.AttributeValue) (T, error) {
	var item T
	out, err := c.GetItemRaw(ctx, table, keyName, keyValue)
	if err != nil {
		return item, err
	}
	if out.Item == nil {
		return item, ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return item, fmt.Errorf("unmarshal item: %w", err)
	}
	return item, nil
}

// PutItemRaw stores a raw attribute map.
func (c *Client) PutItemRaw(ctx context.Context, table string, item map[string]types.AttributeValue) (*dynamodb.PutItemOutput, error) {
	out, err := c.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}
	return out, nil
}

// PutItem marshals data and stores it.
func PutItem[T any](ctx context.Context, c *Client, table string, data T) (*dynamodb.PutItemOutput, error) {
	item, err := attributevalue.MarshalMap(data)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}
	return c.PutItemRaw(ctx, table, item)
}

// DeleteItem deletes the item with the given key.
func (c *Client) DeleteItem(ctx context.Context, table, keyName string, keyValue types.AttributeValue) (*dynamodb.DeleteItemOutput, error) {
	out, err := c.dynamodb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       map[string]types.AttributeValue{keyName: keyValue},
	})
	if err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	return out, nil
}

// SetValue sets one attribute of one item. The update is atomic.
func (c *Client) SetValue(ctx context.Context, table, keyName string, keyValue types.AttributeValue, target string, value types.AttributeValue) (*dynamodb.UpdateItemOutput, error) {
	out, err := c.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       map[string]types.AttributeValue{keyName: keyValue},
		UpdateExpression:          aws.String(fmt.Sprintf("SET %s = :val", target)),
		ExpressionAttributeValues: map[string]types.AttributeValue{":val": value},
	})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return out, nil
}

// AddValue adds a number to one numeric attribute of one item. The update
// is atomic.
func (c *Client) AddValue(ctx context.Context, table, keyName string, keyValue types.AttributeValue, target string, value types.AttributeValue) (*dynamodb.UpdateItemOutput, error) {
	out, err := c.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       map[string]types.AttributeValue{keyName: keyValue},
		UpdateExpression:          aws.String(fmt.Sprintf("ADD %s :val", target)),
		ExpressionAttributeValues: map[string]types.AttributeValue{":val": value},
	})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return out, nil
}

// ScanRaw scans the whole table, following pagination, and returns the raw
// attribute maps.
func (c *Client) ScanRaw(ctx context.Context, table string) ([]map[string]types.AttributeValue, error) {
	paginator := dynamodb.NewScanPaginator(c.dynamodb, &dynamodb.ScanInput{
		TableName: aws.String(table),
	})

	var items []map[string]types.AttributeValue
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// ScanItems scans the whole table and unmarshals every item into T.
func ScanItems[T any](ctx context.Context, c *Client, table string) ([]T, error) {
	raw, err := c.ScanRaw(ctx, table)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(raw))
	for _, m := range raw {
		var item T
		if err := attributevalue.UnmarshalMap(m, &item); err != nil {
			return nil, fmt.Errorf("unmarshal item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Throughput is a provisioned read/write capacity pair for CreateTable.
type Throughput struct {
	Read  int64
	Write int64
}

// CreateTable creates a table with a string hash key and, when sortKey is
// non-empty, a string range key. A nil throughput selects on-demand
// billing.
func (c *Client) CreateTable(ctx context.Context, table, key, sortKey string, throughput *Throughput) (*dynamodb.CreateTableOutput, error) {
	attrs := []types.AttributeDefinition{{
		AttributeName: aws.String(key),
		AttributeType: types.ScalarAttributeTypeS,
	}}
	schema := []types.KeySchemaElement{{
		AttributeName: aws.String(key),
		KeyType:       types.KeyTypeHash,
	}}
	if sortKey != "" {
		attrs = append(attrs, types.AttributeDefinition{
			AttributeName: aws.String(sortKey),
			AttributeType: types.ScalarAttributeTypeS,
		})
		schema = append(schema, types.KeySchemaElement{
			AttributeName: aws.String(sortKey),
			KeyType:       types.KeyTypeRange,
		})
	}

	input := &dynamodb.CreateTableInput{
		TableName:            aws.String(table),
		AttributeDefinitions: attrs,
		KeySchema:            schema,
	}
	if throughput == nil {
		input.BillingMode = types.BillingModePayPerRequest
	} else {
		input.ProvisionedThroughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(throughput.Read),
			WriteCapacityUnits: aws.Int64(throughput.Write),
		}
	}

	out, err := c.dynamodb.CreateTable(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return out, nil
}

// DeleteTable deletes a table.
func (c *Client) DeleteTable(ctx context.Context, table string) (*dynamodb.DeleteTableOutput, error) {
	out, err := c.dynamodb.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(table),
	})
	if err != nil {
		return nil, fmt.Errorf("delete table: %w", err)
	}
	return out, nil
}

// UpdateProvisionedThroughput updates a table's provisioned capacity.
func (c *Client) UpdateProvisionedThroughput(ctx context.Context, table string, read, write int64) (*dynamodb.UpdateTableOutput, error) {
	out, err := c.dynamodb.UpdateTable(ctx, &dynamodb.UpdateTableInput{
		TableName: aws.String(table),
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(read),
			WriteCapacityUnits: aws.Int64(write),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("update table: %w", err)
	}
	return out, nil
}
