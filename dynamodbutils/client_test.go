package dynamodbutils

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type fakeDynamoDB struct {
	getOut    *dynamodb.GetItemOutput
	getErr    error
	scanPages []*dynamodb.ScanOutput
	scanCalls int

	lastGet         *dynamodb.GetItemInput
	lastPut         *dynamodb.PutItemInput
	lastDelete      *dynamodb.DeleteItemInput
	lastUpdate      *dynamodb.UpdateItemInput
	lastScan        *dynamodb.ScanInput
	lastCreateTable *dynamodb.CreateTableInput
	lastDeleteTable *dynamodb.DeleteTableInput
	lastUpdateTable *dynamodb.UpdateTableInput
}

func (f *fakeDynamoDB) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGet = params
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut != nil {
		return f.getOut, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamoDB) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPut = params
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.lastDelete = params
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoDB) UpdateItem(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.lastUpdate = params
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamoDB) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.lastScan = params
	if f.scanCalls >= len(f.scanPages) {
		return &dynamodb.ScanOutput{}, nil
	}
	page := f.scanPages[f.scanCalls]
	f.scanCalls++
	return page, nil
}

func (f *fakeDynamoDB) CreateTable(_ context.Context, params *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.lastCreateTable = params
	return &dynamodb.CreateTableOutput{}, nil
}

func (f *fakeDynamoDB) DeleteTable(_ context.Context, params *dynamodb.DeleteTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	f.lastDeleteTable = params
	return &dynamodb.DeleteTableOutput{}, nil
}

func (f *fakeDynamoDB) UpdateTable(_ context.Context, params *dynamodb.UpdateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateTableOutput, error) {
	f.lastUpdateTable = params
	return &dynamodb.UpdateTableOutput{}, nil
}

type user struct {
	ID   string `dynamodbav:"id"`
	Name string `dynamodbav:"name"`
	Age  int    `dynamodbav:"age"`
}

func TestGetItem(t *testing.T) {
	fake := &fakeDynamoDB{getOut: &dynamodb.GetItemOutput{
		Item: map[string]types.AttributeValue{
			"id":   &types.AttributeValueMemberS{Value: "u1"},
			"name": &types.AttributeValueMemberS{Value: "alice"},
			"age":  &types.AttributeValueMemberN{Value: "30"},
		},
	}}
	client := FromDynamoDBClient(fake)

	got, err := GetItem[user](context.Background(), client, "users", "id", StringValue("u1"))
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	want := user{ID: "u1", Name: "alice", Age: 30}
	if got != want {
		t.Fatalf("GetItem = %+v, want %+v", got, want)
	}

	if table := aws.ToString(fake.lastGet.TableName); table != "users" {
		t.Fatalf("table = %q, want \"users\"", table)
	}
	if !reflect.DeepEqual(fake.lastGet.Key, map[string]types.AttributeValue{"id": StringValue("u1")}) {
		t.Fatalf("key = %v", fake.lastGet.Key)
	}
}

func TestGetItemNotFound(t *testing.T) {
	client := FromDynamoDBClient(&fakeDynamoDB{})

	if _, err := GetItem[user](context.Background(), client, "users", "id", StringValue("nope")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGetItemWrapsSDKError(t *testing.T) {
	cause := errors.New("throttled")
	client := FromDynamoDBClient(&fakeDynamoDB{getErr: cause})

	_, err := GetItem[user](context.Background(), client, "users", "id", StringValue("u1"))
	if !errors.Is(err, cause) {
		t.Fatalf("error = %v, want wrapped %v", err, cause)
	}
}

func TestPutItem(t *testing.T) {
	fake := &fakeDynamoDB{}
	client := FromDynamoDBClient(fake)
	id := uuid.NewString()

	if _, err := PutItem(context.Background(), client, "users", user{ID: id, Name: "bob", Age: 41}); err != nil {
		t.Fatalf("PutItem: %v", err)
	}

	item := fake.lastPut.Item
	if got := item["id"].(*types.AttributeValueMemberS).Value; got != id {
		t.Fatalf("id attribute = %q, want %q", got, id)
	}
	if got := item["age"].(*types.AttributeValueMemberN).Value; got != "41" {
		t.Fatalf("age attribute = %q, want \"41\"", got)
	}
}

func TestDeleteItem(t *testing.T) {
	fake := &fakeDynamoDB{}
	client := FromDynamoDBClient(fake)

	if _, err := client.DeleteItem(context.Background(), "users", "id", StringValue("u1")); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if !reflect.DeepEqual(fake.lastDelete.Key, map[string]types.AttributeValue{"id": StringValue("u1")}) {
		t.Fatalf("key = %v", fake.lastDelete.Key)
	}
}

func TestSetValue(t *testing.T) {
	fake := &fakeDynamoDB{}
	client := FromDynamoDBClient(fake)

	if _, err := client.SetValue(context.Background(), "users", "id", StringValue("u1"), "name", StringValue("carol")); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	if expr := aws.ToString(fake.lastUpdate.UpdateExpression); expr != "SET name = :val" {
		t.Fatalf("expression = %q", expr)
	}
	if !reflect.DeepEqual(fake.lastUpdate.ExpressionAttributeValues, map[string]types.AttributeValue{":val": StringValue("carol")}) {
		t.Fatalf("values = %v", fake.lastUpdate.ExpressionAttributeValues)
	}
}

func TestAddValue(t *testing.T) {
	fake := &fakeDynamoDB{}
	client := FromDynamoDBClient(fake)

	if _, err := client.AddValue(context.Background(), "users", "id", StringValue("u1"), "age", NumberValue(1)); err != nil {
		t.Fatalf("AddValue: %v", err)
	}
	if expr := aws.ToString(fake.lastUpdate.UpdateExpression); expr != "ADD age :val" {
		t.Fatalf("expression = %q", expr)
	}
}

func TestScanItemsFollowsPagination(t *testing.T) {
	page := func(id string, more bool) *dynamodb.ScanOutput {
		out := &dynamodb.ScanOutput{
			Items: []map[string]types.AttributeValue{{
				"id":   &types.AttributeValueMemberS{Value: id},
				"name": &types.AttributeValueMemberS{Value: "n"},
				"age":  &types.AttributeValueMemberN{Value: "1"},
			}},
		}
		if more {
			out.LastEvaluatedKey = map[string]types.AttributeValue{"id": StringValue(id)}
		}
		return out
	}
	fake := &fakeDynamoDB{scanPages: []*dynamodb.ScanOutput{
		page("u1", true),
		page("u2", false),
	}}
	client := FromDynamoDBClient(fake)

	got, err := ScanItems[user](context.Background(), client, "users")
	if err != nil {
		t.Fatalf("ScanItems: %v", err)
	}
	if len(got) != 2 || got[0].ID != "u1" || got[1].ID != "u2" {
		t.Fatalf("ScanItems = %+v", got)
	}
	if fake.scanCalls != 2 {
		t.Fatalf("Scan called %d times, want 2", fake.scanCalls)
	}
}

func TestCreateTableOnDemand(t *testing.T) {
	fake := &fakeDynamoDB{}
	client := FromDynamoDBClient(fake)

	if _, err := client.CreateTable(context.Background(), "users", "id", "", nil); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	in := fake.lastCreateTable
	if in.BillingMode != types.BillingModePayPerRequest {
		t.Fatalf("billing mode = %v", in.BillingMode)
	}
	if len(in.KeySchema) != 1 || in.KeySchema[0].KeyType != types.KeyTypeHash {
		t.Fatalf("key schema = %v", in.KeySchema)
	}
}

func TestCreateTableProvisionedWithSortKey(t *testing.T) {
	fake := &fakeDynamoDB{}
	client := FromDynamoDBClient(fake)

	if _, err := client.CreateTable(context.Background(), "events", "id", "ts", &Throughput{Read: 5, Write: 2}); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	in := fake.lastCreateTable
	if len(in.KeySchema) != 2 || in.KeySchema[1].KeyType != types.KeyTypeRange {
		t.Fatalf("key schema = %v", in.KeySchema)
	}
	if aws.ToInt64(in.ProvisionedThroughput.ReadCapacityUnits) != 5 {
		t.Fatalf("read capacity = %v", in.ProvisionedThroughput)
	}
}

func TestUpdateProvisionedThroughput(t *testing.T) {
	fake := &fakeDynamoDB{}
	client := FromDynamoDBClient(fake)

	if _, err := client.UpdateProvisionedThroughput(context.Background(), "users", 10, 4); err != nil {
		t.Fatalf("UpdateProvisionedThroughput: %v", err)
	}
	pt := fake.lastUpdateTable.ProvisionedThroughput
	if aws.ToInt64(pt.ReadCapacityUnits) != 10 || aws.ToInt64(pt.WriteCapacityUnits) != 4 {
		t.Fatalf("throughput = %v", pt)
	}
}

func TestNumberValue(t *testing.T) {
	if got := NumberValue(42).(*types.AttributeValueMemberN).Value; got != "42" {
		t.Fatalf("NumberValue(42) = %q", got)
	}
	if got := NumberValue(1.5).(*types.AttributeValueMemberN).Value; got != "1.5" {
		t.Fatalf("NumberValue(1.5) = %q", got)
	}
}
