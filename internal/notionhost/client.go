// Package notionhost backs the datasheet contract with a Notion database.
// Notion keys page properties by name, so property names double as field IDs.
package notionhost

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
)

// NotionService is the subset of the Notion API the sheet needs.
type NotionService interface {
	GetDatabase(ctx context.Context, databaseID string) (*notionapi.Database, error)
	QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
	CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error)
	GetPage(ctx context.Context, pageID string) (*notionapi.Page, error)
}

// NotionClient is the concrete implementation of NotionService using the official Notion SDK.
type NotionClient struct {
	client *notionapi.Client
}

// NewNotionClient creates a new NotionClient with the provided API token.
func NewNotionClient(token string) *NotionClient {
	return &NotionClient{
		client: notionapi.NewClient(notionapi.Token(token)),
	}
}

// GetDatabase retrieves a database, including its property schema.
func (n *NotionClient) GetDatabase(ctx context.Context, databaseID string) (*notionapi.Database, error) {
	db, err := n.client.Database.Get(ctx, notionapi.DatabaseID(databaseID))
	if err != nil {
		return nil, fmt.Errorf("GetDatabase: %w", err)
	}

	return db, nil
}

// QueryDatabase queries a Notion database with the given filter.
func (n *NotionClient) QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	resp, err := n.client.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
	if err != nil {
		return nil, fmt.Errorf("QueryDatabase: %w", err)
	}

	return resp, nil
}

// CreatePage creates a new page in a Notion database with the given properties.
func (n *NotionClient) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: properties,
	}

	page, err := n.client.Page.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("CreatePage: %w", err)
	}

	return page, nil
}

// GetPage retrieves a single page by ID.
func (n *NotionClient) GetPage(ctx context.Context, pageID string) (*notionapi.Page, error) {
	page, err := n.client.Page.Get(ctx, notionapi.PageID(pageID))
	if err != nil {
		return nil, fmt.Errorf("GetPage: %w", err)
	}

	return page, nil
}
