package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jarcoal/httpmock"
	"github.com/zingerfi/zingerfi-server/types"
)

// implements Repository interface using CouchDB
type CouchDBRepository struct {
	client *resty.Client
	dbName string
}

type findResponse struct {
	Docs    []json.RawMessage `json:"docs"`
	Warning string            `json:"warning,omitempty"`
}

func NewCouchDBRepository(url, DBName string, username string, password string, mock bool) (Repository, error) {
	cl := resty.New().SetBaseURL(url).SetTimeout(time.Second * 10)
	cl.SetHeader("Content-Type", "application/json")
	cl.SetHeader("Accept", "application/json")
	cl.SetHeader("User-Agent", "zingerfi-server/1.0.0")
	cl.SetBasicAuth(username, password)

	if mock {
		httpmock.ActivateNonDefault(cl.GetClient())
	}

	existsRes, existsErr := cl.R().Head(DBName)
	if existsErr != nil {
		return nil, fmt.Errorf("failed to check if database exists: %w", existsErr)
	}
	if existsRes.StatusCode() == http.StatusOK {
		return &CouchDBRepository{cl, DBName}, nil
	}

	// create DB since it doesn't exist (412 means another instance created it meanwhile)
	var ok types.OK
	createRes, createErr := cl.R().SetResult(&ok).Put(DBName)
	if createErr != nil {
		return nil, fmt.Errorf("failed to create database %s: %w", DBName, createErr)
	}
	if createRes.StatusCode() == http.StatusPreconditionFailed {
		return &CouchDBRepository{cl, DBName}, nil
	}
	if err := handleError(createRes); err != nil {
		return nil, fmt.Errorf("failed to create database %s: %w", DBName, err)
	}
	if !ok.IsOK {
		return nil, fmt.Errorf("failed to create database %s", DBName)
	}
	return &CouchDBRepository{cl, DBName}, nil
}

// GetByID returns a document (*resty.Response) by its ID
func (c *CouchDBRepository) GetByID(ctx context.Context, id string) (interface{}, error) {
	response, err := c.client.R().SetContext(ctx).Get(c.docPath(id))
	if err != nil {
		return nil, err
	}
	if hErr := handleError(response); hErr != nil {
		return nil, hErr
	}
	return response, nil
}

// Find runs a Mango query and returns raw documents. Sorting requires an index over the sort fields.
func (c *CouchDBRepository) Find(ctx context.Context, selector map[string]interface{}, sort []SortField, limit int) ([]json.RawMessage, error) {
	query := map[string]interface{}{
		"selector": selector,
		"limit":    limit,
	}
	if len(sort) > 0 {
		query["sort"] = sort
	}
	var result findResponse
	response, err := c.client.R().SetContext(ctx).SetBody(query).SetResult(&result).Post(fmt.Sprintf("%s/_find", c.dbName))
	if err != nil {
		return nil, err
	}
	if hErr := handleError(response); hErr != nil {
		return nil, hErr
	}
	return result.Docs, nil
}

// Save creates a new doc or updates an existing one (revision in data)
func (c *CouchDBRepository) Save(ctx context.Context, docID string, data interface{}) error {
	response, err := c.client.R().SetContext(ctx).SetBody(data).Put(c.docPath(docID))
	if err != nil {
		return err
	}
	return handleError(response)
}

// Delete deletes a document by its ID
func (c *CouchDBRepository) Delete(ctx context.Context, id string) error {
	doc, err := c.GetByID(ctx, id)
	if err != nil {
		return err
	}
	var base types.BaseDocument
	if mErr := MapToObject(doc, &base); mErr != nil {
		return mErr
	}
	response, err := c.client.R().SetContext(ctx).SetQueryParam("rev", base.Rev).Delete(c.docPath(id))
	if err != nil {
		return err
	}
	return handleError(response)
}

// return name of the database
func (c *CouchDBRepository) GetDBName() string {
	return c.dbName
}

// returns a resty client
func (c *CouchDBRepository) GetClient() interface{} {
	return c.client
}

func (c *CouchDBRepository) docPath(id string) string {
	return fmt.Sprintf("%s/%s", c.dbName, url.PathEscape(id))
}
