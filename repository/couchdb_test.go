package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zingerfi/zingerfi-server/types"
)

var couchURL = "http://localhost:5689"

func InitMockDatabase(dbName string) (Repository, error) {
	httpmock.Activate()

	httpmock.RegisterResponder("HEAD", fmt.Sprintf("%s/%s", couchURL, dbName),
		httpmock.NewStringResponder(404, ``))
	mr, mErr := httpmock.NewJsonResponder(201, types.OK{IsOK: true})
	if mErr != nil {
		return nil, mErr
	}
	httpmock.RegisterResponder("PUT", fmt.Sprintf("%s/%s", couchURL, dbName), mr)

	return NewCouchDBRepository(couchURL, dbName, "test", "test", true)
}

func deactivateMock() {
	httpmock.DeactivateAndReset()
}

func TestInitNewDatabase(t *testing.T) {
	db, err := InitMockDatabase("test")
	defer deactivateMock()
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Equal(t, "test", db.GetDBName())
	assert.Equal(t, 1, httpmock.GetCallCountInfo()["PUT "+couchURL+"/test"])
}

func TestGetByID(t *testing.T) {
	db, err := InitMockDatabase("test")
	defer deactivateMock()
	require.NoError(t, err)

	mk, _ := httpmock.NewJsonResponder(200, types.EncryptedMessage{
		BaseDocument:   types.BaseDocument{ID: "msg-1", Rev: "1-abc"},
		RecipientEmail: "bob@gmail.com",
	})
	httpmock.RegisterResponder("GET", fmt.Sprintf("%s/%s/%s", couchURL, "test", "msg-1"), mk)

	res, err := db.GetByID(context.Background(), "msg-1")
	require.NoError(t, err)

	var msg types.EncryptedMessage
	require.NoError(t, MapToObject(res, &msg))
	assert.Equal(t, "msg-1", msg.ID)
	assert.Equal(t, "1-abc", msg.Rev)
	assert.Equal(t, "bob@gmail.com", msg.RecipientEmail)
}

func TestGetByIDNotFound(t *testing.T) {
	db, _ := InitMockDatabase("test")
	defer deactivateMock()

	httpmock.RegisterResponder("GET", fmt.Sprintf("%s/%s/%s", couchURL, "test", "missing"),
		httpmock.NewStringResponder(404, `{"error":"not_found","reason":"missing"}`))

	_, err := db.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestSaveConflict(t *testing.T) {
	db, _ := InitMockDatabase("test")
	defer deactivateMock()

	httpmock.RegisterResponder("PUT", fmt.Sprintf("%s/%s/%s", couchURL, "test", "msg-1"),
		httpmock.NewStringResponder(409, `{"error":"conflict","reason":"Document update conflict."}`))

	err := db.Save(context.Background(), "msg-1", &types.EncryptedMessage{
		BaseDocument: types.BaseDocument{Rev: "1-stale"},
		IsDecrypted:  true,
	})
	assert.True(t, errors.Is(err, types.ErrConflict))
}

func TestSaveSendsRevision(t *testing.T) {
	db, _ := InitMockDatabase("test")
	defer deactivateMock()

	var received map[string]interface{}
	httpmock.RegisterResponder("PUT", fmt.Sprintf("%s/%s/%s", couchURL, "test", "msg-1"),
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&received); err != nil {
				return httpmock.NewStringResponse(400, ""), nil
			}
			return httpmock.NewJsonResponse(201, types.OK{IsOK: true, ID: "msg-1", Rev: "2-def"})
		})

	err := db.Save(context.Background(), "msg-1", &types.EncryptedMessage{
		BaseDocument: types.BaseDocument{ID: "msg-1", Rev: "1-abc"},
		IsDecrypted:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "1-abc", received["_rev"])
	assert.Equal(t, true, received["isDecrypted"])
}

func TestFind(t *testing.T) {
	db, _ := InitMockDatabase("test")
	defer deactivateMock()

	httpmock.RegisterResponder("POST", fmt.Sprintf("%s/%s/_find", couchURL, "test"),
		func(req *http.Request) (*http.Response, error) {
			var query map[string]interface{}
			if err := json.NewDecoder(req.Body).Decode(&query); err != nil {
				return httpmock.NewStringResponse(400, `{"error":"bad_request"}`), nil
			}
			assert.Equal(t, map[string]interface{}{"senderId": "u1"}, query["selector"])
			assert.Equal(t, []interface{}{
				map[string]interface{}{"senderId": "desc"},
				map[string]interface{}{"created": "desc"},
			}, query["sort"])
			assert.Equal(t, float64(10), query["limit"])
			return httpmock.NewStringResponse(200, `{"docs":[{"_id":"a","senderId":"u1"},{"_id":"b","senderId":"u1"}]}`), nil
		})

	docs, err := db.Find(context.Background(), map[string]interface{}{"senderId": "u1"}, SentMessagesSort, 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	var msg types.EncryptedMessage
	require.NoError(t, MapToObject(docs[1], &msg))
	assert.Equal(t, "b", msg.ID)
}

func TestFindWithoutSortOmitsSort(t *testing.T) {
	db, _ := InitMockDatabase("test")
	defer deactivateMock()

	httpmock.RegisterResponder("POST", fmt.Sprintf("%s/%s/_find", couchURL, "test"),
		func(req *http.Request) (*http.Response, error) {
			var query map[string]interface{}
			_ = json.NewDecoder(req.Body).Decode(&query)
			_, hasSort := query["sort"]
			assert.False(t, hasSort)
			return httpmock.NewStringResponse(200, `{"docs":[]}`), nil
		})

	docs, err := db.Find(context.Background(), map[string]interface{}{"senderId": "u1"}, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCreateMessageIndexes(t *testing.T) {
	db, _ := InitMockDatabase("test")
	defer deactivateMock()

	indexed := map[string][]interface{}{}
	httpmock.RegisterResponder("POST", fmt.Sprintf("%s/%s/_index", couchURL, "test"),
		func(req *http.Request) (*http.Response, error) {
			var index struct {
				Index struct {
					Fields []interface{} `json:"fields"`
				} `json:"index"`
				Name string `json:"name"`
			}
			_ = json.NewDecoder(req.Body).Decode(&index)
			indexed[index.Name] = index.Index.Fields
			return httpmock.NewStringResponse(200, `{"result":"created"}`), nil
		})

	require.NoError(t, CreateMessageIndexes(db))
	assert.Equal(t, []interface{}{"senderId", "created"}, indexed["sender-index"])
	assert.Equal(t, []interface{}{"recipientEmail", "created"}, indexed["recipient-index"])
}

func TestServerErrorIsInternal(t *testing.T) {
	db, _ := InitMockDatabase("test")
	defer deactivateMock()

	httpmock.RegisterResponder("GET", fmt.Sprintf("%s/%s/%s", couchURL, "test", "x"),
		httpmock.NewStringResponder(500, `{"error":"unknown_error","reason":"boom"}`))
	_, err := db.GetByID(context.Background(), "x")
	assert.True(t, errors.Is(err, types.ErrInternal))
}
