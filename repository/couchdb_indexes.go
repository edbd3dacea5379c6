package repository

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// sort specs matching the message indexes below (Mango requires the full index order)
var (
	SentMessagesSort     = []SortField{{"senderId": "desc"}, {"created": "desc"}}
	ReceivedMessagesSort = []SortField{{"recipientEmail": "desc"}, {"created": "desc"}}
)

// CreateMessageIndexes creates the encrypted_messages indexes for listing by sender and by recipient, newest first
func CreateMessageIndexes(messageRepo Repository) error {
	c, ok := messageRepo.GetClient().(*resty.Client)
	if !ok {
		// in-memory repository, nothing to index
		return nil
	}
	if err := createIndex(c, messageRepo.GetDBName(), "sender-index", []string{"senderId", "created"}); err != nil {
		return err
	}
	return createIndex(c, messageRepo.GetDBName(), "recipient-index", []string{"recipientEmail", "created"})
}

func createIndex(c *resty.Client, dbName, name string, fields []string) error {
	index := map[string]interface{}{
		"index": map[string]interface{}{
			"fields": fields,
		},
		"name": name,
		"type": "json",
		"ddoc": name,
	}
	resp, rErr := c.R().SetBody(index).Post(fmt.Sprintf("%s/%s", dbName, "_index"))
	if rErr != nil {
		return rErr
	}
	return handleError(resp)
}
