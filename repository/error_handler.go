package repository

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-kit/log/level"
	"github.com/go-resty/resty/v2"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/types"
)

// handleError maps a CouchDB error response to a sentinel error
func handleError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	switch resp.StatusCode() {
	case http.StatusNotFound:
		return types.ErrNotFound
	case http.StatusConflict, http.StatusPreconditionFailed:
		return types.ErrConflict
	case http.StatusBadRequest:
		return types.ErrBadRequest
	}
	var dbErr types.CouchDBError
	if uErr := json.Unmarshal(resp.Body(), &dbErr); uErr != nil {
		level.Error(global.Logger).Log("msg", "failed to unmarshal couchdb error", "err", uErr, "status", resp.StatusCode())
		return fmt.Errorf("couchdb status %d: %w", resp.StatusCode(), types.ErrInternal)
	}
	return fmt.Errorf("couchdb %s (%s): %w", dbErr.Error, dbErr.Reason, types.ErrInternal)
}
