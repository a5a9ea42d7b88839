package kv

import (
	"errors"
	"fmt"

	"koryob-backend/internal/domain"
	"koryob-backend/pkg/kvstore"
)

// Durable storage keys. Session and bookmark keys are suffixed with the client
// id; the default client uses the bare key.
const (
	KeyUsers     = "users"
	KeySession   = "authenticatedUser"
	KeyJobs      = "koryob_jobs"
	KeyMessages  = "koryob_messages"
	KeySavedJobs = "savedJobs"
)

const (
	opLoad   = "load"
	opSave   = "save"
	opDelete = "delete"
)

func clientKey(base, clientID string) string {
	if clientID == "" {
		return base
	}
	return base + ":" + clientID
}

// loadErr maps a decode failure to domain.ErrCorruptRecord.
func loadErr(err error) error {
	var decodeErr *kvstore.DecodeError
	if errors.As(err, &decodeErr) {
		return fmt.Errorf("%w: %v", domain.ErrCorruptRecord, err)
	}
	return err
}
