// Package store holds the device-local durable state the pairing flow
// reads and writes: a small key-value settings store and a bulk record
// importer for the "essential records" a partner may bundle with the
// master key payload.
package store

// Settings keys used by the pairing flow.
const (
	KeyUserID        = "user_id"
	KeyPartnerID     = "partner_id"
	KeyMasterKey     = "master_key"
	KeySalt          = "salt"
	KeyPairingStatus = "pairing_status"
)

// StatusConnected marks a completed pairing.
const StatusConnected = "connected"

// Record is a single schemaless record bundled for resync.
type Record map[string]any

// Settings is a key-value settings store. Get returns an empty string for
// a missing key.
type Settings interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Records imports bundles of records into a named local record store.
type Records interface {
	ImportRecords(storeName string, records []Record) error
}
