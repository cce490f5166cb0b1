package tunnel

// MasterKeyPayload is the pairing result both devices hold after a
// successful handshake. MasterKey and Salt are generated once, by the
// creator; after transport they are byte-identical on both sides and become
// the long-term basis for all local-data encryption. The JSON encoding
// (with []byte fields as base64) is what travels inside the tunnel-key
// envelope.
type MasterKeyPayload struct {
	MasterKey []byte `json:"masterKey"`
	Salt      []byte `json:"salt"`
	CreatorID string `json:"creatorId"`
	JoinerID  string `json:"joinerId"`
}
