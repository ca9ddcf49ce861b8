package models

import "encoding/json"

// RawJSON is an undecoded JSON document returned by the server.
type RawJSON = json.RawMessage
