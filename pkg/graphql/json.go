package graphql

import jsoniter "github.com/json-iterator/go"

// json is a drop-in replacement for encoding/json used for request and
// response payloads.
var json = jsoniter.ConfigCompatibleWithStandardLibrary
