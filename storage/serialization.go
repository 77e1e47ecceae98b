// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/chunkdeck/core"
)

// MarshalDocument serializes a document to its stored form, the compact
// version 2 JSON produced by core.EncodeDocument.
func MarshalDocument(doc *core.ChunkDocument) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	data, err := core.EncodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalDocument deserializes a stored document of any schema version.
// The underlying core.ErrMalformedDocument stays reachable through errors.Is.
func UnmarshalDocument(data []byte) (*core.ChunkDocument, error) {
	doc, err := core.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return doc, nil
}

// MarshalRegistry serializes the registry as a JSON array of titles.
func MarshalRegistry(titles []string) ([]byte, error) {
	if titles == nil {
		titles = []string{}
	}
	data, err := json.Marshal(titles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalRegistry deserializes a JSON array of titles.
func UnmarshalRegistry(data []byte) ([]string, error) {
	var titles []string
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

// Fingerprint returns a BLAKE2b-256 digest of data.
func Fingerprint(data []byte) []byte {
	h, _ := blake2b.New(32, nil)
	h.Write(data)
	return h.Sum(nil)
}
