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


// Package storage provides the storage abstraction layer for chunkdeck.
//
// Two layers are defined here. KeyValueStore is the low-level byte store
// (BadgerDB in production, in-memory BadgerDB in tests). DocumentRepository
// sits on top of it and owns the key scheme, the registry of saved titles
// and the JSON encoding of documents.
//
// # Key Scheme
//
//	AL_records_<base64(title)>   a saved document
//	AL_chunkDocument             the working copy of the current document
//	AL_recordStorageIds          JSON array of saved titles (the registry)
//
// Titles are base64-encoded so that arbitrary titles map to distinct,
// well-formed keys.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo := storage.NewDocumentRepository(backend)
//	doc, err := repo.GetDocument(ctx, "Chunks")
//
// # Thread Safety
//
// Implementations must be safe for concurrent readers. Writes are expected
// from a single owner (the document store).
package storage
