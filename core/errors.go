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


package core

import "errors"

// Domain errors
var (
	// ErrMalformedDocument indicates input that is not a document in any known shape.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrInvalidDocument indicates a ChunkDocument failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrUnsupportedVersion indicates a schema version outside 0..LatestVersion.
	ErrUnsupportedVersion = errors.New("unsupported document version")

	// ErrDuplicateRecordID indicates two records in a document share an ID.
	ErrDuplicateRecordID = errors.New("duplicate record id")

	// ErrDuplicateAdditionID indicates two additions in a record share an ID.
	ErrDuplicateAdditionID = errors.New("duplicate addition id")

	// ErrEmptyID indicates a record or addition without an ID.
	ErrEmptyID = errors.New("id cannot be empty")
)
