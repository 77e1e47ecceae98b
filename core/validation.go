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

import "fmt"

// ValidateDocument validates a ChunkDocument according to domain rules.
//
// Validation rules:
//   - Version must be between 0 and LatestVersion
//   - Record IDs must be non-empty and unique within the document
//   - Addition IDs must be non-empty and unique within their record
//
// NOT validated (free text):
//   - Title, Footer, Level, Front, Back, Icon
//   - Sections (copied through unchanged)
func ValidateDocument(doc *ChunkDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if err := ValidateVersion(doc.Version); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	seen := make(map[string]struct{}, len(doc.Records))
	for _, record := range doc.Records {
		if err := ValidateRecord(record); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		if _, dup := seen[record.ID]; dup {
			return fmt.Errorf("%w: %w: %s", ErrInvalidDocument, ErrDuplicateRecordID, record.ID)
		}
		seen[record.ID] = struct{}{}
	}

	return nil
}

// ValidateRecord checks the record's own ID and the uniqueness of its additions.
func ValidateRecord(record *ChunkRecord) error {
	if record.ID == "" {
		return fmt.Errorf("record: %w", ErrEmptyID)
	}

	seen := make(map[string]struct{}, len(record.Additions))
	for _, addition := range record.Additions {
		if addition.ID == "" {
			return fmt.Errorf("addition in record %s: %w", record.ID, ErrEmptyID)
		}
		if _, dup := seen[addition.ID]; dup {
			return fmt.Errorf("%w: %s in record %s", ErrDuplicateAdditionID, addition.ID, record.ID)
		}
		seen[addition.ID] = struct{}{}
	}
	return nil
}

// ValidateVersion checks that a schema version is one this package can decode.
func ValidateVersion(version int) error {
	if version < 0 || version > LatestVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return nil
}
