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


// Package store holds the single in-memory ChunkDocument and keeps it in
// step with persistent storage.
//
// Every mutating Store method writes the working copy before returning, so
// a reader of storage never sees a state older than the last completed
// mutation. Edits that are not covered by a dedicated method go through
// Mutate, which applies the edit and then persists.
//
// Named documents are saved, loaded and deleted explicitly. Saving records
// the title in the registry; deleting removes it. Export hands the current
// document to a Downloader without touching storage.
//
// Side effects that belong to the user interface are collaborators:
//   - Notifier receives a confirmation after each save
//   - Alerter receives the blocking "not found" notice of interactive loads
//   - Downloader receives exported files
package store
