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

package search

import "errors"

var (
	// ErrEmptyQuery is returned when the query is blank after trimming
	// whitespace. Checked before any embedding call is made.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrQueryEmbedding is returned when the query itself cannot be embedded.
	ErrQueryEmbedding = errors.New("could not embed query")

	// ErrGatewayRequired is returned when a searcher is created without an
	// embedding gateway.
	ErrGatewayRequired = errors.New("embedding gateway is required")

	// ErrStoreRequired is returned when a searcher is created without a
	// vector store.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrSearcherRequired is returned when a chat is created without a
	// searcher.
	ErrSearcherRequired = errors.New("searcher is required")

	// ErrGeneratorRequired is returned when a chat is created without a
	// generator.
	ErrGeneratorRequired = errors.New("generator is required")
)
