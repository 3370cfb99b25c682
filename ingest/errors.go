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

package ingest

import "errors"

var (
	// ErrConverterRequired is returned when a pipeline is created without a converter.
	ErrConverterRequired = errors.New("converter is required")

	// ErrExtractorRequired is returned when a pipeline is created without a record extractor.
	ErrExtractorRequired = errors.New("record extractor is required")

	// ErrGatewayRequired is returned when a pipeline is created without an embedding gateway.
	ErrGatewayRequired = errors.New("embedding gateway is required")

	// ErrStoreRequired is returned when a pipeline is created without a vector store.
	ErrStoreRequired = errors.New("vector store is required")
)
