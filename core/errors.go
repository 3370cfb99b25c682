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

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse indicates model output that could not be coerced
	// into a record. Returned wrapped inside a MalformedResponseError.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrEmptyRecord indicates a coerced record with no Q&A pairs.
	// Such records are rejected before storage, never persisted.
	ErrEmptyRecord = errors.New("record contains no Q&A pairs")
)

// excerptLen bounds the diagnostic excerpt kept from unparseable responses.
const excerptLen = 500

// MalformedResponseError carries a diagnostic excerpt of the raw model
// response that failed coercion.
type MalformedResponseError struct {
	Excerpt string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMalformedResponse, e.Excerpt)
}

// Unwrap lets errors.Is match against ErrMalformedResponse.
func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

func newMalformedResponseError(raw string) *MalformedResponseError {
	runes := []rune(raw)
	if len(runes) > excerptLen {
		runes = runes[:excerptLen]
	}
	return &MalformedResponseError{Excerpt: string(runes)}
}
