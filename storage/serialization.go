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
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/laqrag/core"
)

// MUS serializers for the StoredItem fields. Hand-assembled from mus-go
// primitives; the single flat struct does not warrant generated code.
var (
	vectorSer   = ord.NewSliceSer[float32](varint.Float32)
	metadataSer = ord.NewMapSer[string, string](ord.String, ord.String)
)

// MarshalStoredItem serializes a StoredItem to bytes.
func MarshalStoredItem(item *StoredItem) []byte {
	meta := map[string]string(item.Metadata)
	size := ord.String.Size(item.ID) +
		vectorSer.Size(item.Vector) +
		metadataSer.Size(meta) +
		ord.String.Size(item.Document)

	bs := make([]byte, size)
	n := ord.String.Marshal(item.ID, bs)
	n += vectorSer.Marshal(item.Vector, bs[n:])
	n += metadataSer.Marshal(meta, bs[n:])
	ord.String.Marshal(item.Document, bs[n:])
	return bs
}

// UnmarshalStoredItem deserializes a StoredItem from bytes.
func UnmarshalStoredItem(bs []byte) (*StoredItem, error) {
	id, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	vector, n1, err := vectorSer.Unmarshal(bs[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	n += n1
	meta, n2, err := metadataSer.Unmarshal(bs[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	n += n2
	document, _, err := ord.String.Unmarshal(bs[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}

	return &StoredItem{
		ID:       id,
		Vector:   vector,
		Metadata: core.ItemMetadata(meta),
		Document: document,
	}, nil
}
