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


package index

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/staffit/core"
)

// Blob format: each companion blob opens with a four-byte magic tag, a format
// version, the entry count, and the dimensionality. The vectors blob follows
// with count*dims raw little-endian float32 values in row-major order; the
// metadata blob follows with one serialized (DocumentID, DocumentMeta) pair
// per entry, in the same ordinal order as the vector rows.
const (
	vectorsMagic  = "SFVX"
	metadataMagic = "SFMD"
	formatVersion = 1
)

// documentIDMUS serializes core.DocumentID in MUS format.
var documentIDMUS = documentIDSer{}

type documentIDSer struct{}

func (documentIDSer) Marshal(v core.DocumentID, bs []byte) (n int) {
	n = ord.String.Marshal(v.ProfileId, bs)
	n += varint.Int.Marshal(int(v.Kind), bs[n:])
	n += ord.String.Marshal(v.Key, bs[n:])
	return
}

func (documentIDSer) Unmarshal(bs []byte) (v core.DocumentID, n int, err error) {
	var n1 int
	v.ProfileId, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var kind int
	kind, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Kind = core.DocumentKind(kind)
	v.Key, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (documentIDSer) Size(v core.DocumentID) (size int) {
	size = ord.String.Size(v.ProfileId)
	size += varint.Int.Size(int(v.Kind))
	size += ord.String.Size(v.Key)
	return
}

// documentMetaMUS serializes core.DocumentMeta in MUS format.
var documentMetaMUS = documentMetaSer{}

type documentMetaSer struct{}

func (documentMetaSer) Marshal(v core.DocumentMeta, bs []byte) (n int) {
	n = ord.String.Marshal(v.ProfileId, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Position, bs[n:])
	n += ord.String.Marshal(v.Department, bs[n:])
	n += varint.Int.Marshal(len(v.Skills), bs[n:])
	for _, skill := range v.Skills {
		n += ord.String.Marshal(skill, bs[n:])
	}
	n += varint.Int.Marshal(v.ExperienceYears, bs[n:])
	n += varint.Int.Marshal(int(v.Availability), bs[n:])
	return
}

func (documentMetaSer) Unmarshal(bs []byte) (v core.DocumentMeta, n int, err error) {
	var n1 int
	v.ProfileId, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Position, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Department, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var skillCount int
	skillCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if skillCount < 0 || skillCount > len(bs) {
		err = fmt.Errorf("implausible skill count %d", skillCount)
		return
	}
	if skillCount > 0 {
		v.Skills = make([]string, skillCount)
		for i := 0; i < skillCount; i++ {
			v.Skills[i], n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	v.ExperienceYears, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var availability int
	availability, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	v.Availability = core.Availability(availability)
	return
}

func (documentMetaSer) Size(v core.DocumentMeta) (size int) {
	size = ord.String.Size(v.ProfileId)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Position)
	size += ord.String.Size(v.Department)
	size += varint.Int.Size(len(v.Skills))
	for _, skill := range v.Skills {
		size += ord.String.Size(skill)
	}
	size += varint.Int.Size(v.ExperienceYears)
	size += varint.Int.Size(int(v.Availability))
	return
}

// headerSize returns the serialized size of a blob header.
func headerSize(count, dims int) int {
	return len(vectorsMagic) + varint.Int.Size(formatVersion) +
		varint.Int.Size(count) + varint.Int.Size(dims)
}

// marshalHeader writes a blob header and returns the bytes written.
func marshalHeader(magic string, count, dims int, bs []byte) (n int) {
	n = copy(bs, magic)
	n += varint.Int.Marshal(formatVersion, bs[n:])
	n += varint.Int.Marshal(count, bs[n:])
	n += varint.Int.Marshal(dims, bs[n:])
	return
}

// unmarshalHeader reads and validates a blob header.
func unmarshalHeader(magic string, bs []byte) (count, dims, n int, err error) {
	if len(bs) < len(magic) || string(bs[:len(magic)]) != magic {
		err = fmt.Errorf("%w: bad magic, want %q", ErrCorruptIndex, magic)
		return
	}
	n = len(magic)

	var n1, version int
	version, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrCorruptIndex, err)
		return
	}
	if version != formatVersion {
		err = fmt.Errorf("%w: unsupported format version %d", ErrCorruptIndex, version)
		return
	}

	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrCorruptIndex, err)
		return
	}
	dims, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrCorruptIndex, err)
		return
	}
	if count < 0 || dims < 0 {
		err = fmt.Errorf("%w: negative count or dimensionality", ErrCorruptIndex)
	}
	return
}

// Persist serializes the index as its two companion blobs. The pair belongs
// together: Load requires both and validates them against each other.
func (idx *Index) Persist() (vectors, metadata []byte, err error) {
	count := len(idx.entries)

	vecSize := headerSize(count, idx.dims) + count*idx.dims*raw.Float32.Size(0)
	vectors = make([]byte, vecSize)
	n := marshalHeader(vectorsMagic, count, idx.dims, vectors)
	for i := range idx.entries {
		for _, f := range idx.entries[i].vec {
			n += raw.Float32.Marshal(f, vectors[n:])
		}
	}

	metaSize := headerSize(count, idx.dims)
	for i := range idx.entries {
		metaSize += documentIDMUS.Size(idx.entries[i].id)
		metaSize += documentMetaMUS.Size(idx.entries[i].meta)
	}
	metadata = make([]byte, metaSize)
	n = marshalHeader(metadataMagic, count, idx.dims, metadata)
	for i := range idx.entries {
		n += documentIDMUS.Marshal(idx.entries[i].id, metadata[n:])
		n += documentMetaMUS.Marshal(idx.entries[i].meta, metadata[n:])
	}

	return vectors, metadata, nil
}

// Load reconstructs an index from its two companion blobs. It fails with
// ErrCorruptIndex if either blob is truncated or damaged, if the entry counts
// or dimensionalities of the pair disagree, or if either blob carries
// trailing bytes beyond its declared content.
func Load(vectors, metadata []byte) (*Index, error) {
	vecCount, vecDims, n, err := unmarshalHeader(vectorsMagic, vectors)
	if err != nil {
		return nil, err
	}
	rowBytes := vecDims * raw.Float32.Size(0)
	if len(vectors)-n != vecCount*rowBytes {
		return nil, fmt.Errorf("%w: vectors blob has %d data bytes, want %d",
			ErrCorruptIndex, len(vectors)-n, vecCount*rowBytes)
	}

	metaCount, metaDims, m, err := unmarshalHeader(metadataMagic, metadata)
	if err != nil {
		return nil, err
	}
	if metaCount != vecCount || metaDims != vecDims {
		return nil, fmt.Errorf("%w: companion blobs disagree: vectors %dx%d, metadata %dx%d",
			ErrCorruptIndex, vecCount, vecDims, metaCount, metaDims)
	}

	docs := make([]core.Document, vecCount)
	for i := 0; i < vecCount; i++ {
		vec := make([]float32, vecDims)
		for j := 0; j < vecDims; j++ {
			f, n1, err := raw.Float32.Unmarshal(vectors[n:])
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
			}
			vec[j] = f
			n += n1
		}

		id, m1, err := documentIDMUS.Unmarshal(metadata[m:])
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCorruptIndex, i, err)
		}
		m += m1
		meta, m1, err := documentMetaMUS.Unmarshal(metadata[m:])
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCorruptIndex, i, err)
		}
		m += m1

		docs[i] = core.Document{Id: id, Embedding: vec, Meta: meta}
	}
	if m != len(metadata) {
		return nil, fmt.Errorf("%w: %d trailing bytes in metadata blob",
			ErrCorruptIndex, len(metadata)-m)
	}

	idx, err := Build(docs)
	if err != nil {
		// Build only fails on duplicate ids or inconsistent dimensions,
		// both of which mean the blobs do not describe a valid index.
		return nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	return idx, nil
}
