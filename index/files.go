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
	"os"
	"path/filepath"
)

// File names of the companion pair inside an index directory.
const (
	VectorsFile  = "index.vectors"
	MetadataFile = "index.meta"
)

// SaveDir persists the index as a companion file pair inside dir, creating
// the directory if needed. Each file is written to a temp file and renamed
// into place, so a crash mid-save never leaves a torn blob behind.
func (idx *Index) SaveDir(dir string) error {
	vectors, metadata, err := idx.Persist()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(dir, VectorsFile), vectors); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, MetadataFile), metadata)
}

// LoadDir loads the companion file pair from dir. A directory holding only
// one of the two files is reported as ErrCorruptIndex: the pair is only
// meaningful together.
func LoadDir(dir string) (*Index, error) {
	vectors, vecErr := os.ReadFile(filepath.Join(dir, VectorsFile))
	metadata, metaErr := os.ReadFile(filepath.Join(dir, MetadataFile))

	switch {
	case vecErr == nil && metaErr == nil:
		return Load(vectors, metadata)
	case vecErr == nil:
		if os.IsNotExist(metaErr) {
			return nil, fmt.Errorf("%w: %s present but %s missing in %s",
				ErrCorruptIndex, VectorsFile, MetadataFile, dir)
		}
		return nil, metaErr
	case metaErr == nil:
		if os.IsNotExist(vecErr) {
			return nil, fmt.Errorf("%w: %s present but %s missing in %s",
				ErrCorruptIndex, MetadataFile, VectorsFile, dir)
		}
		return nil, vecErr
	default:
		return nil, vecErr
	}
}

// writeFileAtomic writes data to path via a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
