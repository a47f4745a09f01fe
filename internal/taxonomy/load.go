package taxonomy

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/genrex/internal/shared"
)

// file is the on-disk shape of a taxonomy definition:
//
//	[[genre]]
//	name = "Brazilian"
//	aliases = ["bossa nova", "mpb"]
type file struct {
	Genre []Family `toml:"genre"`
}

// DecodeDefinition parses a TOML taxonomy definition.
func DecodeDefinition(data []byte) (Definition, error) {
	var f file
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("%w: taxonomy: %v", shared.ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: taxonomy: unknown key %q", shared.ErrInvalidConfig, undecoded[0].String())
	}
	if len(f.Genre) == 0 {
		return nil, fmt.Errorf("%w: taxonomy: no [[genre]] entries", shared.ErrInvalidConfig)
	}
	return Definition(f.Genre), nil
}

// LoadDefinition reads a TOML taxonomy definition from path.
func LoadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFileNotFound, err)
	}
	return DecodeDefinition(data)
}

// Load returns the table at path, or the built-in table when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return NewTable(Default())
	}

	def, err := LoadDefinition(path)
	if err != nil {
		return nil, err
	}
	return NewTable(def)
}

// EncodeDefinition renders def in the format [DecodeDefinition] reads.
func EncodeDefinition(def Definition) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(file{Genre: def}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
