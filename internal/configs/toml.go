package configs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SaveTOML encodes data to filePath, creating parent directories.
func SaveTOML(filePath string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(data)
}

// EncodeTOML writes data as TOML to w.
func EncodeTOML(w io.Writer, data interface{}) error {
	return toml.NewEncoder(w).Encode(data)
}

// LoadTOML decodes filePath into data. Keys not present in data are an error
// so that typos in the config file surface instead of being ignored.
func LoadTOML(filePath string, data interface{}) error {
	meta, err := toml.DecodeFile(filePath, data)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return &UnknownKeysError{Keys: undecoded}
	}
	return nil
}

// UnknownKeysError lists config keys that match no setting.
type UnknownKeysError struct {
	Keys []toml.Key
}

func (e *UnknownKeysError) Error() string {
	msg := "unknown config keys:"
	for _, k := range e.Keys {
		msg += " " + k.String()
	}
	return msg
}
