package corpus

import (
	"fmt"
	"os"

	"github.com/bastiangx/wordchain/pkg/successor"
	"github.com/bastiangx/wordchain/pkg/token"
	"github.com/charmbracelet/log"
)

// FileAccessError reports a training file that could not be opened or read.
type FileAccessError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot %s training file %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// Open opens path for reading after checking it names a regular file.
func Open(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "stat", Err: err}
	}
	if info.IsDir() {
		return nil, &FileAccessError{Path: path, Op: "open", Err: fmt.Errorf("is a directory")}
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "open", Err: err}
	}
	log.Debugf("Opened training file %s (%d bytes)", path, info.Size())
	return file, nil
}

// LoadFile builds the corpus model of the file at path.
func LoadFile(path string, n token.Normalizer) (*Model, error) {
	file, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	m, err := BuildReader(file, n)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "read", Err: err}
	}
	return m, nil
}

// LoadSeed builds the successor model of seed from the file at path.
func LoadSeed(path, seed string, n token.Normalizer) (*successor.Model, error) {
	file, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sm, err := BuildSeedReader(file, seed, n)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "read", Err: err}
	}
	return sm, nil
}
