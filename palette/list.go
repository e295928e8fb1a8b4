package palette

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lixenwraith/signal-collider/parameter"
)

// ReadList parses a newline-delimited palette list
// Carriage returns are stripped, blank lines keep their slot as empty entries,
// and at most PaletteSounds lines are read
func ReadList(r io.Reader) ([]string, error) {
	var paths []string
	sc := bufio.NewScanner(r)
	for sc.Scan() && len(paths) < parameter.PaletteSounds {
		paths = append(paths, strings.TrimSpace(strings.ReplaceAll(sc.Text(), "\r", "")))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read palette list: %w", err)
	}
	return paths, nil
}

// ReadListFile reads a palette list, resolving relative entries against its directory
func ReadListFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open palette list: %w", err)
	}
	defer f.Close()

	paths, err := ReadList(f)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i, p := range paths {
		if p != "" && !filepath.IsAbs(p) {
			paths[i] = filepath.Join(dir, p)
		}
	}
	return paths, nil
}
