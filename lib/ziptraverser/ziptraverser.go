/*
Package ziptraverser provides a transparent way of opening files by path
name, where some of the directory names are actually zip archives. Gnome15
profile archives (.mzip) are recognised as well as plain .zip files.

Usage:

Create an empty ziptraverser. Afterwards, ask it to open a file.

	zt := ziptraverser.New()
	defer zt.Close()
	f, err := zt.Get("path/to/profile.mzip/profile.macros")
	if err != nil {
		return err
	}
	io.Copy(os.Stdout, f)

Callers should Close() the resulting ReadCloser before calling Get again.
A ZipTraverser is not safe for concurrent use.
*/
package ziptraverser

import (
	"io"
	"strings"
)

// Archives lists the file extensions that are treated as zip archives
var Archives = []string{".zip", ".mzip"}

type ZipTraverser interface {
	Exists(filename string) bool
	Get(filename string) (io.ReadCloser, error)
	Close()
}

// New returns a ZipTraverser that keeps at most 4 archives open
func New() ZipTraverser {
	return newMap(4)
}

func isArchive(elem string) bool {
	lower := strings.ToLower(elem)
	for _, ext := range Archives {
		if len(lower) > len(ext) && strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
