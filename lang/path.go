package lang

import (
	"os"
	"path/filepath"

	"github.com/ardnew/mung"

	"github.com/ardnew/ftl/pkg"
)

// PathEnv is the environment variable holding additional template
// directories, separated by the OS path list separator.
var PathEnv = pkg.EnvPrefix() + "PATH"

// SearchPath returns the directories searched for templates: dirs followed
// by the entries of [PathEnv], without duplicates or entries that are not
// directories.
func SearchPath(dirs ...string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(joined)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// findTemplate returns the path of the template file name. Absolute names
// and names relative to the working directory are used as is; other names
// are looked up in each directory of path in order.
func findTemplate(name string, path []string) (string, bool) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, true
	}

	if filepath.IsAbs(name) {
		return "", false
	}

	for _, dir := range path {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}

	return "", false
}
