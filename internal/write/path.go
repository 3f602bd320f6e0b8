package write

import (
	"strings"

	apperr "github.com/macward/vibemcp/internal/errors"
	"github.com/macward/vibemcp/internal/walker"
)

func validProjectName(name string) bool {
	return name != "" && !strings.Contains(name, "..") && !strings.ContainsAny(name, "/\\")
}

// resolve validates and joins project/folder/filename under root, enforcing
// the path-safety rules shared with every other path-name-taking component
// (see walker.ResolvePath).
func (e *Engine) resolve(project, folder, filename string) (string, error) {
	full, err := walker.ResolvePath(e.root, project, folder, filename)
	if err != nil {
		return "", apperr.Invalid("%s", err.Error())
	}
	return full, nil
}
