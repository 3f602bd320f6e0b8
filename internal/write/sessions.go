package write

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperr "github.com/macward/vibemcp/internal/errors"
)

// LogSessionResult is log_session's success record.
type LogSessionResult struct {
	Project  string
	Filename string
	Path     string
	Action   string // "created" or "appended"
}

// LogSession appends to (or creates) today's session log file.
func (e *Engine) LogSession(project, content string) (LogSessionResult, error) {
	if err := e.auth.CheckWrite(); err != nil {
		return LogSessionResult{}, err
	}

	now := time.Now().UTC()
	filename := now.Format("2006-01-02") + ".md"

	fullPath, err := e.resolve(project, "sessions", filename)
	if err != nil {
		return LogSessionResult{}, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return LogSessionResult{}, apperr.Wrap(apperr.KindIOTransient, "create sessions directory", err)
	}

	action := "created"
	if _, statErr := os.Stat(fullPath); statErr == nil {
		action = "appended"
	}

	var toWrite string
	if action == "created" {
		toWrite = fmt.Sprintf("# Session Log - %s\n\n%s\n", now.Format("2006-01-02"), content)
		if err := os.WriteFile(fullPath, []byte(toWrite), 0o644); err != nil {
			return LogSessionResult{}, apperr.Wrap(apperr.KindIOTransient, "write session log", err)
		}
	} else {
		entry := fmt.Sprintf("\n\n---\n**%s**\n\n%s\n", now.Format("15:04:05"), content)
		f, err := os.OpenFile(fullPath, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return LogSessionResult{}, apperr.Wrap(apperr.KindIOTransient, "open session log", err)
		}
		_, writeErr := f.WriteString(entry)
		closeErr := f.Close()
		if writeErr != nil {
			return LogSessionResult{}, apperr.Wrap(apperr.KindIOTransient, "append session log", writeErr)
		}
		if closeErr != nil {
			return LogSessionResult{}, apperr.Wrap(apperr.KindIOTransient, "close session log", closeErr)
		}
	}

	if err := e.reindexFile(fullPath); err != nil {
		return LogSessionResult{}, err
	}

	e.fire("session.logged", project, map[string]any{
		"project": project, "filename": filename, "action": action,
	})

	return LogSessionResult{Project: project, Filename: filename, Path: fullPath, Action: action}, nil
}
