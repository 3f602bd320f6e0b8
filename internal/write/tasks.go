package write

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	apperr "github.com/macward/vibemcp/internal/errors"
)

var taskPrefixPattern = regexp.MustCompile(`^(\d{3})-`)
var slugUnsafe = regexp.MustCompile(`[^\w\s-]`)
var slugWhitespaceOrHyphen = regexp.MustCompile(`[\s-]+`)
var validTaskStatuses = map[string]bool{"pending": true, "in-progress": true, "done": true, "blocked": true}
var statusLine = regexp.MustCompile(`(?m)^Status:.*$`)

// CreateTaskResult is create_task's success record.
type CreateTaskResult struct {
	Project  string
	Filename string
	Path     string
}

// CreateTask computes the next task number in the project's tasks/
// directory, derives a safe filename slug from title, and writes the new
// task file.
func (e *Engine) CreateTask(project, title, objective string, steps []string, feature string) (CreateTaskResult, error) {
	if err := e.auth.CheckWrite(); err != nil {
		return CreateTaskResult{}, err
	}
	if !validProjectName(project) {
		return CreateTaskResult{}, apperr.Invalid("invalid project name: %q", project)
	}

	lock := e.taskLock(project)
	lock.Lock()
	defer lock.Unlock()

	tasksDir := filepath.Join(e.root, project, "tasks")
	next, err := nextTaskNumber(tasksDir)
	if err != nil {
		return CreateTaskResult{}, err
	}

	slug := slugify(title)
	filename := fmt.Sprintf("%03d-%s.md", next, slug)

	fullPath, err := e.resolve(project, "tasks", filename)
	if err != nil {
		return CreateTaskResult{}, err
	}

	body := renderTaskBody(title, objective, steps, feature)

	if err := os.MkdirAll(tasksDir, 0o755); err != nil {
		return CreateTaskResult{}, apperr.Wrap(apperr.KindIOTransient, "create tasks directory", err)
	}
	if err := os.WriteFile(fullPath, []byte(body), 0o644); err != nil {
		return CreateTaskResult{}, apperr.Wrap(apperr.KindIOTransient, "write task file", err)
	}

	if err := e.reindexFile(fullPath); err != nil {
		return CreateTaskResult{}, err
	}

	e.fire("task.created", project, map[string]any{
		"project": project, "filename": filename, "title": title,
	})

	return CreateTaskResult{Project: project, Filename: filename, Path: fullPath}, nil
}

func nextTaskNumber(tasksDir string) (int, error) {
	entries, err := os.ReadDir(tasksDir)
	if os.IsNotExist(err) {
		return 1, nil
	}
	if err != nil {
		return 0, apperr.Wrap(apperr.KindIOTransient, "scan tasks directory", err)
	}

	max := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := taskPrefixPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1, nil
}

func slugify(title string) string {
	lower := strings.ToLower(title)
	cleaned := slugUnsafe.ReplaceAllString(lower, "")
	hyphenated := slugWhitespaceOrHyphen.ReplaceAllString(cleaned, "-")
	return strings.Trim(hyphenated, "-")
}

func renderTaskBody(title, objective string, steps []string, feature string) string {
	var b strings.Builder

	if feature != "" {
		b.WriteString("---\ntype: task\nstatus: pending\nfeature: " + feature + "\n---\n")
		b.WriteString("# Task: " + title + "\n")
	} else {
		b.WriteString("# Task: " + title + "\n")
		b.WriteString("Status: pending\n")
	}

	b.WriteString("\n## Objective\n" + objective + "\n")

	if len(steps) > 0 {
		b.WriteString("\n## Steps\n")
		for i, step := range steps {
			fmt.Fprintf(&b, "%d. [ ] %s\n", i+1, step)
		}
	}

	return b.String()
}

// UpdateTaskStatusResult is update_task_status's success record.
type UpdateTaskStatusResult struct {
	Project  string
	TaskFile string
	Status   string
}

// UpdateTaskStatus replaces (or inserts) the task file's Status line.
func (e *Engine) UpdateTaskStatus(project, taskFile, newStatus string) (UpdateTaskStatusResult, error) {
	if err := e.auth.CheckWrite(); err != nil {
		return UpdateTaskStatusResult{}, err
	}
	if !validTaskStatuses[newStatus] {
		return UpdateTaskStatusResult{}, apperr.Invalid("invalid task status: %q", newStatus)
	}

	fullPath, err := e.resolve(project, "tasks", taskFile)
	if err != nil {
		return UpdateTaskStatusResult{}, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return UpdateTaskStatusResult{}, apperr.NotFound("task file %q not found", taskFile)
		}
		return UpdateTaskStatusResult{}, apperr.Wrap(apperr.KindIOTransient, "read task file", err)
	}

	updated := applyStatusLine(string(data), newStatus)

	if err := os.WriteFile(fullPath, []byte(updated), 0o644); err != nil {
		return UpdateTaskStatusResult{}, apperr.Wrap(apperr.KindIOTransient, "write task file", err)
	}

	if err := e.reindexFile(fullPath); err != nil {
		return UpdateTaskStatusResult{}, err
	}

	e.fire("task.updated", project, map[string]any{
		"project": project, "filename": taskFile, "status": newStatus,
	})

	return UpdateTaskStatusResult{Project: project, TaskFile: taskFile, Status: newStatus}, nil
}

func applyStatusLine(content, newStatus string) string {
	replacement := "Status: " + newStatus
	if statusLine.MatchString(content) {
		return statusLine.ReplaceAllString(content, replacement)
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			out := make([]string, 0, len(lines)+1)
			out = append(out, lines[:i+1]...)
			out = append(out, replacement)
			out = append(out, lines[i+1:]...)
			return strings.Join(out, "\n")
		}
	}
	return content + "\n" + replacement + "\n"
}
